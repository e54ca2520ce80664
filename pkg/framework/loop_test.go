package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	val int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func TestLoopPriorityOrder(t *testing.T) {
	var order []int
	l := NewLoop()
	for _, lv := range []int{PrLvIdle, PrLvSense, PrLvCommand, PrLvTop} {
		lv := lv
		l.AddController(lv, ControlFunc(func(ControlContext) error {
			order = append(order, lv)
			return nil
		}))
	}
	l.RunIteration(context.Background())
	require.Equal(t, []int{PrLvTop, PrLvCommand, PrLvSense, PrLvIdle}, order)
}

func TestLoopMessages(t *testing.T) {
	l := NewLoop()
	var seen []int
	l.AddController(PrLvCommand, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			msg := mc.CurrentMessage().(*testMsg)
			seen = append(seen, msg.val)
			// odd values are left for later
			if msg.val%2 == 0 {
				mc.MessageTaken()
			}
		}))
		return nil
	}))
	var left int
	l.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		left = cc.Messages().Len()
		return nil
	}))

	for n := 1; n <= 4; n++ {
		l.PostMessage(&testMsg{val: n})
	}
	l.RunIteration(context.Background())
	require.Equal(t, []int{1, 2, 3, 4}, seen)
	require.Equal(t, 2, left)

	seen = nil
	l.PostMessage(&testMsg{val: 6})
	l.RunIteration(context.Background())
	require.Equal(t, []int{1, 3, 6}, seen)
	require.Equal(t, 2, left)
}

func TestLoopStopProcessing(t *testing.T) {
	l := NewLoop()
	var seen []int
	l.AddController(PrLvCommand, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen = append(seen, mc.CurrentMessage().(*testMsg).val)
			mc.MessageTaken()
			mc.StopProcessing()
		}))
		return nil
	}))
	for n := 1; n <= 3; n++ {
		l.PostMessage(&testMsg{val: n})
	}
	l.RunIteration(context.Background())
	l.RunIteration(context.Background())
	l.RunIteration(context.Background())
	l.RunIteration(context.Background())
	require.Equal(t, []int{1, 2, 3}, seen)
}

func TestLoopRunnerPostsMessages(t *testing.T) {
	l := NewLoop()
	l.Interval = time.Hour
	got := make(chan int, 1)
	l.AddRunnable(RunFunc(func(ctx context.Context) error {
		ctl := LoopCtlFrom(ctx)
		ctl.PostMessage(&testMsg{val: 42})
		ctl.TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))
	l.AddController(PrLvCommand, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			mc.MessageTaken()
			select {
			case got <- mc.CurrentMessage().(*testMsg).val:
			default:
			}
		}))
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case v := <-got:
		require.Equal(t, 42, v)
	case <-time.After(5 * time.Second):
		t.Fatal("message not processed")
	}
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

func TestRunnerAggregatesErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	r := NewRunner().Go(
		RunFunc(func(context.Context) error { return errA }),
		NamedRun("b", RunFunc(func(context.Context) error { return errB })),
		RunFunc(func(context.Context) error { return context.Canceled }),
		RunFunc(func(context.Context) error { return nil }),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.ElementsMatch(t, []error{errA, errB}, agg.Errors)

	require.NoError(t, NewRunner().Go(RunFunc(func(context.Context) error { return nil })).Wait())
}

func TestAggregatedErrorMessage(t *testing.T) {
	var errs AggregatedError
	require.Nil(t, errs.Aggregate())
	errs.Add(nil, errors.New("one"))
	require.Equal(t, "one", errs.Aggregate().Error())
	errs.Add(errors.New("two"))
	require.Equal(t, "multiple errors:\n  one\n  two", errs.Error())
}
