package bridge

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/arduino.go/pkg/board"
	"github.com/robotalks/arduino.go/pkg/bridge/comm"
	"github.com/robotalks/arduino.go/pkg/bridge/msgs"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// EventSender publishes events.
type EventSender interface {
	SendEvent(context.Context, fx.Message) error
}

// EventSenders sends events to all senders.
type EventSenders []EventSender

// SendEvent implements EventSender.
func (s EventSenders) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	for _, sender := range s {
		errs.Add(sender.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// Options configures the Bridge.
type Options struct {
	// Port is reported in BoardInfo.
	Port string
	// Watch lists the pins sampled every SampleInterval.
	Watch          []board.Pin
	SampleInterval time.Duration
	// AnalogDeadband is the minimum change of an analog sample to publish.
	AnalogDeadband int
}

// Bridge executes received commands and samples watched pins on the
// loop goroutine, which is the only user of the session.
type Bridge struct {
	Executor
	Events EventSender

	watch      []board.Pin
	interval   time.Duration
	deadband   float64
	last       map[board.Pin]float64
	nextSample time.Time
}

// New creates a Bridge. Watched pins must be configured already.
func New(s *board.Session, events EventSender, opts Options) (*Bridge, error) {
	for _, pin := range opts.Watch {
		if _, ok := s.Mode(pin); !ok {
			return nil, fmt.Errorf("watched pin %s: %w", pin, board.ErrPinNotConfigured)
		}
	}
	return &Bridge{
		Executor: Executor{Session: s, Port: opts.Port},
		Events:   events,
		watch:    opts.Watch,
		interval: opts.SampleInterval,
		deadband: float64(opts.AnalogDeadband),
		last:     make(map[board.Pin]float64),
	}, nil
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvCommand, fx.ControlFunc(b.HandleCommands))
	if len(b.watch) > 0 {
		l.AddController(fx.PrLvSense, fx.ControlFunc(b.Sample))
	}
}

// HandleCommands executes board commands posted to the loop.
func (b *Bridge) HandleCommands(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*comm.CommandMsg)
		if !ok {
			return
		}
		reply := b.Execute(cmdMsg.Command.Msg())
		if reply == nil {
			return
		}
		mctx.MessageTaken()
		if cmdErr, ok := reply.(*msgs.CommandErr); ok {
			glog.V(1).Infof("%s failed: %s", msgs.Name(cmdMsg.Command.Msg()), cmdErr.Message)
		}
		errs.Add(cmdMsg.Command.Done(reply))
	}))
	return errs.Aggregate()
}

// Sample reads watched pins once SampleInterval has passed and publishes
// a PinSample for each changed value. Digital pins publish on any change,
// analog pins when the change reaches AnalogDeadband.
func (b *Bridge) Sample(cc fx.ControlContext) error {
	now := cc.Time()
	if now.Before(b.nextSample) {
		return nil
	}
	b.nextSample = now.Add(b.interval)
	var errs fx.AggregatedError
	for _, pin := range b.watch {
		val, err := b.read(pin)
		if err != nil {
			errs.Add(err)
			continue
		}
		last, seen := b.last[pin]
		if seen && !b.changed(pin, last, val) {
			continue
		}
		b.last[pin] = val
		if b.Events == nil {
			continue
		}
		errs.Add(b.Events.SendEvent(cc.Context(), &msgs.PinSample{
			Kind:   int32(pin.Kind),
			Number: int32(pin.Number),
			Value:  val,
		}))
	}
	return errs.Aggregate()
}

func (b *Bridge) read(pin board.Pin) (float64, error) {
	if pin.Kind == board.Analog {
		return b.Session.AnalogRead(pin.Number)
	}
	v, err := b.Session.DigitalRead(pin)
	if v {
		return 1, err
	}
	return 0, err
}

func (b *Bridge) changed(pin board.Pin, last, val float64) bool {
	if pin.Kind == board.Analog && b.deadband > 0 {
		return math.Abs(val-last) >= b.deadband
	}
	return val != last
}
