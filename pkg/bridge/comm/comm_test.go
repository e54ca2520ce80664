package comm

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/arduino.go/pkg/bridge/msgs"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// packetEnd is one end of an in-memory packet link.
type packetEnd struct {
	in   <-chan []byte
	out  chan<- []byte
	done chan struct{}
	once sync.Once
}

func packetLink() (*packetEnd, *packetEnd) {
	ab, ba := make(chan []byte, 16), make(chan []byte, 16)
	return &packetEnd{in: ba, out: ab, done: make(chan struct{})},
		&packetEnd{in: ab, out: ba, done: make(chan struct{})}
}

func (e *packetEnd) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-e.in:
		return pkt, nil
	case <-e.done:
		return nil, io.EOF
	}
}

func (e *packetEnd) WritePacket(pkt []byte) error {
	select {
	case e.out <- pkt:
		return nil
	case <-e.done:
		return io.ErrClosedPipe
	}
}

func (e *packetEnd) Close() error {
	e.once.Do(func() { close(e.done) })
	return nil
}

func (e *packetEnd) Run(ctx context.Context) error {
	<-ctx.Done()
	e.Close()
	return ctx.Err()
}

// customCmd has a type unknown to the bridge.
type customCmd struct {
	Value int32 `protobuf:"varint,1,opt,name=value,proto3" json:"value,omitempty"`
}

func (m *customCmd) NewMessage() fx.Message { return &customCmd{} }
func (m *customCmd) TypeID() uint32         { return msgs.GroupCustom | 0x0001 }
func (m *customCmd) ProtoMessage()          {}
func (m *customCmd) Reset()                 { *m = customCmd{} }
func (m *customCmd) String() string         { return proto.CompactTextString(m) }

type testEnv struct {
	reg    Registrar
	conn   ControllerConn
	events chan fx.Message
	cancel func()
	wg     sync.WaitGroup
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{events: make(chan fx.Message, 4)}
	serverEnd, clientEnd := packetLink()
	env.reg.Init(serverEnd)
	env.conn.Init(clientEnd)
	env.conn.Expiration = 100 * time.Millisecond
	env.conn.OnEvent = func(msg fx.Message) { env.events <- msg }

	server := fx.NewLoop()
	server.Interval = 10 * time.Millisecond
	server.Add(&env.reg, &UnsupportedCommands{})
	server.AddController(fx.PrLvCommand, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			cmd, ok := mc.CurrentMessage().(*CommandMsg)
			if !ok {
				return
			}
			switch cmd.Command.Msg().(type) {
			case *msgs.DigitalWrite:
				mc.MessageTaken()
				cmd.Command.Done(&msgs.ExitCode{Code: 0})
			case *msgs.AnalogRead:
				// swallowed, never replied
				mc.MessageTaken()
			}
		}))
		return nil
	}))

	client := fx.NewLoop()
	client.Interval = 10 * time.Millisecond
	client.Add(&env.conn)

	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = cancel
	env.wg.Add(2)
	go func() { defer env.wg.Done(); server.Run(ctx) }()
	go func() { defer env.wg.Done(); client.Run(ctx) }()
	t.Cleanup(env.stop)
	return env
}

func (e *testEnv) stop() {
	e.cancel()
	e.wg.Wait()
}

func (e *testEnv) do(t *testing.T, msg fx.Message) (fx.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.conn.Do(ctx, msg)
}

func TestCommandReply(t *testing.T) {
	env := newTestEnv(t)
	reply, err := env.do(t, &msgs.DigitalWrite{Number: 13, Value: true})
	require.NoError(t, err)
	require.Equal(t, &msgs.ExitCode{Code: 0}, reply)
}

func TestUnsupportedCommand(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.do(t, &msgs.NoTone{Number: 8})
	require.Error(t, err)
	cmdErr, ok := err.(*msgs.CommandErr)
	require.True(t, ok)
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), cmdErr.Message)
}

func TestUndecodableCommand(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.do(t, &customCmd{Value: 1})
	require.Error(t, err)
	_, ok := err.(*msgs.CommandErr)
	require.True(t, ok)
}

func TestCommandExpires(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.do(t, &msgs.AnalogRead{Index: 1})
	require.Equal(t, context.DeadlineExceeded, err)
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.reg.SendEvent(context.Background(), &msgs.PinSample{Number: 10, Value: 1}))
	select {
	case msg := <-env.events:
		require.Equal(t, &msgs.PinSample{Number: 10, Value: 1}, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
	// events can't be sent as commands and vice versa
	require.Error(t, env.reg.SendEvent(context.Background(), &msgs.ExitCode{}))
	require.Error(t, env.reg.pipe.SendCommandMsg(&msgs.PinSample{}, 1))
}

func TestPipeHandlePacket(t *testing.T) {
	local, remote := packetLink()
	var handled []fx.Message
	p := NewPipe(local)
	p.Handler = msgs.HandleTypedMsgFunc(func(_ context.Context, msg fx.Message, _ *msgs.Typed) error {
		handled = append(handled, msg)
		return nil
	})
	ctx := context.Background()

	// malformed packets are dropped, not fatal
	require.NoError(t, p.handlePacket(ctx, []byte{0xff, 0xff, 0xff}))
	require.Empty(t, handled)

	typed, err := msgs.TypedFrom(&msgs.DigitalRead{Number: 4})
	require.NoError(t, err)
	pkt, err := typed.Encode()
	require.NoError(t, err)
	require.NoError(t, p.handlePacket(ctx, pkt))
	require.Equal(t, []fx.Message{&msgs.DigitalRead{Number: 4}}, handled)

	// an unknown command is answered with CommandErr
	unknown := &msgs.Typed{TypeId: msgs.GroupCustom | 0x0001, Sequence: 9}
	pkt, err = unknown.Encode()
	require.NoError(t, err)
	require.NoError(t, p.handlePacket(ctx, pkt))
	reply, err := remote.ReadPacket()
	require.NoError(t, err)
	replyTyped, err := msgs.DecodeTyped(reply)
	require.NoError(t, err)
	require.Equal(t, uint32(9), replyTyped.Sequence)
	msg, err := replyTyped.Decode()
	require.NoError(t, err)
	require.IsType(t, &msgs.CommandErr{}, msg)
}
