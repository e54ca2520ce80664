package sh

import (
	"context"
	"sync"

	"github.com/robotalks/arduino.go/pkg/board"
	"github.com/robotalks/arduino.go/pkg/bridge"
	"github.com/robotalks/arduino.go/pkg/bridge/comm"
	"github.com/robotalks/arduino.go/pkg/bridge/mqtt"
	"github.com/robotalks/arduino.go/pkg/bridge/msgs"
	"github.com/robotalks/arduino.go/pkg/bridge/stream"
	"github.com/robotalks/arduino.go/pkg/config"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// Backend executes bridge commands.
type Backend interface {
	// Do executes a command. A CommandErr reply is returned as error.
	Do(ctx context.Context, msg fx.Message) (fx.Message, error)
	// Name describes the backend for the prompt.
	Name() string
	Close() error
}

// LocalBackend drives a board session in process.
type LocalBackend struct {
	session  *board.Session
	executor bridge.Executor
	lock     sync.Mutex
}

// OpenLocal opens the board directly.
func OpenLocal(ctx context.Context, conf *config.Board) (*LocalBackend, error) {
	s, err := conf.Open(ctx)
	if err != nil {
		return nil, err
	}
	return NewLocal(s, conf.Port), nil
}

// NewLocal wraps an open session.
func NewLocal(s *board.Session, port string) *LocalBackend {
	return &LocalBackend{session: s, executor: bridge.Executor{Session: s, Port: port}}
}

// Do implements Backend.
func (b *LocalBackend) Do(ctx context.Context, msg fx.Message) (fx.Message, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	reply := b.executor.Execute(msg)
	if reply == nil {
		return nil, msgs.NewCommandErr(msgs.ErrUnsupportedCommand)
	}
	if cmdErr, ok := reply.(*msgs.CommandErr); ok {
		return nil, cmdErr
	}
	return reply, nil
}

// Name implements Backend.
func (b *LocalBackend) Name() string {
	return b.executor.Port
}

// Close implements Backend.
func (b *LocalBackend) Close() error {
	return b.session.Close()
}

// RemoteBackend sends commands to a bridge over MQTT or TCP.
type RemoteBackend struct {
	name   string
	conn   *comm.ControllerConn
	closer func() error
	cancel func()
	done   chan struct{}
}

// ConnectRemote connects the bridge serving board id through the broker.
func ConnectRemote(brokerURL, id string) (*RemoteBackend, error) {
	connector, err := mqtt.NewConnector(brokerURL)
	if err != nil {
		return nil, err
	}
	conn, err := connector.Connect(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return startRemote(id, &conn.ControllerConn, conn.Queue.Close), nil
}

// DialRemote connects the bridge listening on a TCP address.
func DialRemote(ctx context.Context, addr string) (*RemoteBackend, error) {
	conn, err := stream.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	return startRemote("tcp://"+addr, conn, nil), nil
}

func startRemote(name string, conn *comm.ControllerConn, closer func() error) *RemoteBackend {
	ctx, cancel := context.WithCancel(context.Background())
	b := &RemoteBackend{name: name, conn: conn, closer: closer, cancel: cancel, done: make(chan struct{})}
	loop := fx.NewLoop().Add(conn)
	go func() {
		defer close(b.done)
		loop.Run(ctx)
	}()
	return b
}

// Do implements Backend.
func (b *RemoteBackend) Do(ctx context.Context, msg fx.Message) (fx.Message, error) {
	return b.conn.Do(ctx, msg)
}

// Name implements Backend.
func (b *RemoteBackend) Name() string {
	return b.name
}

// Close implements Backend.
func (b *RemoteBackend) Close() error {
	b.cancel()
	<-b.done
	if b.closer != nil {
		return b.closer()
	}
	return nil
}

// Discover lists the boards served by bridges on the broker.
func Discover(brokerURL string) ([]mqtt.BoardMeta, error) {
	connector, err := mqtt.NewConnector(brokerURL)
	if err != nil {
		return nil, err
	}
	return connector.Discover(context.Background())
}
