package stream

import (
	"context"
	"net"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/arduino.go/pkg/bridge/comm"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// Server accepts clients on a listener. Commands of all clients are
// posted to the same loop, events are sent to every client.
type Server struct {
	Listener net.Listener

	clients map[*comm.Registrar]*ReadWriter
	lock    sync.Mutex
}

// Listen creates a Server listening on a TCP address.
func Listen(addr string) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewServer(l), nil
}

// NewServer creates a Server with a listener.
func NewServer(l net.Listener) *Server {
	return &Server{Listener: l, clients: make(map[*comm.Registrar]*ReadWriter)}
}

// Addr returns the listening address.
func (s *Server) Addr() net.Addr {
	return s.Listener.Addr()
}

// SendEvent implements bridge.EventSender.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	s.lock.Lock()
	regs := make([]*comm.Registrar, 0, len(s.clients))
	for reg := range s.clients {
		regs = append(regs, reg)
	}
	s.lock.Unlock()
	var errs fx.AggregatedError
	for _, reg := range regs {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(s)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	go func() {
		<-ctx.Done()
		s.Listener.Close()
	}()
	for {
		conn, err := s.Listener.Accept()
		if err != nil {
			s.closeAll()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		glog.V(1).Infof("client %s connected", conn.RemoteAddr())
		rw := New(conn)
		reg := &comm.Registrar{}
		reg.Init(rw)
		s.lock.Lock()
		s.clients[reg] = rw
		s.lock.Unlock()
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := reg.Run(ctx)
			s.lock.Lock()
			delete(s.clients, reg)
			s.lock.Unlock()
			glog.V(1).Infof("client %s disconnected: %v", conn.RemoteAddr(), err)
		}()
	}
}

func (s *Server) closeAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, rw := range s.clients {
		rw.Close()
	}
}

// Dial connects a Server. Add the returned connection to a loop to start
// receiving replies.
func Dial(ctx context.Context, addr string) (*comm.ControllerConn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	c := &comm.ControllerConn{}
	c.Init(New(conn))
	return c, nil
}
