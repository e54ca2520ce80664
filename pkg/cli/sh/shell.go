package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/arduino.go/pkg/bridge/msgs"
	"github.com/robotalks/arduino.go/pkg/config"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	Timeout     time.Duration

	Shell   *ishell.Shell
	Config  *config.Config
	Backend Backend
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
	defaultTimeout    = 10 * time.Second
	tcpPrefix         = "tcp://"
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	remote     bool

	commands = []*ishell.Cmd{
		&OpenCmd,
		&ConnectCmd,
		&DiscoverCmd,
		&CloseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.BoolVar(&remote, "remote", remote, "Connect the board through the MQTT bridge instead of the port.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *config.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     defaultTimeout,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a backend.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Backend == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Do runs a command and returns the reply.
func (s *Shell) Do(msg fx.Message) (fx.Message, error) {
	if s.Backend == nil {
		return nil, fmt.Errorf("not connected")
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	return s.Backend.Do(ctx, msg)
}

// DoCommand runs a command and prints the reply.
func DoCommand(c *ishell.Context, msg fx.Message) (fx.Message, error) {
	s := ShellFrom(c)
	reply, err := s.Do(msg)
	if err != nil {
		c.Err(err)
		return nil, err
	}
	if s.OutputJSON {
		out, err := json.Marshal(reply)
		if err != nil {
			c.Err(err)
			return nil, err
		}
		c.Println(string(out))
		return reply, nil
	}
	c.Println(FormatReply(reply))
	return reply, nil
}

// FormatReply prints a reply into friendly string for display.
func FormatReply(reply fx.Message) string {
	switch m := reply.(type) {
	case *msgs.CommandOK:
		return "OK"
	case *msgs.ExitCode:
		if m.Code == 0 {
			return "OK"
		}
		return fmt.Sprintf("exit code %d", m.Code)
	case *msgs.DigitalValue:
		if m.Value {
			return "1"
		}
		return "0"
	case *msgs.AnalogValue:
		return fmt.Sprintf("%g", m.Value)
	case *msgs.PulseDuration:
		return fmt.Sprintf("%gus", m.Micros)
	case msgs.SerializableMessage:
		return msgs.Name(reply) + " " + m.String()
	}
	return fmt.Sprintf("%v", reply)
}

// Open opens the board through the configured port.
func (s *Shell) Open() error {
	backend, err := OpenLocal(context.Background(), &s.Config.Board)
	if err != nil {
		return err
	}
	s.setBackend(backend)
	return nil
}

// Connect connects the board through the MQTT bridge, or directly to a
// bridge when id is tcp://host:port.
func (s *Shell) Connect(id string) error {
	var backend *RemoteBackend
	var err error
	if strings.HasPrefix(id, tcpPrefix) {
		ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
		backend, err = DialRemote(ctx, strings.TrimPrefix(id, tcpPrefix))
		cancel()
	} else {
		backend, err = ConnectRemote(s.Config.Bridge.MQTTBrokerURL, id)
	}
	if err != nil {
		return err
	}
	s.setBackend(backend)
	return nil
}

func (s *Shell) setBackend(backend Backend) {
	s.Close()
	s.Backend = backend
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", backend.Name()))
}

// Close closes current backend.
func (s *Shell) Close() {
	if s.Backend != nil {
		s.Backend.Close()
		s.Backend = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run connects the configured board and runs the shell.
func (s *Shell) Run(args ...string) {
	var err error
	if remote {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Bridge.ID)
		}
		err = s.Connect(s.Config.Bridge.ID)
	} else if s.Config.Board.Port != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.Config.Board.Port)
		}
		err = s.Open()
	}
	if err != nil {
		log.Fatalln(err)
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// OpenCmd opens a board port.
	OpenCmd = ishell.Cmd{
		Name: "open",
		Help: "[PORT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Config.Board.Port = c.Args[0]
			}
			if err := s.Open(); err != nil {
				c.Err(err)
			}
		},
	}

	// ConnectCmd connects a board through the bridge.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[ID|tcp://HOST:PORT]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			id := s.Config.Bridge.ID
			if len(c.Args) > 0 {
				id = c.Args[0]
			}
			if err := s.Connect(id); err != nil {
				c.Err(err)
			}
		},
	}

	// DiscoverCmd lists boards served by bridges.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			boards, err := Discover(s.Config.Bridge.MQTTBrokerURL)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				out, err := json.Marshal(boards)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(boards) == 0 {
				c.Println("No boards found")
				return
			}
			for _, meta := range boards {
				c.Printf("%s: %s (analog base %d)\n", meta.ID, meta.Port, meta.AnalogBase)
			}
		},
	}

	// CloseCmd closes current board.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"disconnect", "d"},
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(config.MustNewConfig()).Run(flag.Args()...)
}
