// Package transport opens byte streams to boards.
//
// The port is either a device path (/dev/ttyACM0, COM3) or a URL:
//
//   serial:///dev/ttyACM0   serial port
//   tcp://host:port         raw TCP, e.g. a serial-to-network bridge
//   ws://host/path          binary WebSocket frames
//   sim://uno?base=14       in-process firmware emulator
package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tarm/serial"
	"golang.org/x/net/websocket"

	"github.com/robotalks/arduino.go/pkg/board/sim"
)

// Defaults
const (
	DefaultBaud        = 9600
	DefaultReadTimeout = 5 * time.Second
)

// ErrReadTimeout is returned by Read when nothing arrives within ReadTimeout.
var ErrReadTimeout = errors.New("read timeout")

// Config describes how to reach a board.
type Config struct {
	Port        string        `json:"port" yaml:"port"`
	Baud        int           `json:"baud" yaml:"baud"`
	ReadTimeout time.Duration `json:"readTimeout" yaml:"readTimeout"`
}

// BaudRate returns Baud or DefaultBaud.
func (c *Config) BaudRate() int {
	if c.Baud > 0 {
		return c.Baud
	}
	return DefaultBaud
}

// Timeout returns ReadTimeout or DefaultReadTimeout.
func (c *Config) Timeout() time.Duration {
	if c.ReadTimeout > 0 {
		return c.ReadTimeout
	}
	return DefaultReadTimeout
}

// Endpoint splits Port into scheme and address.
// A port without a scheme is a serial device.
func (c *Config) Endpoint() (scheme, addr string, err error) {
	if c.Port == "" {
		return "", "", errors.New("port not specified")
	}
	n := strings.Index(c.Port, "://")
	if n < 0 {
		return "serial", c.Port, nil
	}
	scheme = strings.ToLower(c.Port[:n])
	switch scheme {
	case "serial":
		addr = c.Port[n+3:]
	case "tcp":
		u, err := url.Parse(c.Port)
		if err != nil {
			return "", "", err
		}
		addr = u.Host
	case "ws", "wss", "sim":
		addr = c.Port
	default:
		return "", "", fmt.Errorf("unsupported port scheme %q", scheme)
	}
	if addr == "" {
		return "", "", fmt.Errorf("invalid port %q", c.Port)
	}
	return scheme, addr, nil
}

// Open opens the byte stream.
func (c *Config) Open() (io.ReadWriteCloser, error) {
	scheme, addr, err := c.Endpoint()
	if err != nil {
		return nil, err
	}
	switch scheme {
	case "serial":
		return openSerial(addr, c.BaudRate(), c.Timeout())
	case "tcp":
		conn, err := net.DialTimeout("tcp", addr, c.Timeout())
		if err != nil {
			return nil, err
		}
		return &deadlineConn{Conn: conn, timeout: c.Timeout()}, nil
	case "ws", "wss":
		return openWebSocket(addr, c.Timeout())
	case "sim":
		return openSim(addr)
	}
	panic("unreachable")
}

type serialPort struct {
	*serial.Port
}

func openSerial(name string, baud int, timeout time.Duration) (io.ReadWriteCloser, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return &serialPort{Port: port}, nil
}

// Read reports ErrReadTimeout instead of an empty read.
func (p *serialPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && (err == nil || err == io.EOF) {
		return 0, ErrReadTimeout
	}
	return n, err
}

// deadlineConn applies the read timeout to every Read.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	n, err := c.Conn.Read(b)
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return n, ErrReadTimeout
	}
	return n, err
}

func openWebSocket(addr string, timeout time.Duration) (io.ReadWriteCloser, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	origin := "http://" + u.Host
	if u.Scheme == "wss" {
		origin = "https://" + u.Host
	}
	config, err := websocket.NewConfig(addr, origin)
	if err != nil {
		return nil, err
	}
	config.Dialer = &net.Dialer{Timeout: timeout}
	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return &deadlineConn{Conn: conn, timeout: timeout}, nil
}

func openSim(addr string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	base := sim.DefaultAnalogBase
	if s := u.Query().Get("base"); s != "" {
		if base, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid analog base %q", s)
		}
	}
	return sim.New(base), nil
}
