package transport

import (
	"bufio"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestEndpoint(t *testing.T) {
	testCases := []struct {
		port   string
		scheme string
		addr   string
		fails  bool
	}{
		{port: "/dev/ttyACM0", scheme: "serial", addr: "/dev/ttyACM0"},
		{port: "COM3", scheme: "serial", addr: "COM3"},
		{port: "serial:///dev/ttyUSB0", scheme: "serial", addr: "/dev/ttyUSB0"},
		{port: "tcp://10.0.0.5:2000", scheme: "tcp", addr: "10.0.0.5:2000"},
		{port: "ws://bridge.local/board", scheme: "ws", addr: "ws://bridge.local/board"},
		{port: "sim://uno?base=14", scheme: "sim", addr: "sim://uno?base=14"},
		{port: "", fails: true},
		{port: "udp://host:1", fails: true},
		{port: "tcp://", fails: true},
	}
	for _, tc := range testCases {
		c := &Config{Port: tc.port}
		scheme, addr, err := c.Endpoint()
		if tc.fails {
			require.Error(t, err, tc.port)
			continue
		}
		require.NoError(t, err, tc.port)
		require.Equal(t, tc.scheme, scheme)
		require.Equal(t, tc.addr, addr)
	}
}

func TestDefaults(t *testing.T) {
	c := &Config{}
	require.Equal(t, DefaultBaud, c.BaudRate())
	require.Equal(t, DefaultReadTimeout, c.Timeout())
	c = &Config{Baud: 115200, ReadTimeout: time.Second}
	require.Equal(t, 115200, c.BaudRate())
	require.Equal(t, time.Second, c.Timeout())
}

func TestTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var b [1]byte
		if _, err := conn.Read(b[:]); err == nil && b[0] == 1 {
			conn.Write([]byte("14\r\n"))
		}
		// hold the connection open so the client times out.
		time.Sleep(time.Second)
	}()

	c := &Config{Port: "tcp://" + ln.Addr().String(), ReadTimeout: 100 * time.Millisecond}
	rw, err := c.Open()
	require.NoError(t, err)
	defer rw.Close()

	_, err = rw.Write([]byte{1})
	require.NoError(t, err)
	line, err := bufio.NewReader(rw).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "14\r\n", line)

	var b [1]byte
	_, err = rw.Read(b[:])
	require.Equal(t, ErrReadTimeout, err)
}

func TestWebSocket(t *testing.T) {
	srv := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		ws.PayloadType = websocket.BinaryFrame
		var b [16]byte
		n, err := ws.Read(b[:])
		if err != nil || n != 1 || b[0] != 1 {
			return
		}
		ws.Write([]byte("54\r\n"))
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	c := &Config{
		Port:        "ws://" + strings.TrimPrefix(srv.URL, "http://"),
		ReadTimeout: time.Second,
	}
	rw, err := c.Open()
	require.NoError(t, err)
	defer rw.Close()

	_, err = rw.Write([]byte{1})
	require.NoError(t, err)
	line, err := bufio.NewReader(rw).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "54\r\n", line)
}

func TestSim(t *testing.T) {
	rw, err := (&Config{Port: "sim://mega?base=54"}).Open()
	require.NoError(t, err)
	defer rw.Close()
	_, err = rw.Write([]byte{1})
	require.NoError(t, err)
	line, err := bufio.NewReader(rw).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "54\r\n", line)

	_, err = (&Config{Port: "sim://uno?base=x"}).Open()
	require.Error(t, err)
}
