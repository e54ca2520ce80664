package mqtt

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/arduino.go/pkg/bridge/comm"
)

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// Connector finds and connects boards served by bridges.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// ParseMeta decodes the retained meta published by a running bridge.
// An empty payload is the cleared meta of a bridge which went offline.
func ParseMeta(topic string, payload []byte) (BoardMeta, bool) {
	meta := BoardMeta{ID: strings.TrimSuffix(topic, MetaTopic)}
	if len(payload) == 0 {
		return meta, false
	}
	if err := json.Unmarshal(payload, &meta); err != nil {
		glog.V(1).Infof("bad meta on %s: %v", topic, err)
		return meta, false
	}
	return meta, true
}

// Discover lists the bridges currently online through their retained meta.
// It never opens ports or contacts boards, only boards already opened by a bridge
// are listed.
func (c *Connector) Discover(ctx context.Context) (res []BoardMeta, err error) {
	q := NewQueue(c.options, c.topicPrefix)
	token := q.Connect()
	if token.Wait(); token.Error() != nil {
		return nil, token.Error()
	}
	defer q.Close()
	resCh := make(chan BoardMeta, 1)
	q.Sub("+"+MetaTopic, Handler(func(topic string, payload []byte) {
		meta, ok := ParseMeta(topic, payload)
		if !ok {
			return
		}
		select {
		case resCh <- meta:
		case <-time.After(time.Second):
		}
	}))

	dur := c.DiscoverTimeout
	if dur <= 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case meta := <-resCh:
			res = append(res, meta)
		case <-timeout:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// Connect connects the board with the ID. Add the returned connection to
// a loop to start receiving replies.
func (c *Connector) Connect(ctx context.Context, id string) (*ControllerConn, error) {
	conn := &ControllerConn{Queue: NewQueue(c.options, c.topicPrefix)}
	conn.Init(NewPacketReadWriter(conn.Queue).ForClient(id))
	token := conn.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return conn, nil
}

// ControllerConn is a client connection to a board over MQTT.
type ControllerConn struct {
	comm.ControllerConn
	Queue *Queue
}
