package mqtt

import (
	"context"
	"encoding/json"

	"github.com/robotalks/arduino.go/pkg/bridge/comm"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// BoardMeta is published retained on id/meta while the bridge is online.
type BoardMeta struct {
	ID          string `json:"id"`
	Port        string `json:"port,omitempty"`
	AnalogBase  int    `json:"analogBase"`
	Description string `json:"description,omitempty"`
}

// Registrar serves a board over MQTT.
type Registrar struct {
	Queue *Queue
	Meta  BoardMeta

	metaJSON  []byte
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar. The meta topic is cleared by the
// broker through the last will if the bridge goes away.
func NewRegistrar(brokerURL string, meta BoardMeta) (*Registrar, error) {
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+meta.ID+MetaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("arduino:" + meta.ID)
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Meta:     meta,
		metaJSON: metaJSON,
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForBoard(meta.ID))
	return r, nil
}

// SendEvent publishes an event on id/msg.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	token := r.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	<-ctx.Done()
	r.Queue.PubWith(r.Meta.ID+MetaTopic, nil, 1, true).Wait()
	r.Queue.Close()
	return ctx.Err()
}

func (r *Registrar) onConnected() {
	r.Queue.PubWith(r.Meta.ID+MetaTopic, r.metaJSON, 1, true)
}
