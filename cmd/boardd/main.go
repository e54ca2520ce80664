package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/arduino.go/pkg/bridge"
	"github.com/robotalks/arduino.go/pkg/bridge/comm"
	"github.com/robotalks/arduino.go/pkg/bridge/mqtt"
	"github.com/robotalks/arduino.go/pkg/bridge/stream"
	"github.com/robotalks/arduino.go/pkg/config"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

var description = "Arduino board"

func init() {
	config.SetupFlags()
	flag.StringVar(&description, "description", description, "Board description published in meta.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := config.MustNewConfig()
	watch, err := conf.Bridge.WatchPins()
	if err != nil {
		glog.Exitf("watch pins: %v", err)
	}

	runner := fx.NewRunner().HandleSignals()
	session := conf.Board.MustOpen(runner.Context)
	defer session.Close()
	glog.Infof("board %s opened, analog base %d", conf.Board.Port, session.AnalogBase())

	registrar, err := mqtt.NewRegistrar(conf.Bridge.MQTTBrokerURL, mqtt.BoardMeta{
		ID:          conf.Bridge.ID,
		Port:        conf.Board.Port,
		AnalogBase:  session.AnalogBase(),
		Description: description,
	})
	if err != nil {
		glog.Exitf("registrar: %v", err)
	}
	events := bridge.EventSenders{registrar}
	adders := []fx.LoopAdder{registrar}
	if conf.Bridge.Listen != "" {
		server, err := stream.Listen(conf.Bridge.Listen)
		if err != nil {
			glog.Exitf("listen: %v", err)
		}
		glog.Infof("listening on %s", server.Addr())
		events = append(events, server)
		adders = append(adders, server)
	}

	b, err := bridge.New(session, events, bridge.Options{
		Port:           conf.Board.Port,
		Watch:          watch,
		SampleInterval: conf.Bridge.SampleInterval,
		AnalogDeadband: conf.Bridge.AnalogDeadband,
	})
	if err != nil {
		glog.Exitf("bridge: %v", err)
	}

	loop := fx.NewLoop().Add(adders...).Add(b, &comm.UnsupportedCommands{})
	if conf.Bridge.SampleInterval > 0 && conf.Bridge.SampleInterval < loop.Interval {
		loop.Interval = conf.Bridge.SampleInterval
	}
	glog.Infof("serving board %s on %s", conf.Bridge.ID, conf.Bridge.MQTTBrokerURL)
	if err := runner.Go(loop).Wait(); err != nil && err != context.Canceled {
		glog.Errorf("stopped: %v", err)
	}
}
