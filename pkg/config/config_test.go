package config

import (
	"context"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/arduino.go/pkg/board"
)

const testConfigYAML = `
board:
  port: /dev/ttyUSB1
  baud: 115200
  readTimeout: 2s
  setupDelay: 500ms
  pins:
    - {kind: d, number: 6, mode: o}
    - {kind: a, number: 1, mode: i}
    - {kind: digital, number: 10, mode: input}
bridge:
  id: bench-1
  mqtt: mqtt://broker:1883/lab/
  sampleInterval: 250ms
  watch: [d10, a1]
  listen: ":7070"
`

func writeConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "config-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	fn := filepath.Join(dir, "board.yaml")
	require.NoError(t, ioutil.WriteFile(fn, []byte(content), 0644))
	return fn
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ARDUINO_PORT":     "tcp://10.0.0.2:2000",
		"ARDUINO_BAUD":     "57600",
		"ARDUINO_MQTT_URL": "mqtt://other:1883/x/",
		"ARDUINO_BOARD_ID": "uno-7",
	}
	conf := Config{}
	applyEnv(&conf, func(key string) string { return env[key] })
	require.Equal(t, "tcp://10.0.0.2:2000", conf.Board.Port)
	require.Equal(t, 57600, conf.Board.Baud)
	require.Equal(t, "mqtt://other:1883/x/", conf.Bridge.MQTTBrokerURL)
	require.Equal(t, "uno-7", conf.Bridge.ID)

	// malformed baud keeps the current value
	conf = Config{}
	conf.Board.Baud = 9600
	applyEnv(&conf, func(key string) string {
		if key == "ARDUINO_BAUD" {
			return "fast"
		}
		return ""
	})
	require.Equal(t, 9600, conf.Board.Baud)
}

func TestLoadFile(t *testing.T) {
	fn := writeConfig(t, testConfigYAML)
	defaults := defaultConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var file string
	setupFlagsOn(fs, &defaults, &file)
	require.NoError(t, fs.Parse([]string{"-config", fn}))

	conf, err := loadFrom(fs, &defaults, file)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB1", conf.Board.Port)
	require.Equal(t, 115200, conf.Board.Baud)
	require.Equal(t, 2*time.Second, conf.Board.ReadTimeout)
	require.Equal(t, 500*time.Millisecond, conf.Board.SetupDelay)
	require.Len(t, conf.Board.Pins, 3)
	require.Equal(t, "bench-1", conf.Bridge.ID)
	require.Equal(t, "mqtt://broker:1883/lab/", conf.Bridge.MQTTBrokerURL)
	require.Equal(t, 250*time.Millisecond, conf.Bridge.SampleInterval)
	require.Equal(t, ":7070", conf.Bridge.Listen)
	// not in file
	require.Equal(t, DefaultAnalogDeadband, conf.Bridge.AnalogDeadband)

	pins, err := conf.Bridge.WatchPins()
	require.NoError(t, err)
	require.Equal(t, []board.Pin{board.D(10), board.A(1)}, pins)
}

func TestFlagsOverrideFile(t *testing.T) {
	fn := writeConfig(t, testConfigYAML)
	defaults := defaultConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var file string
	setupFlagsOn(fs, &defaults, &file)
	require.NoError(t, fs.Parse([]string{"-config", fn, "-port", "sim://uno", "-id", "flagged"}))

	conf, err := loadFrom(fs, &defaults, file)
	require.NoError(t, err)
	require.Equal(t, "sim://uno", conf.Board.Port)
	require.Equal(t, "flagged", conf.Bridge.ID)
	require.Equal(t, 115200, conf.Board.Baud)
}

func TestLoadFileErrors(t *testing.T) {
	conf := defaultConfig
	require.Error(t, conf.LoadFile(filepath.Join(os.TempDir(), "no-such-board.yaml")))
	fn := writeConfig(t, "board:\n  speed: 1\n")
	require.Error(t, conf.LoadFile(fn))
}

func TestPinSpecParse(t *testing.T) {
	pin, mode, err := PinSpec{Kind: "a", Number: 1, Mode: "i"}.Parse()
	require.NoError(t, err)
	require.Equal(t, board.A(1), pin)
	require.Equal(t, board.Input, mode)

	_, _, err = PinSpec{Kind: "x", Number: 1, Mode: "i"}.Parse()
	require.Error(t, err)
	_, _, err = PinSpec{Kind: "d", Number: -2, Mode: "o"}.Parse()
	require.Error(t, err)
	_, _, err = PinSpec{Kind: "d", Number: 2, Mode: "pwm"}.Parse()
	require.Error(t, err)
}

func TestBoardOpenConfiguresPins(t *testing.T) {
	b := Board{
		Pins: []PinSpec{
			{Kind: "d", Number: 6, Mode: "o"},
			{Kind: "a", Number: 1, Mode: "i"},
		},
	}
	b.Port = "sim://uno"
	s, err := b.Open(context.Background())
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, map[int]board.PinMode{6: board.Output, 15: board.Input}, s.Pins())

	b.Pins = append(b.Pins, PinSpec{Kind: "d", Number: 2, Mode: "sideways"})
	_, err = b.Open(context.Background())
	require.Error(t, err)
}
