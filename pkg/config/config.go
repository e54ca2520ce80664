// Package config provides the common options of the board tools.
//
// Values come from, in increasing precedence: built-in defaults,
// environment variables, the YAML file given by -config, and command line
// flags.
package config

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/robotalks/arduino.go/pkg/board"
	"github.com/robotalks/arduino.go/pkg/board/transport"
)

// Defaults
const (
	DefaultMQTTBrokerURL  = "mqtt://localhost:1883/arduino/"
	DefaultSampleInterval = 100 * time.Millisecond
	DefaultAnalogDeadband = 4
)

// Config is the complete configuration.
type Config struct {
	Board  Board  `yaml:"board"`
	Bridge Bridge `yaml:"bridge"`
}

// Board configures the board session.
type Board struct {
	transport.Config `yaml:",inline"`
	SetupDelay       time.Duration `yaml:"setupDelay"`
	// Pins are configured right after the handshake.
	Pins []PinSpec `yaml:"pins"`
}

// PinSpec is one entry of the startup pin table.
type PinSpec struct {
	Kind   string `yaml:"kind"`
	Number int    `yaml:"number"`
	Mode   string `yaml:"mode"`
}

// Bridge configures the MQTT bridge.
type Bridge struct {
	// ID is the board ID in topics, defaults to the machine ID.
	ID string `yaml:"id"`
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL  string        `yaml:"mqtt"`
	SampleInterval time.Duration `yaml:"sampleInterval"`
	AnalogDeadband int           `yaml:"analogDeadband"`
	// Watch lists pins sampled periodically, e.g. d10, a1.
	Watch []string `yaml:"watch"`
	// Listen is an optional TCP address serving clients directly.
	Listen string `yaml:"listen"`
}

var defaultConfig = Config{
	Board: Board{
		Config: transport.Config{
			Baud:        transport.DefaultBaud,
			ReadTimeout: transport.DefaultReadTimeout,
		},
		SetupDelay: board.DefaultSetupDelay,
	},
	Bridge: Bridge{
		MQTTBrokerURL:  DefaultMQTTBrokerURL,
		SampleInterval: DefaultSampleInterval,
		AnalogDeadband: DefaultAnalogDeadband,
	},
}

var configFile string

func init() {
	applyEnv(&defaultConfig, os.Getenv)
	if defaultConfig.Bridge.ID == "" {
		defaultConfig.Bridge.ID = MachineID()
	}
}

func applyEnv(c *Config, getenv func(string) string) {
	if val := getenv("ARDUINO_PORT"); val != "" {
		c.Board.Port = val
	}
	if val := getenv("ARDUINO_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			c.Board.Baud = baud
		}
	}
	if val := getenv("ARDUINO_MQTT_URL"); val != "" {
		c.Bridge.MQTTBrokerURL = val
	}
	if val := getenv("ARDUINO_BOARD_ID"); val != "" {
		c.Bridge.ID = val
	}
}

// flagFields copies the field bound to a flag, so flags given on the
// command line win over the config file.
var flagFields = map[string]func(dst, src *Config){
	"port":            func(dst, src *Config) { dst.Board.Port = src.Board.Port },
	"baud":            func(dst, src *Config) { dst.Board.Baud = src.Board.Baud },
	"read-timeout":    func(dst, src *Config) { dst.Board.ReadTimeout = src.Board.ReadTimeout },
	"setup-delay":     func(dst, src *Config) { dst.Board.SetupDelay = src.Board.SetupDelay },
	"id":              func(dst, src *Config) { dst.Bridge.ID = src.Bridge.ID },
	"mqtt":            func(dst, src *Config) { dst.Bridge.MQTTBrokerURL = src.Bridge.MQTTBrokerURL },
	"sample-interval": func(dst, src *Config) { dst.Bridge.SampleInterval = src.Bridge.SampleInterval },
	"listen":          func(dst, src *Config) { dst.Bridge.Listen = src.Bridge.Listen },
}

// SetupFlags sets command line flags.
func SetupFlags() {
	setupFlagsOn(flag.CommandLine, &defaultConfig, &configFile)
}

func setupFlagsOn(fs *flag.FlagSet, c *Config, file *string) {
	fs.StringVar(file, "config", *file, "YAML config file")
	fs.StringVar(&c.Board.Port, "port", c.Board.Port, "Board port: device path or serial://, tcp://, ws://, sim:// URL")
	fs.IntVar(&c.Board.Baud, "baud", c.Board.Baud, "Serial baud rate")
	fs.DurationVar(&c.Board.ReadTimeout, "read-timeout", c.Board.ReadTimeout, "Response read timeout")
	fs.DurationVar(&c.Board.SetupDelay, "setup-delay", c.Board.SetupDelay, "Delay between opening the port and the handshake")
	fs.StringVar(&c.Bridge.ID, "id", c.Bridge.ID, "Board ID")
	fs.StringVar(&c.Bridge.MQTTBrokerURL, "mqtt", c.Bridge.MQTTBrokerURL, "MQTT broker URL")
	fs.DurationVar(&c.Bridge.SampleInterval, "sample-interval", c.Bridge.SampleInterval, "Watched pin sampling interval")
	fs.StringVar(&c.Bridge.Listen, "listen", c.Bridge.Listen, "TCP address serving clients without MQTT, e.g. :7070")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config from defaults, flags and the config file.
// Call it after flag.Parse.
func NewConfig() (*Config, error) {
	return loadFrom(flag.CommandLine, &defaultConfig, configFile)
}

// MustNewConfig creates Config and fails on error.
func MustNewConfig() *Config {
	conf, err := NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}

func loadFrom(fs *flag.FlagSet, flagged *Config, file string) (*Config, error) {
	conf := *flagged
	if file == "" {
		return &conf, nil
	}
	if err := conf.LoadFile(file); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if copyField := flagFields[f.Name]; copyField != nil {
			copyField(&conf, flagged)
		}
	})
	return &conf, nil
}

// LoadFile merges the YAML file into c.
func (c *Config) LoadFile(file string) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", file, err)
	}
	return nil
}

// Parse converts the entry to a pin and mode.
func (s PinSpec) Parse() (board.Pin, board.PinMode, error) {
	kind, err := board.ParsePinKind(s.Kind)
	if err != nil {
		return board.Pin{}, board.Output, err
	}
	if s.Number < 0 {
		return board.Pin{}, board.Output, fmt.Errorf("invalid pin number %d", s.Number)
	}
	mode, err := board.ParsePinMode(s.Mode)
	if err != nil {
		return board.Pin{}, board.Output, err
	}
	return board.Pin{Kind: kind, Number: s.Number}, mode, nil
}

// Open opens the session and configures the startup pins.
func (b *Board) Open(ctx context.Context) (*board.Session, error) {
	s, err := board.Open(ctx, &b.Config, board.Options{SetupDelay: b.SetupDelay})
	if err != nil {
		return nil, err
	}
	if err := b.ConfigurePins(s); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// MustOpen opens the session and fails on error.
func (b *Board) MustOpen(ctx context.Context) *board.Session {
	s, err := b.Open(ctx)
	if err != nil {
		log.Fatalln(err)
	}
	return s
}

// ConfigurePins applies the startup pin table.
func (b *Board) ConfigurePins(s *board.Session) error {
	for _, spec := range b.Pins {
		pin, mode, err := spec.Parse()
		if err != nil {
			return fmt.Errorf("startup pin %s%d: %w", spec.Kind, spec.Number, err)
		}
		if _, err := s.ConfigurePin(pin.Kind, pin.Number, mode); err != nil {
			return err
		}
	}
	return nil
}

// WatchPins parses Watch.
func (b *Bridge) WatchPins() ([]board.Pin, error) {
	pins := make([]board.Pin, 0, len(b.Watch))
	for _, s := range b.Watch {
		pin, err := board.ParsePin(s)
		if err != nil {
			return nil, err
		}
		pins = append(pins, pin)
	}
	return pins, nil
}
