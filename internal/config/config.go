// Package config loads the YAML configuration of the irdecode tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neildavis/drivers/irremote/irprotocol"
)

type Config struct {
	Receiver        ReceiverConfig  `yaml:"receiver"`
	Source          SourceConfig    `yaml:"source"`
	BuiltinProfiles []string        `yaml:"builtin_profiles"` // profile names, "all" or "none"
	Profiles        []ProfileConfig `yaml:"profiles"`
	MQTT            MQTTConfig      `yaml:"mqtt"`
	Metrics         MetricsConfig   `yaml:"metrics"`
	Log             LogConfig       `yaml:"log"`
}

// ---- RECEIVER ----

type ReceiverConfig struct {
	Protocol     string        `yaml:"protocol"`
	SampleRate   uint32        `yaml:"sample_rate"`   // Hz
	Tolerance    int           `yaml:"tolerance"`     // percent, 0 = protocol default
	ActiveLow    *bool         `yaml:"active_low"`    // default true
	RepeatPeriod time.Duration `yaml:"repeat_period"` // 0 = protocol default
}

// ---- SOURCE ----

const (
	SourceFile   = "file"
	SourceSerial = "serial"
)

type SourceConfig struct {
	Kind     string `yaml:"kind"` // file | serial
	Path     string `yaml:"path"` // capture file or serial device
	BaudRate int    `yaml:"baud_rate"`
}

// ---- PROFILES ----

type ProfileConfig struct {
	Name     string           `yaml:"name"`
	Protocol string           `yaml:"protocol"`
	Address  uint16           `yaml:"address"`
	Device   string           `yaml:"device"`
	Buttons  map[string]uint8 `yaml:"buttons"` // button name -> command code
}

// ---- OUTPUTS ----

type MQTTConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Broker   string        `yaml:"broker"` // e.g. tcp://localhost:1883
	ClientID string        `yaml:"client_id"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Topic    string        `yaml:"topic"` // events go to <topic>/<protocol>
	QoS      byte          `yaml:"qos"`
	Retain   bool          `yaml:"retain"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	normalize(cfg)
	return cfg
}

// Load reads and normalizes the configuration at path.
// Unknown keys are rejected. The result still has to be validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and normalizes a YAML document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	normalize(&cfg)
	return &cfg, nil
}

// ProtocolID returns the configured receiver protocol.
// It must only be called on a validated configuration.
func (c *Config) ProtocolID() irprotocol.ProtocolID {
	id, _ := irprotocol.ParseProtocol(c.Receiver.Protocol)
	return id
}

// DecoderConfig returns the decoder settings of the receiver
func (c *Config) DecoderConfig() irprotocol.Config {
	return irprotocol.Config{
		SampleRate:   c.Receiver.SampleRate,
		Tolerance:    c.Receiver.Tolerance,
		RepeatPeriod: c.Receiver.RepeatPeriod,
	}
}

// IsActiveLow reports whether the receiver output idles high
func (r ReceiverConfig) IsActiveLow() bool {
	return r.ActiveLow == nil || *r.ActiveLow
}
