package config

import (
	"strings"
	"time"
)

const (
	DefaultProtocol   = "rc6"
	DefaultSampleRate = 20_000
	DefaultBaudRate   = 115_200
	DefaultTopic      = "irremote"
	DefaultLogLevel   = "info"
	defaultMQTTWait   = 5 * time.Second
)

// normalize fills in defaults. It runs before validation.
func normalize(cfg *Config) {
	r := &cfg.Receiver
	r.Protocol = strings.ToLower(strings.TrimSpace(r.Protocol))
	if r.Protocol == "" {
		r.Protocol = DefaultProtocol
	}
	if r.SampleRate == 0 {
		r.SampleRate = DefaultSampleRate
	}

	s := &cfg.Source
	s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
	if s.Kind == "" {
		s.Kind = SourceFile
	}
	if s.Kind == SourceSerial && s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}

	if len(cfg.BuiltinProfiles) == 0 {
		cfg.BuiltinProfiles = []string{"all"}
	}
	for i := range cfg.Profiles {
		p := &cfg.Profiles[i]
		p.Protocol = strings.ToLower(strings.TrimSpace(p.Protocol))
	}

	m := &cfg.MQTT
	m.Topic = strings.Trim(m.Topic, "/")
	if m.Topic == "" {
		m.Topic = DefaultTopic
	}
	if m.Timeout == 0 {
		m.Timeout = defaultMQTTWait
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
