package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/neildavis/drivers/irremote/irprotocol"
	"github.com/neildavis/drivers/irremote/remotes"
)

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// RECEIVER
	// ------------------------------------------------------------

	if _, err := irprotocol.ParseProtocol(cfg.Receiver.Protocol); err != nil {
		return fmt.Errorf("receiver: %w", err)
	}
	if cfg.Receiver.SampleRate == 0 {
		return fmt.Errorf("receiver: sample_rate must be positive")
	}
	if cfg.Receiver.Tolerance < 0 || cfg.Receiver.Tolerance > 60 {
		return fmt.Errorf("receiver: tolerance %d%% out of range 0-60", cfg.Receiver.Tolerance)
	}
	if cfg.Receiver.RepeatPeriod < 0 {
		return fmt.Errorf("receiver: repeat_period must not be negative")
	}

	// ------------------------------------------------------------
	// SOURCE
	// ------------------------------------------------------------

	switch cfg.Source.Kind {
	case SourceFile:
	case SourceSerial:
		if cfg.Source.Path == "" {
			return fmt.Errorf("source: serial source needs a device path")
		}
		if cfg.Source.BaudRate <= 0 {
			return fmt.Errorf("source: baud_rate must be positive")
		}
	default:
		return fmt.Errorf("source: unknown kind %q", cfg.Source.Kind)
	}

	// ------------------------------------------------------------
	// PROFILES
	// ------------------------------------------------------------

	builtin := make(map[string]bool)
	for _, p := range remotes.Builtin() {
		builtin[p.Name()] = true
	}
	for _, name := range cfg.BuiltinProfiles {
		if name == "all" || name == "none" {
			if len(cfg.BuiltinProfiles) > 1 {
				return fmt.Errorf("builtin_profiles: %q must be used on its own", name)
			}
			continue
		}
		if !builtin[name] {
			return fmt.Errorf("builtin_profiles: unknown profile %q", name)
		}
	}

	names := make(map[string]bool)
	for i, p := range cfg.Profiles {
		if p.Name == "" {
			return fmt.Errorf("profiles[%d]: name is required", i)
		}
		if names[p.Name] {
			return fmt.Errorf("profile %q: defined twice", p.Name)
		}
		names[p.Name] = true
		if _, err := irprotocol.ParseProtocol(p.Protocol); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
		if _, err := remotes.ParseDeviceType(p.Device); err != nil {
			return fmt.Errorf("profile %q: %w", p.Name, err)
		}
		if len(p.Buttons) == 0 {
			return fmt.Errorf("profile %q: no buttons", p.Name)
		}
		for b := range p.Buttons {
			if _, err := remotes.ParseButton(b); err != nil {
				return fmt.Errorf("profile %q: %w", p.Name, err)
			}
		}
	}

	// ------------------------------------------------------------
	// OUTPUTS
	// ------------------------------------------------------------

	if cfg.MQTT.Enabled {
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("mqtt: broker is required when enabled")
		}
		if cfg.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt: qos %d out of range 0-2", cfg.MQTT.QoS)
		}
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}
