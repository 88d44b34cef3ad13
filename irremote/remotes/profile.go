// Package remotes maps decoded commands to the buttons of specific remote
// controls.
//
// A Profile is built once from a table of command codes and is read-only
// afterwards, so it can be shared with interrupt handlers.
package remotes // import "github.com/neildavis/drivers/irremote/remotes"

import (
	"fmt"
	"sort"
	"strings"

	"github.com/neildavis/drivers/irremote/irprotocol"
)

// DeviceType is the kind of device a remote control operates
type DeviceType uint8

const (
	Generic DeviceType = iota
	TV
	DVDPlayer
	Audio
	SetTopBox
)

var deviceNames = [...]string{
	Generic:   "generic",
	TV:        "tv",
	DVDPlayer: "dvd",
	Audio:     "audio",
	SetTopBox: "stb",
}

func (d DeviceType) String() string {
	if int(d) < len(deviceNames) {
		return deviceNames[d]
	}
	return fmt.Sprintf("device(%d)", uint8(d))
}

// ParseDeviceType returns the DeviceType with the given name.
// An empty name is Generic.
func ParseDeviceType(name string) (DeviceType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Generic, nil
	}
	for d, n := range deviceNames {
		if n == name {
			return DeviceType(d), nil
		}
	}
	return Generic, fmt.Errorf("remotes: unknown device type %q", name)
}

// ProfileConfig identifies the remote control a profile describes
type ProfileConfig struct {
	Protocol irprotocol.ProtocolID
	Address  uint16
	Device   DeviceType
}

// Mapping assigns a button to a command code
type Mapping struct {
	Code   uint8
	Button StandardButton
}

// Profile maps the command codes of one remote control to buttons
type Profile struct {
	name     string
	config   ProfileConfig
	mappings []Mapping // sorted by code
}

// NewProfile builds a profile from a table of mappings.
// Codes and buttons must each be unique within the table.
func NewProfile(name string, config ProfileConfig, mappings []Mapping) (*Profile, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("remotes: profile name is required")
	}
	if config.Protocol == irprotocol.Unknown {
		return nil, fmt.Errorf("remotes: profile %q: protocol is required", name)
	}
	sorted := make([]Mapping, len(mappings))
	copy(sorted, mappings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	seen := make(map[StandardButton]uint8, len(sorted))
	for i, m := range sorted {
		if m.Button == None || m.Button >= numButtons {
			return nil, fmt.Errorf("remotes: profile %q: code %d maps to invalid button %d", name, m.Code, m.Button)
		}
		if i > 0 && sorted[i-1].Code == m.Code {
			return nil, fmt.Errorf("remotes: profile %q: code %d mapped twice", name, m.Code)
		}
		if code, ok := seen[m.Button]; ok {
			return nil, fmt.Errorf("remotes: profile %q: %s mapped to codes %d and %d", name, m.Button, code, m.Code)
		}
		seen[m.Button] = m.Code
	}
	return &Profile{name: name, config: config, mappings: sorted}, nil
}

// MustProfile is like NewProfile but panics on an invalid table.
// It is intended for package level profile definitions.
func MustProfile(name string, config ProfileConfig, mappings []Mapping) *Profile {
	p, err := NewProfile(name, config, mappings)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Profile) Name() string { return p.name }

func (p *Profile) Protocol() irprotocol.ProtocolID { return p.config.Protocol }

func (p *Profile) Address() uint16 { return p.config.Address }

func (p *Profile) Device() DeviceType { return p.config.Device }

// Mappings returns a copy of the profile's table ordered by code
func (p *Profile) Mappings() []Mapping {
	out := make([]Mapping, len(p.mappings))
	copy(out, p.mappings)
	return out
}

// Lookup returns the button for cmd. It reports false when cmd was sent by
// another remote or its code is not part of the table.
func (p *Profile) Lookup(cmd irprotocol.Command) (StandardButton, bool) {
	if cmd.Protocol != p.config.Protocol || cmd.Address != p.config.Address {
		return None, false
	}
	i := sort.Search(len(p.mappings), func(i int) bool { return p.mappings[i].Code >= cmd.Command })
	if i < len(p.mappings) && p.mappings[i].Code == cmd.Command {
		return p.mappings[i].Button, true
	}
	return None, false
}

// Command returns the command that button sends
func (p *Profile) Command(button StandardButton) (irprotocol.Command, bool) {
	for _, m := range p.mappings {
		if m.Button == button {
			return irprotocol.Command{Protocol: p.config.Protocol, Address: p.config.Address, Command: m.Code}, true
		}
	}
	return irprotocol.Command{}, false
}
