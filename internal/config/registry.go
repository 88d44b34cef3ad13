package config

import (
	"fmt"

	"github.com/neildavis/drivers/irremote/irprotocol"
	"github.com/neildavis/drivers/irremote/remotes"
)

// Registry builds the profile registry described by a validated cfg:
// the selected built-in profiles followed by the configured ones.
func (c *Config) Registry() (*remotes.Registry, error) {
	var profiles []*remotes.Profile
	for _, name := range c.BuiltinProfiles {
		switch name {
		case "none":
		case "all":
			profiles = append(profiles, remotes.Builtin()...)
		default:
			for _, p := range remotes.Builtin() {
				if p.Name() == name {
					profiles = append(profiles, p)
				}
			}
		}
	}
	for _, pc := range c.Profiles {
		p, err := pc.build()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	reg, err := remotes.NewRegistry(profiles...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return reg, nil
}

func (pc ProfileConfig) build() (*remotes.Profile, error) {
	protocol, err := irprotocol.ParseProtocol(pc.Protocol)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", pc.Name, err)
	}
	device, err := remotes.ParseDeviceType(pc.Device)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", pc.Name, err)
	}
	mappings := make([]remotes.Mapping, 0, len(pc.Buttons))
	for name, code := range pc.Buttons {
		b, err := remotes.ParseButton(name)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", pc.Name, err)
		}
		mappings = append(mappings, remotes.Mapping{Code: code, Button: b})
	}
	return remotes.NewProfile(pc.Name, remotes.ProfileConfig{
		Protocol: protocol,
		Address:  pc.Address,
		Device:   device,
	}, mappings)
}
