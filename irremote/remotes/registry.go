package remotes

import (
	"fmt"

	"github.com/neildavis/drivers/irremote/irprotocol"
)

// Registry holds the profiles of several remote controls. Each command is
// matched against the profile registered for its protocol and address.
type Registry struct {
	profiles []*Profile
}

// NewRegistry returns a registry containing profiles
func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{}
	for _, p := range profiles {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a profile. Names must be unique, and no two profiles may
// share a protocol and address.
func (r *Registry) Add(p *Profile) error {
	for _, q := range r.profiles {
		if q.name == p.name {
			return fmt.Errorf("remotes: duplicate profile %q", p.name)
		}
		if q.config.Protocol == p.config.Protocol && q.config.Address == p.config.Address {
			return fmt.Errorf("remotes: profiles %q and %q both use %s address %#04x",
				q.name, p.name, p.config.Protocol, p.config.Address)
		}
	}
	r.profiles = append(r.profiles, p)
	return nil
}

// Lookup finds the profile matching cmd's protocol and address and the
// button within it. The profile is returned even when the code is unmapped.
func (r *Registry) Lookup(cmd irprotocol.Command) (*Profile, StandardButton, bool) {
	for _, p := range r.profiles {
		if p.config.Protocol != cmd.Protocol || p.config.Address != cmd.Address {
			continue
		}
		b, ok := p.Lookup(cmd)
		return p, b, ok
	}
	return nil, None, false
}

// Profile returns the profile registered under name
func (r *Registry) Profile(name string) (*Profile, bool) {
	for _, p := range r.profiles {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// Profiles returns the registered profiles in registration order
func (r *Registry) Profiles() []*Profile {
	return append([]*Profile(nil), r.profiles...)
}
