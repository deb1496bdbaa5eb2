package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/model"
)

// ErrUnknownPolicyVersion is returned when a caller names a policy version
// that is not registered.
var ErrUnknownPolicyVersion = errors.New("unknown policy version")

// PolicyCatalog is an immutable set of named policy versions with one
// default. Older versions stay resolvable so historical results can be
// replayed under the rules they were produced with.
type PolicyCatalog struct {
	policies       map[string]model.PolicyTable
	defaultVersion string
}

// NewPolicyCatalog registers policies and selects defaultVersion.
func NewPolicyCatalog(defaultVersion string, policies ...model.PolicyTable) (*PolicyCatalog, error) {
	m := make(map[string]model.PolicyTable, len(policies))
	for _, p := range policies {
		if _, dup := m[p.Version()]; dup {
			return nil, fmt.Errorf("duplicate policy version %q", p.Version())
		}
		m[p.Version()] = p
	}
	if _, ok := m[defaultVersion]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownPolicyVersion, defaultVersion)
	}
	return &PolicyCatalog{policies: m, defaultVersion: defaultVersion}, nil
}

// NewBuiltinPolicyCatalog registers the built-in regulatory epochs.
func NewBuiltinPolicyCatalog(defaultVersion string) (*PolicyCatalog, error) {
	return NewPolicyCatalog(defaultVersion, model.Policy2025H2, model.Policy2025H1)
}

// Resolve returns the named policy, or the default when version is empty.
func (c *PolicyCatalog) Resolve(version string) (model.PolicyTable, error) {
	if version == "" {
		version = c.defaultVersion
	}
	p, ok := c.policies[version]
	if !ok {
		return model.PolicyTable{}, fmt.Errorf("%w: %q", ErrUnknownPolicyVersion, version)
	}
	return p, nil
}

// Default returns the default policy.
func (c *PolicyCatalog) Default() model.PolicyTable {
	return c.policies[c.defaultVersion]
}

// Versions lists registered versions in lexical order.
func (c *PolicyCatalog) Versions() []string {
	out := make([]string, 0, len(c.policies))
	for v := range c.policies {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
