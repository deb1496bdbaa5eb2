package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// Region – collateral location used to pick the stress-rate base
// ---------------------------------------------------------------------------

// Region is an immutable value object classifying where the collateral sits.
type Region struct {
	value string
}

const (
	regionMetro = "METRO"
	regionOther = "OTHER"
)

var (
	RegionMetro = Region{value: regionMetro}
	RegionOther = Region{value: regionOther}
)

// NewRegion creates a Region from its symbolic name.
func NewRegion(s string) (Region, error) {
	switch s {
	case regionMetro:
		return RegionMetro, nil
	case regionOther:
		return RegionOther, nil
	default:
		return Region{}, fmt.Errorf("invalid region: %q", s)
	}
}

// String returns the symbolic name.
func (r Region) String() string { return r.value }

// IsZero returns true if the region has not been initialised.
func (r Region) IsZero() bool { return r.value == "" }

// IsMetro reports whether the region is the capital metropolitan area.
func (r Region) IsMetro() bool { return r.value == regionMetro }

// MarshalText implements encoding.TextMarshaler.
func (r Region) MarshalText() ([]byte, error) { return []byte(r.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Region) UnmarshalText(b []byte) error {
	v, err := NewRegion(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
