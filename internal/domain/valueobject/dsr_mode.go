package valueobject

import "fmt"

// DSRMode tags how a profile's cached max-loan figure was produced: LITE
// from the quick estimate, PRO from a detailed simulation.
type DSRMode struct {
	value string
}

var (
	DSRModeLite = DSRMode{value: "LITE"}
	DSRModePro  = DSRMode{value: "PRO"}
)

// NewDSRMode creates a DSRMode from its string form.
func NewDSRMode(s string) (DSRMode, error) {
	switch s {
	case "LITE":
		return DSRModeLite, nil
	case "PRO":
		return DSRModePro, nil
	default:
		return DSRMode{}, fmt.Errorf("invalid dsr mode: %q", s)
	}
}

func (m DSRMode) String() string { return m.value }

func (m DSRMode) IsZero() bool { return m.value == "" }

// MarshalText implements encoding.TextMarshaler.
func (m DSRMode) MarshalText() ([]byte, error) { return []byte(m.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DSRMode) UnmarshalText(b []byte) error {
	v, err := NewDSRMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
