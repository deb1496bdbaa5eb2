package valueobject

import "fmt"

// Grade is the risk classification attached to an affordability result.
// It is authoritative: callers must not infer restriction from a zero
// principal alone.
type Grade struct {
	value string
}

var (
	GradeSafe       = Grade{value: "SAFE"}
	GradeWarning    = Grade{value: "WARNING"}
	GradeRestricted = Grade{value: "RESTRICTED"}
)

// GradeFromString reconstructs a Grade from its string representation.
func GradeFromString(s string) (Grade, error) {
	switch s {
	case "SAFE":
		return GradeSafe, nil
	case "WARNING":
		return GradeWarning, nil
	case "RESTRICTED":
		return GradeRestricted, nil
	default:
		return Grade{}, fmt.Errorf("invalid grade: %s", s)
	}
}

// String returns the string representation.
func (g Grade) String() string {
	return g.value
}

// IsZero returns true if the Grade has not been set.
func (g Grade) IsZero() bool {
	return g.value == ""
}

// Equal checks equality with another Grade.
func (g Grade) Equal(other Grade) bool {
	return g.value == other.value
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) { return []byte(g.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(b []byte) error {
	v, err := GradeFromString(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}
