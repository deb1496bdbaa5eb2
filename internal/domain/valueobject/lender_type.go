package valueobject

import "fmt"

// LenderType distinguishes banks from non-bank lenders, which carry
// different DSR ceilings.
type LenderType struct {
	value string
}

const (
	lenderBank    = "BANK"
	lenderNonBank = "NON_BANK"
)

var (
	LenderTypeBank    = LenderType{value: lenderBank}
	LenderTypeNonBank = LenderType{value: lenderNonBank}
)

// NewLenderType creates a LenderType from its symbolic name.
func NewLenderType(s string) (LenderType, error) {
	switch s {
	case lenderBank:
		return LenderTypeBank, nil
	case lenderNonBank:
		return LenderTypeNonBank, nil
	default:
		return LenderType{}, fmt.Errorf("invalid lender type: %q", s)
	}
}

func (l LenderType) String() string { return l.value }

func (l LenderType) IsZero() bool { return l.value == "" }

// MarshalText implements encoding.TextMarshaler.
func (l LenderType) MarshalText() ([]byte, error) { return []byte(l.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LenderType) UnmarshalText(b []byte) error {
	v, err := NewLenderType(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
