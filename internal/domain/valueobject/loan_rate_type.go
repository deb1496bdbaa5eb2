package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// LoanRateType – how the target loan's rate resets
// ---------------------------------------------------------------------------

// LoanRateType is an immutable value object. The longer a rate is fixed, the
// smaller the share of the regional stress base applied to it.
type LoanRateType struct {
	value string
}

const (
	rateTypeVariable = "VARIABLE"
	rateTypeMixed    = "MIXED"
	rateTypePeriodic = "PERIODIC"
	rateTypeFixed    = "FIXED"
)

var (
	LoanRateTypeVariable = LoanRateType{value: rateTypeVariable}
	LoanRateTypeMixed    = LoanRateType{value: rateTypeMixed}
	LoanRateTypePeriodic = LoanRateType{value: rateTypePeriodic}
	LoanRateTypeFixed    = LoanRateType{value: rateTypeFixed}
)

var stressFactors = map[string]decimal.Decimal{
	rateTypeVariable: decimal.NewFromInt(1),
	rateTypeMixed:    decimal.RequireFromString("0.7"),
	rateTypePeriodic: decimal.RequireFromString("0.4"),
	rateTypeFixed:    decimal.Zero,
}

// NewLoanRateType creates a LoanRateType from its symbolic name.
func NewLoanRateType(s string) (LoanRateType, error) {
	if _, ok := stressFactors[s]; !ok {
		return LoanRateType{}, fmt.Errorf("invalid loan rate type: %q", s)
	}
	return LoanRateType{value: s}, nil
}

// StressFactor returns the fraction of the stress base applied to this rate type:
// VARIABLE 1.0, MIXED 0.7, PERIODIC 0.4, FIXED 0.0.
func (t LoanRateType) StressFactor() decimal.Decimal {
	if f, ok := stressFactors[t.value]; ok {
		return f
	}
	return decimal.Zero
}

func (t LoanRateType) String() string { return t.value }

func (t LoanRateType) IsZero() bool { return t.value == "" }

// MarshalText implements encoding.TextMarshaler.
func (t LoanRateType) MarshalText() ([]byte, error) { return []byte(t.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *LoanRateType) UnmarshalText(b []byte) error {
	v, err := NewLoanRateType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
