package valueobject

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ---------------------------------------------------------------------------
// SecondaryLoan – optional interest-only loan already held by the borrower
// ---------------------------------------------------------------------------

// SecondaryLoan models an existing interest-only obligation (for example a
// lease deposit loan). It is either absent or carries a balance, an annual
// rate in percent, and whether it counts toward DSR.
type SecondaryLoan struct {
	balance  int64
	rate     decimal.Decimal
	present  bool
	included bool
}

// NoSecondaryLoan returns the absent variant.
func NoSecondaryLoan() SecondaryLoan {
	return SecondaryLoan{}
}

// NewSecondaryLoan returns the present variant.
func NewSecondaryLoan(balance int64, ratePercent decimal.Decimal, included bool) (SecondaryLoan, error) {
	if balance < 0 {
		return SecondaryLoan{}, errors.New("secondary loan balance must not be negative")
	}
	if ratePercent.IsNegative() {
		return SecondaryLoan{}, errors.New("secondary loan rate must not be negative")
	}
	return SecondaryLoan{
		balance:  balance,
		rate:     ratePercent,
		present:  true,
		included: included,
	}, nil
}

func (s SecondaryLoan) Present() bool { return s.present }
func (s SecondaryLoan) Balance() int64 { return s.balance }
func (s SecondaryLoan) Rate() decimal.Decimal { return s.rate }
func (s SecondaryLoan) Included() bool { return s.included }

// AnnualInterest is round(balance * rate / 100) when the loan is present,
// included, and both balance and rate are positive. Otherwise 0.
func (s SecondaryLoan) AnnualInterest() int64 {
	if !s.present || !s.included || s.balance <= 0 || !s.rate.IsPositive() {
		return 0
	}
	return decimal.NewFromInt(s.balance).Mul(s.rate).Div(hundred).Round(0).IntPart()
}

type secondaryLoanJSON struct {
	Balance  int64           `json:"balance"`
	Rate     decimal.Decimal `json:"rate"`
	Included bool            `json:"included"`
}

// MarshalJSON encodes the absent variant as null.
func (s SecondaryLoan) MarshalJSON() ([]byte, error) {
	if !s.present {
		return []byte("null"), nil
	}
	return json.Marshal(secondaryLoanJSON{Balance: s.balance, Rate: s.rate, Included: s.included})
}

// UnmarshalJSON decodes null as the absent variant.
func (s *SecondaryLoan) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = NoSecondaryLoan()
		return nil
	}
	var raw secondaryLoanJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := NewSecondaryLoan(raw.Balance, raw.Rate, raw.Included)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
