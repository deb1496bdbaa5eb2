package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// ErrInvalidPolicy is returned when policy parameters are inconsistent.
var ErrInvalidPolicy = errors.New("invalid policy")

// AgeBand maps a closed age interval to a future-income multiplier.
type AgeBand struct {
	MinAge     int
	MaxAge     int
	Multiplier decimal.Decimal
}

// Contains reports whether age falls inside the closed interval.
func (b AgeBand) Contains(age int) bool {
	return age >= b.MinAge && age <= b.MaxAge
}

// PolicyParams carries the raw values used to build a PolicyTable.
type PolicyParams struct {
	Version              string
	BankDSRLimitRatio    decimal.Decimal
	NonBankDSRLimitRatio decimal.Decimal
	MetroStressBase      decimal.Decimal
	NonMetroStressBase   decimal.Decimal
	AgeBands             []AgeBand
	FutureIncomeEnabled  bool
}

// ---------------------------------------------------------------------------
// PolicyTable – immutable regulatory parameter set
// ---------------------------------------------------------------------------

// PolicyTable is a named, immutable set of regulatory parameters. Values are
// built once and passed explicitly to every calculation.
type PolicyTable struct {
	version              string
	bankDSRLimitRatio    decimal.Decimal
	nonBankDSRLimitRatio decimal.Decimal
	metroStressBase      decimal.Decimal
	nonMetroStressBase   decimal.Decimal
	ageBands             []AgeBand
	futureIncomeEnabled  bool
}

// NewPolicyTable validates params and returns an immutable PolicyTable.
// Age bands must be non-empty intervals, ascending and non-overlapping, with
// multipliers of at least 1.0.
func NewPolicyTable(p PolicyParams) (PolicyTable, error) {
	if p.Version == "" {
		return PolicyTable{}, fmt.Errorf("%w: version is required", ErrInvalidPolicy)
	}
	for name, ratio := range map[string]decimal.Decimal{
		"bank dsr limit":     p.BankDSRLimitRatio,
		"non-bank dsr limit": p.NonBankDSRLimitRatio,
	} {
		if !ratio.IsPositive() || ratio.GreaterThan(decimal.NewFromInt(1)) {
			return PolicyTable{}, fmt.Errorf("%w: %s ratio must be in (0, 1], got %s", ErrInvalidPolicy, name, ratio)
		}
	}
	if p.MetroStressBase.IsNegative() || p.NonMetroStressBase.IsNegative() {
		return PolicyTable{}, fmt.Errorf("%w: stress bases must not be negative", ErrInvalidPolicy)
	}

	bands := make([]AgeBand, len(p.AgeBands))
	copy(bands, p.AgeBands)
	for i, b := range bands {
		if b.MinAge > b.MaxAge {
			return PolicyTable{}, fmt.Errorf("%w: age band %d-%d is empty", ErrInvalidPolicy, b.MinAge, b.MaxAge)
		}
		if b.Multiplier.LessThan(decimal.NewFromInt(1)) {
			return PolicyTable{}, fmt.Errorf("%w: age band %d-%d multiplier %s below 1.0",
				ErrInvalidPolicy, b.MinAge, b.MaxAge, b.Multiplier)
		}
		if i > 0 && b.MinAge <= bands[i-1].MaxAge {
			return PolicyTable{}, fmt.Errorf("%w: age band %d-%d overlaps or precedes %d-%d",
				ErrInvalidPolicy, b.MinAge, b.MaxAge, bands[i-1].MinAge, bands[i-1].MaxAge)
		}
	}

	return PolicyTable{
		version:              p.Version,
		bankDSRLimitRatio:    p.BankDSRLimitRatio,
		nonBankDSRLimitRatio: p.NonBankDSRLimitRatio,
		metroStressBase:      p.MetroStressBase,
		nonMetroStressBase:   p.NonMetroStressBase,
		ageBands:             bands,
		futureIncomeEnabled:  p.FutureIncomeEnabled,
	}, nil
}

// MustPolicyTable is NewPolicyTable that panics on error. Intended for
// package-level policy definitions only.
func MustPolicyTable(p PolicyParams) PolicyTable {
	t, err := NewPolicyTable(p)
	if err != nil {
		panic(err)
	}
	return t
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// DSRLimitRatio returns the fraction of recognized income that all debt
// service may consume for the given lender type.
func (p PolicyTable) DSRLimitRatio(lender valueobject.LenderType) decimal.Decimal {
	if lender == valueobject.LenderTypeNonBank {
		return p.nonBankDSRLimitRatio
	}
	return p.bankDSRLimitRatio
}

// BaseStressRate returns the additive stress rate in percentage points.
func (p PolicyTable) BaseStressRate(region valueobject.Region) decimal.Decimal {
	if region.IsMetro() {
		return p.metroStressBase
	}
	return p.nonMetroStressBase
}

// FutureIncomeMultiplier returns the band multiplier for age, or 1.0 when
// recognition is disabled or no band contains age.
func (p PolicyTable) FutureIncomeMultiplier(age int) decimal.Decimal {
	if !p.futureIncomeEnabled {
		return decimal.NewFromInt(1)
	}
	for _, b := range p.ageBands {
		if b.Contains(age) {
			return b.Multiplier
		}
	}
	return decimal.NewFromInt(1)
}

func (p PolicyTable) Version() string { return p.version }
func (p PolicyTable) FutureIncomeEnabled() bool { return p.futureIncomeEnabled }

// AgeBands returns a copy of the configured bands.
func (p PolicyTable) AgeBands() []AgeBand {
	out := make([]AgeBand, len(p.ageBands))
	copy(out, p.ageBands)
	return out
}

// WithFutureIncome returns a copy of p under a new version name with future
// income recognition toggled.
func (p PolicyTable) WithFutureIncome(version string, enabled bool) PolicyTable {
	next := p
	next.version = version
	next.futureIncomeEnabled = enabled
	next.ageBands = p.AgeBands()
	return next
}

// ---------------------------------------------------------------------------
// Built-in regulatory epochs
// ---------------------------------------------------------------------------

// Stage-3 stress DSR: full stress base on metro collateral, stage-2 level
// elsewhere until the end of 2025.
var Policy2025H2 = MustPolicyTable(PolicyParams{
	Version:              "2025H2",
	BankDSRLimitRatio:    decimal.RequireFromString("0.40"),
	NonBankDSRLimitRatio: decimal.RequireFromString("0.50"),
	MetroStressBase:      decimal.RequireFromString("3.0"),
	NonMetroStressBase:   decimal.RequireFromString("0.75"),
	AgeBands:             defaultAgeBands(),
	FutureIncomeEnabled:  true,
})

// Stage-2 stress DSR.
var Policy2025H1 = MustPolicyTable(PolicyParams{
	Version:              "2025H1",
	BankDSRLimitRatio:    decimal.RequireFromString("0.40"),
	NonBankDSRLimitRatio: decimal.RequireFromString("0.50"),
	MetroStressBase:      decimal.RequireFromString("1.2"),
	NonMetroStressBase:   decimal.RequireFromString("0.75"),
	AgeBands:             defaultAgeBands(),
	FutureIncomeEnabled:  true,
})

func defaultAgeBands() []AgeBand {
	return []AgeBand{
		{MinAge: 20, MaxAge: 24, Multiplier: decimal.RequireFromString("1.516")},
		{MinAge: 25, MaxAge: 29, Multiplier: decimal.RequireFromString("1.313")},
		{MinAge: 30, MaxAge: 34, Multiplier: decimal.RequireFromString("1.146")},
	}
}
