package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/event"
	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
	"github.com/jip-jung/jipjung-backend-sub000/pkg/events"
)

// ---------------------------------------------------------------------------
// UserProfile aggregate
// ---------------------------------------------------------------------------

// UserProfile holds the financial facts the affordability engine reads and
// the cached outcome it writes back. Every mutation returns a new copy.
type UserProfile struct {
	userID                     uuid.UUID
	annualIncome               *int64
	birthYear                  *int
	existingLoanMonthlyPayment int64
	currentAssets              int64
	cachedMaxLoanAmount        int64
	dsrMode                    valueobject.DSRMode
	updatedAt                  time.Time

	domainEvents events.EventCollector
}

// ProfileSnapshot carries every profile field for reconstruction.
type ProfileSnapshot struct {
	UserID                     uuid.UUID
	AnnualIncome               *int64
	BirthYear                  *int
	ExistingLoanMonthlyPayment int64
	CurrentAssets              int64
	CachedMaxLoanAmount        int64
	DSRMode                    valueobject.DSRMode
	UpdatedAt                  time.Time
}

// ReconstructUserProfile rebuilds a profile from persistence without side-effects.
func ReconstructUserProfile(s ProfileSnapshot) UserProfile {
	mode := s.DSRMode
	if mode.IsZero() {
		mode = valueobject.DSRModeLite
	}
	return UserProfile{
		userID:                     s.UserID,
		annualIncome:               s.AnnualIncome,
		birthYear:                  s.BirthYear,
		existingLoanMonthlyPayment: s.ExistingLoanMonthlyPayment,
		currentAssets:              s.CurrentAssets,
		cachedMaxLoanAmount:        s.CachedMaxLoanAmount,
		dsrMode:                    mode,
		updatedAt:                  s.UpdatedAt,
	}
}

// AnnualIncome returns the stored income and whether one is on file.
func (p UserProfile) AnnualIncome() (int64, bool) {
	if p.annualIncome == nil {
		return 0, false
	}
	return *p.annualIncome, true
}

// BirthYear returns the stored birth year and whether one is on file.
func (p UserProfile) BirthYear() (int, bool) {
	if p.birthYear == nil {
		return 0, false
	}
	return *p.birthYear, true
}

// AgeAt returns now's calendar year minus the birth year, if known.
func (p UserProfile) AgeAt(now time.Time) (int, bool) {
	y, ok := p.BirthYear()
	if !ok {
		return 0, false
	}
	return now.Year() - y, true
}

// DetailedSimulation is what a committed detailed simulation writes back to
// the profile.
type DetailedSimulation struct {
	AnnualIncome       int64
	MonthlyDebtPayment int64
	Result             AffordabilityResult
	PolicyVersion      string
	// SimulationID is empty when no history record was written.
	SimulationID string
	ExpGained    int64
	ReducedGap   int64
}

// ApplyDetailedSimulation records the caller-supplied income and monthly
// debt payment, caches the new max-loan figure and switches the profile to
// PRO mode. It raises AffordabilitySimulated, and ExperienceAwarded when
// points were granted.
func (p UserProfile) ApplyDetailedSimulation(sim DetailedSimulation, now time.Time) UserProfile {
	next := p
	income := sim.AnnualIncome
	next.annualIncome = &income
	next.existingLoanMonthlyPayment = sim.MonthlyDebtPayment
	next.cachedMaxLoanAmount = sim.Result.MaxLoanPrincipal
	next.dsrMode = valueobject.DSRModePro
	next.updatedAt = now

	raised := []event.DomainEvent{event.NewAffordabilitySimulated(
		p.userID, sim.SimulationID, sim.PolicyVersion, sim.Result.Grade.String(),
		sim.Result.CurrentDSRPercent, sim.Result.DSRAfterMaxLoanPercent,
		sim.Result.MaxLoanPrincipal, p.cachedMaxLoanAmount,
	)}
	if sim.ExpGained > 0 {
		raised = append(raised, event.NewExperienceAwarded(p.userID, sim.ExpGained, sim.ReducedGap))
	}
	next.domainEvents = p.domainEvents.Record(raised...)
	return next
}

// DomainEvents returns the events raised since the profile was loaded.
func (p UserProfile) DomainEvents() []event.DomainEvent { return p.domainEvents.DomainEvents() }

// Snapshot exports all fields for persistence.
func (p UserProfile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		UserID:                     p.userID,
		AnnualIncome:               p.annualIncome,
		BirthYear:                  p.birthYear,
		ExistingLoanMonthlyPayment: p.existingLoanMonthlyPayment,
		CurrentAssets:              p.currentAssets,
		CachedMaxLoanAmount:        p.cachedMaxLoanAmount,
		DSRMode:                    p.dsrMode,
		UpdatedAt:                  p.updatedAt,
	}
}

func (p UserProfile) UserID() uuid.UUID { return p.userID }
func (p UserProfile) ExistingLoanMonthlyPayment() int64 { return p.existingLoanMonthlyPayment }
func (p UserProfile) CurrentAssets() int64 { return p.currentAssets }
func (p UserProfile) CachedMaxLoanAmount() int64 { return p.cachedMaxLoanAmount }
func (p UserProfile) DSRMode() valueobject.DSRMode { return p.dsrMode }
func (p UserProfile) UpdatedAt() time.Time { return p.updatedAt }
