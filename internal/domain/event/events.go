package event

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jip-jung/jipjung-backend-sub000/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateUserProfile = "UserProfile"

// AffordabilitySimulated is raised after a detailed simulation commits.
type AffordabilitySimulated struct {
	events.BaseEvent
	SimulationID           string          `json:"simulation_id,omitempty"`
	PolicyVersion          string          `json:"policy_version"`
	Grade                  string          `json:"grade"`
	CurrentDSRPercent      decimal.Decimal `json:"current_dsr_percent"`
	DSRAfterMaxLoanPercent decimal.Decimal `json:"dsr_after_max_loan_percent"`
	MaxLoanPrincipal       int64           `json:"max_loan_principal"`
	PreviousMaxLoan        int64           `json:"previous_max_loan"`
}

func NewAffordabilitySimulated(
	userID uuid.UUID,
	simulationID string,
	policyVersion, grade string,
	currentDSR, dsrAfter decimal.Decimal,
	maxLoan, previousMaxLoan int64,
) AffordabilitySimulated {
	return AffordabilitySimulated{
		BaseEvent:              events.NewBaseEvent("affordability.simulated", userID.String(), aggregateUserProfile),
		SimulationID:           simulationID,
		PolicyVersion:          policyVersion,
		Grade:                  grade,
		CurrentDSRPercent:      currentDSR,
		DSRAfterMaxLoanPercent: dsrAfter,
		MaxLoanPrincipal:       maxLoan,
		PreviousMaxLoan:        previousMaxLoan,
	}
}

// ExperienceAwarded is raised when a simulation shrinks the savings gap
// enough to earn experience points.
type ExperienceAwarded struct {
	events.BaseEvent
	Points     int64 `json:"points"`
	ReducedGap int64 `json:"reduced_gap"`
}

func NewExperienceAwarded(userID uuid.UUID, points, reducedGap int64) ExperienceAwarded {
	return ExperienceAwarded{
		BaseEvent:  events.NewBaseEvent("affordability.experience_awarded", userID.String(), aggregateUserProfile),
		Points:     points,
		ReducedGap: reducedGap,
	}
}
