package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jip-jung/jipjung-backend-sub000/internal/domain/valueobject"
)

// SimulationRecord is an append-only history entry for one simulation. The
// input and result are stored as encoded snapshots so a dashboard can
// restore them later.
type SimulationRecord struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Mode          valueobject.DSRMode
	InputJSON     []byte
	ResultJSON    []byte
	PolicyVersion string
	MaxLoanAmount int64
	CreatedAt     time.Time
}

// NewSimulationRecord stamps a new record with a fresh id.
func NewSimulationRecord(
	userID uuid.UUID,
	mode valueobject.DSRMode,
	inputJSON, resultJSON []byte,
	policyVersion string,
	maxLoan int64,
	now time.Time,
) SimulationRecord {
	return SimulationRecord{
		ID:            uuid.New(),
		UserID:        userID,
		Mode:          mode,
		InputJSON:     inputJSON,
		ResultJSON:    resultJSON,
		PolicyVersion: policyVersion,
		MaxLoanAmount: maxLoan,
		CreatedAt:     now,
	}
}
