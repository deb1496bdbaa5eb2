package model

import "github.com/google/uuid"

// SavingsGoal is the user's active home-savings target. The engine only
// reads it.
type SavingsGoal struct {
	UserID             uuid.UUID
	TargetAmount       int64
	CurrentSavedAmount int64
}
