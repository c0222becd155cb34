// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// StatusEscalationResult is the outcome of one escalation attempt.
// Values are built by the constructors below and passed by value.
type StatusEscalationResult struct {
	Success        bool        `json:"success"`
	UserID         string      `json:"userId"`
	PreviousStatus StatusLevel `json:"previousStatus"`
	NewStatus      StatusLevel `json:"newStatus"`
	WasEscalated   bool        `json:"wasEscalated"`
	HistoryID      string      `json:"historyId,omitempty"`
	Error          string      `json:"error,omitempty"`

	err error
}

// Err returns the cause of a failed result, or nil
func (r StatusEscalationResult) Err() error {
	return r.err
}

// EscalatedResult reports a persisted one-step transition
func EscalatedResult(userID string, previous, next StatusLevel, historyID string) StatusEscalationResult {
	return StatusEscalationResult{
		Success:        true,
		UserID:         userID,
		PreviousStatus: previous,
		NewStatus:      next,
		WasEscalated:   true,
		HistoryID:      historyID,
	}
}

// CeilingResult reports that the user is already at the top level and nothing changed
func CeilingResult(userID string, level StatusLevel) StatusEscalationResult {
	return StatusEscalationResult{
		Success:        true,
		UserID:         userID,
		PreviousStatus: level,
		NewStatus:      level,
	}
}

// FailedResult reports a failure before the current status was known.
// Both levels carry the StatusNormal sentinel.
func FailedResult(userID string, err error) StatusEscalationResult {
	return failure(userID, StatusNormal, err)
}

// TransitionFailedResult reports a failed write; the stored status is still current
func TransitionFailedResult(userID string, current StatusLevel, err error) StatusEscalationResult {
	return failure(userID, current, err)
}

func failure(userID string, level StatusLevel, err error) StatusEscalationResult {
	r := StatusEscalationResult{
		UserID:         userID,
		PreviousStatus: level,
		NewStatus:      level,
		err:            err,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
