// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// DefaultRole is applied when a user record carries no role
const DefaultRole = "STUDENT"

// User is the community member record the console moderates.
// Status holds the raw stored value so status writes can compare against it.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"fullName" db:"name"`
	Avatar    string    `json:"avatar,omitempty" db:"avatar"`
	Role      string    `json:"role" db:"role"`
	Status    string    `json:"-" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// StatusLevel parses the stored status
func (u User) StatusLevel() StatusLevel {
	return ParseStatusLevel(u.Status)
}

// UserView is the API representation of a User
type UserView struct {
	User
	Status      StatusLevel `json:"status"`
	StatusLabel string      `json:"statusLabel"`
	Banned      bool        `json:"banned"`
}

// View builds the API representation
func (u User) View() UserView {
	level := u.StatusLevel()
	return UserView{
		User:        u,
		Status:      level,
		StatusLabel: level.Label(),
		Banned:      level == StatusBanned,
	}
}

// UserFilter narrows user listings. Empty fields do not filter.
type UserFilter struct {
	Search string `schema:"search"`
	Status string `schema:"status"`
	Limit  int    `schema:"limit"`
	Offset int    `schema:"offset"`
}

// StatusHistoryEntry records one status change of a user
type StatusHistoryEntry struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	UserID         string      `json:"userId" db:"user_id"`
	PreviousStatus StatusLevel `json:"previousStatus" db:"-"`
	NewStatus      StatusLevel `json:"newStatus" db:"-"`
	PreviousRaw    string      `json:"-" db:"previous_status"`
	NewRaw         string      `json:"-" db:"new_status"`
	ChangedBy      string      `json:"changedBy" db:"changed_by"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
}
