// Copyright (c) 2025 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import "strings"

// StatusLevel is a user's position on the moderation ladder.
// Levels are totally ordered: Normal < Reminded < Warned < Banned.
type StatusLevel int

const (
	StatusNormal StatusLevel = iota
	StatusReminded
	StatusWarned
	StatusBanned
)

var statusIdentifiers = [...]string{"normal", "reminded", "warned", "banned"}

var statusLabels = [...]string{"Normal", "Reminded", "Warned", "Banned"}

// AllStatusLevels lists every level in ascending severity
func AllStatusLevels() []StatusLevel {
	return []StatusLevel{StatusNormal, StatusReminded, StatusWarned, StatusBanned}
}

// Valid reports whether l is one of the four known levels
func (l StatusLevel) Valid() bool {
	return l >= StatusNormal && l <= StatusBanned
}

// Next returns the level one step up. Banned is its own successor.
func (l StatusLevel) Next() StatusLevel {
	if !l.Valid() {
		return StatusReminded
	}
	if l == StatusBanned {
		return StatusBanned
	}
	return l + 1
}

// Previous returns the level one step down. Normal is its own predecessor.
func (l StatusLevel) Previous() StatusLevel {
	if !l.Valid() || l == StatusNormal {
		return StatusNormal
	}
	return l - 1
}

// String returns the stable lowercase identifier stored in user records
// and sent to the email backend as the template key.
func (l StatusLevel) String() string {
	if !l.Valid() {
		return statusIdentifiers[StatusNormal]
	}
	return statusIdentifiers[l]
}

// Label returns the human readable name shown to operators and users
func (l StatusLevel) Label() string {
	if !l.Valid() {
		return statusLabels[StatusNormal]
	}
	return statusLabels[l]
}

// ParseStatusLevelStrict maps a stored status string to its level.
// Matching ignores case and surrounding spaces; ok is false for anything unrecognised.
func ParseStatusLevelStrict(raw string) (StatusLevel, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for i, id := range statusIdentifiers {
		if value == id {
			return StatusLevel(i), true
		}
	}
	return StatusNormal, false
}

// ParseStatusLevel is ParseStatusLevelStrict with unknown input mapped to StatusNormal
func ParseStatusLevel(raw string) StatusLevel {
	level, _ := ParseStatusLevelStrict(raw)
	return level
}

// MarshalText encodes the level as its identifier
func (l StatusLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes an identifier; unknown values become StatusNormal
func (l *StatusLevel) UnmarshalText(text []byte) error {
	*l = ParseStatusLevel(string(text))
	return nil
}
