package domain

import (
	"strconv"
	"time"
)

// Sequence is a named, strictly increasing counter used for human-facing
// transaction and ledger-entry numbers. CurrentNumber never decreases.
type Sequence struct {
	Code          string
	CurrentNumber int64
	Prefix        string
	Suffix        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Format renders the current number as Prefix + CurrentNumber + Suffix.
func (s *Sequence) Format() string {
	return s.Prefix + strconv.FormatInt(s.CurrentNumber, 10) + s.Suffix
}
