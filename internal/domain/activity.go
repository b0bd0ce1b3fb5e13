package domain

import "time"

// Activity verbs emitted by the posting engine and period registry.
const (
	VerbPosted       = "Posted"
	VerbUnPosted     = "UnPosted"
	VerbOpenedPeriod = "OpenedPeriod"
	VerbClosedPeriod = "ClosedPeriod"
)

// SystemActor is the actor recorded for engine-emitted activities.
const SystemActor = "system"

// Activity is one fire-and-forget audit record: who did what to which
// target (a transaction number, a period code).
type Activity struct {
	ID         string
	Actor      string
	Verb       string
	Target     string
	OccurredAt time.Time
}
