package models

import "time"

// Timer event types written to the log.
const (
	EventStart       = "START"
	EventRestart     = "RESTART"
	EventPause       = "PAUSE"
	EventResume      = "RESUME"
	EventNewCycle    = "NEW_CYCLE"
	EventPhaseChange = "PHASE_CHANGE"
	EventAnnounce    = "ANNOUNCE"
	EventComplete    = "COMPLETE"
)

// TimerEvent is a single log entry. Events written in the same tick share
// OccurredAt; Seq keeps them in emission order.
type TimerEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Seq         int64     `json:"seq"`
	Type        string    `json:"type"`        // START | PAUSE | ANNOUNCE | PHASE_CHANGE | ...
	Description string    `json:"description"` // human-readable; spoken text for ANNOUNCE
	Metadata    any       `json:"metadata,omitempty"`
}
