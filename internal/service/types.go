package service

import (
	"time"

	"interval_timer/internal/engine"
)

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "START", "PAUSE", "ANNOUNCE", "PHASE_CHANGE", ...
}

// Update is published to subscribers after every state change.
type Update struct {
	State  engine.Snapshot `json:"state"`
	Events []engine.Event  `json:"events,omitempty"`
}
