package models

import (
	"time"

	"interval_timer/internal/engine"
)

// TimerState is the persisted form of the engine: the run configuration plus
// the run state, stored as a single row.
type TimerState struct {
	ID        int             `json:"id"`
	Config    engine.Config   `json:"config"`
	Run       engine.RunState `json:"run"`
	UpdatedAt time.Time       `json:"updated_at"`
}
