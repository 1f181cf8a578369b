package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Start/RestartCycle/Restore when the
// configuration cannot produce a valid run.
var ErrInvalidConfig = errors.New("invalid timer config")

// Phase is the current segment of an interval cycle.
type Phase string

const (
	PhaseSetup    Phase = "SETUP"
	PhaseWork     Phase = "WORK"
	PhaseRest     Phase = "REST"
	PhaseComplete Phase = "COMPLETE"
)

// Announcement texts handed to the speech collaborator.
const (
	AnnounceGetReady        = "Get Ready"
	AnnounceTime            = "Time"
	AnnounceTenSeconds      = "10 Seconds"
	AnnounceCircuitComplete = "Circuit Complete"

	tenSecondMark = 10
)

// RoundBegin returns the announcement for entering Work of round n.
func RoundBegin(n int) string {
	return fmt.Sprintf("Round %d Begin", n)
}

// Config is fixed for the duration of a run.
type Config struct {
	SetupSeconds int `json:"setup_seconds"`
	WorkSeconds  int `json:"work_seconds"`
	RestSeconds  int `json:"rest_seconds"`
	TotalRounds  int `json:"rounds"`
}

// DefaultConfig is the classic Tabata layout: 5s setup, 8 rounds of 20s
// work and 10s rest.
func DefaultConfig() Config {
	return Config{SetupSeconds: 5, WorkSeconds: 20, RestSeconds: 10, TotalRounds: 8}
}

// Validate rejects negative durations and runs without rounds.
func (c Config) Validate() error {
	switch {
	case c.SetupSeconds < 0:
		return fmt.Errorf("%w: setup_seconds must be >= 0, got %d", ErrInvalidConfig, c.SetupSeconds)
	case c.WorkSeconds < 0:
		return fmt.Errorf("%w: work_seconds must be >= 0, got %d", ErrInvalidConfig, c.WorkSeconds)
	case c.RestSeconds < 0:
		return fmt.Errorf("%w: rest_seconds must be >= 0, got %d", ErrInvalidConfig, c.RestSeconds)
	case c.TotalRounds < 1:
		return fmt.Errorf("%w: rounds must be >= 1, got %d", ErrInvalidConfig, c.TotalRounds)
	}
	return nil
}

// TotalTicks is the number of ticks a full run takes from Start to Complete.
func (c Config) TotalTicks() int {
	return c.SetupSeconds + c.TotalRounds*(c.WorkSeconds+c.RestSeconds)
}

// RunState is the mutable part of a run.
type RunState struct {
	Phase                 Phase `json:"phase"`
	CurrentRound          int   `json:"current_round"`
	RemainingSeconds      int   `json:"remaining_seconds"`
	Running               bool  `json:"running"`
	TenSecondWarningFired bool  `json:"ten_second_warning_fired"`
	CompletionAnnounced   bool  `json:"completion_announced"`
}

// Snapshot is what the UI renders after every mutation.
type Snapshot struct {
	Phase            Phase  `json:"phase"`
	CurrentRound     int    `json:"current_round"`
	TotalRounds      int    `json:"total_rounds"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Running          bool   `json:"running"`
	Display          string `json:"display"` // MM:SS
	Config           Config `json:"config"`
}

// EventKind classifies engine side effects.
type EventKind string

const (
	EventAnnounce    EventKind = "ANNOUNCE"
	EventPhaseChange EventKind = "PHASE_CHANGE"
	EventComplete    EventKind = "COMPLETE"
)

// Event is a side effect queued by the engine. Announce events carry the
// text to speak; the others are informational.
type Event struct {
	Kind  EventKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Phase Phase     `json:"phase"`
	Round int       `json:"round"`
}

// FormatClock renders seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
