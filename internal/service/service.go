package service

import (
	"context"
	"time"

	"interval_timer/internal/engine"
	"interval_timer/internal/logger"
	"interval_timer/internal/models"
	"interval_timer/internal/repository"
	"interval_timer/internal/speech"
)

// Timer exposes the transport controls of the interval timer.
type Timer interface {
	Start(ctx context.Context, cfg engine.Config) (engine.Snapshot, error)
	// Restart re-runs the cycle; a nil cfg keeps the last configuration.
	Restart(ctx context.Context, cfg *engine.Config) (engine.Snapshot, error)
	Pause(ctx context.Context) (engine.Snapshot, error)
	Resume(ctx context.Context) (engine.Snapshot, error)
	NewCycle(ctx context.Context) (engine.Snapshot, error)
	Defaults() engine.Config
}

// Monitoring exposes read-only state.
type Monitoring interface {
	GetState(ctx context.Context) (engine.Snapshot, error)
}

// Subscriber delivers state and announcement updates as they happen.
type Subscriber interface {
	Subscribe(buffer int) (<-chan Update, func())
}

// EventLog exposes the append-only timer log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.TimerEvent, error)
}

// Presets exposes the named workout configurations.
type Presets interface {
	All() []models.Preset
	Find(name string) (models.Preset, error)
}

// Driver owns the background ticker. Stop via context cancellation in main().
type Driver interface {
	Run(ctx context.Context, tick time.Duration)
	Restore(ctx context.Context) error
	SetDefaults(cfg engine.Config) error
}

type Service struct {
	Timer
	Monitoring
	Subscriber
	EventLog
	Presets
	Driver
}

// Deps are the non-storage collaborators of the services.
type Deps struct {
	Speaker speech.Speaker
	Presets []models.Preset
	Log     *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	timer := NewTimerService(repos.StateRepo, repos.EventRepo, deps.Speaker, deps.Log)
	return &Service{
		Timer:      timer,
		Monitoring: timer,
		Subscriber: timer,
		EventLog:   NewEventLogService(repos.EventRepo),
		Presets:    NewPresetService(deps.Presets),
		Driver:     timer,
	}
}
