package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"interval_timer/internal/engine"
	"interval_timer/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	timerStateRowID = 1

	insertOrUpdateStateSQL = `
		INSERT INTO timer_state (id, phase, current_round, remaining_s, running, ten_fired, complete_fired,
			setup_s, work_s, rest_s, rounds, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phase=excluded.phase,
			current_round=excluded.current_round,
			remaining_s=excluded.remaining_s,
			running=excluded.running,
			ten_fired=excluded.ten_fired,
			complete_fired=excluded.complete_fired,
			setup_s=excluded.setup_s,
			work_s=excluded.work_s,
			rest_s=excluded.rest_s,
			rounds=excluded.rounds,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, phase, current_round, remaining_s, running, ten_fired, complete_fired,
			setup_s, work_s, rest_s, rounds, updated_at
		FROM timer_state WHERE id=?
	`
)

// Save updates or inserts the timer_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state models.TimerState) error {
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateStateSQL,
		timerStateRowID,
		string(state.Run.Phase),
		state.Run.CurrentRound,
		state.Run.RemainingSeconds,
		state.Run.Running,
		state.Run.TenSecondWarningFired,
		state.Run.CompletionAnnounced,
		state.Config.SetupSeconds,
		state.Config.WorkSeconds,
		state.Config.RestSeconds,
		state.Config.TotalRounds,
		tsUTC,
	)
	if err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// Load fetches the single timer_state row. A missing row yields the zero
// value and no error.
func (r *StateSQLite) Load(ctx context.Context) (models.TimerState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, timerStateRowID)

	var (
		s     models.TimerState
		phase string
	)
	if err := row.Scan(
		&s.ID,
		&phase,
		&s.Run.CurrentRound,
		&s.Run.RemainingSeconds,
		&s.Run.Running,
		&s.Run.TenSecondWarningFired,
		&s.Run.CompletionAnnounced,
		&s.Config.SetupSeconds,
		&s.Config.WorkSeconds,
		&s.Config.RestSeconds,
		&s.Config.TotalRounds,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TimerState{}, nil
		}
		return models.TimerState{}, fmt.Errorf("load timer state: %w", err)
	}

	s.Run.Phase = engine.Phase(phase)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
