package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"interval_timer/internal/models"
	"interval_timer/internal/repository"
)

// ErrInvalidTimeRange is returned when From is after To.
var ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")

// EventLogService reads back what TimerService wrote: starts, transport
// controls, phase changes, announcements and completions.
type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns matching events oldest first. Both bounds are inclusive.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.TimerEvent, error) {
	f, err := f.normalized()
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, f.From, f.To, f.Type)
}

// normalized moves both bounds to UTC, where the stores keep timestamps,
// and upper-cases the type to match the stored constants.
func (f LogFilter) normalized() (LogFilter, error) {
	if !f.From.IsZero() {
		f.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		f.To = f.To.UTC()
	}
	f.Type = strings.ToUpper(strings.TrimSpace(f.Type))

	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return LogFilter{}, fmt.Errorf("%w: %s is after %s", ErrInvalidTimeRange,
			f.From.Format(time.RFC3339), f.To.Format(time.RFC3339))
	}
	return f, nil
}
