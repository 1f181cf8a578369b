package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"interval_timer/internal/engine"
	"interval_timer/internal/logger"
	"interval_timer/internal/models"
	"interval_timer/internal/repository"
	"interval_timer/internal/speech"

	"github.com/google/uuid"
)

const defaultTick = time.Second

var (
	_ Timer      = (*TimerService)(nil)
	_ Monitoring = (*TimerService)(nil)
	_ Subscriber = (*TimerService)(nil)
	_ Driver     = (*TimerService)(nil)
)

// TimerService is the single owner of the run state. HTTP handlers and the
// ticker goroutine both go through it; every mutation happens under mu.
type TimerService struct {
	mu sync.Mutex

	eng      *engine.Engine
	lastCfg  engine.Config
	defaults engine.Config
	started  bool

	// driver bookkeeping, see driver.go
	baseCtx      context.Context
	tick         time.Duration
	gen          uint64
	cancelDriver context.CancelFunc

	subs    map[int]chan Update
	nextSub int

	// seq orders events that share a timestamp.
	seq int64

	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	speaker   speech.Speaker
	log       *logger.Logger
	now       func() time.Time
}

func NewTimerService(stateRepo repository.StateRepo, eventRepo repository.EventRepo, speaker speech.Speaker, log *logger.Logger) *TimerService {
	if speaker == nil {
		speaker = speech.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TimerService{
		eng:       engine.New(),
		defaults:  engine.DefaultConfig(),
		baseCtx:   context.Background(),
		tick:      defaultTick,
		subs:      make(map[int]chan Update),
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		speaker:   speaker,
		log:       log,
		now:       time.Now,
	}
}

// Start begins a fresh run with cfg, replacing any run in progress.
func (s *TimerService) Start(ctx context.Context, cfg engine.Config) (engine.Snapshot, error) {
	return s.begin(ctx, cfg, models.EventStart)
}

// Restart re-runs the cycle. A nil cfg reuses the last configuration, or the
// defaults when nothing has run yet.
func (s *TimerService) Restart(ctx context.Context, cfg *engine.Config) (engine.Snapshot, error) {
	var next engine.Config
	if cfg != nil {
		next = *cfg
	} else {
		s.mu.Lock()
		next = s.lastCfg
		if !s.started {
			next = s.defaults
		}
		s.mu.Unlock()
	}
	return s.begin(ctx, next, models.EventRestart)
}

func (s *TimerService) begin(ctx context.Context, cfg engine.Config, op string) (engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.eng.Start(cfg); err != nil {
		return s.eng.Snapshot(), err
	}
	s.lastCfg = cfg
	s.started = true

	// A new run always gets a new driver.
	s.stopDriverLocked()
	if s.eng.State().Running {
		s.startDriverLocked()
	}

	s.log.Infow("timer_started", "op", op, "setup_s", cfg.SetupSeconds, "work_s", cfg.WorkSeconds,
		"rest_s", cfg.RestSeconds, "rounds", cfg.TotalRounds)
	s.commitLocked(ctx, op, fmt.Sprintf("%d rounds of %ds work / %ds rest", cfg.TotalRounds, cfg.WorkSeconds, cfg.RestSeconds), cfg)
	return s.eng.Snapshot(), nil
}

// Pause freezes the countdown. Pausing a stopped timer changes nothing.
func (s *TimerService) Pause(ctx context.Context) (engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eng.Pause() {
		s.stopDriverLocked()
		s.commitLocked(ctx, models.EventPause, "Paused at "+engine.FormatClock(s.eng.State().RemainingSeconds), nil)
	}
	return s.eng.Snapshot(), nil
}

// Resume continues a paused run with a fresh driver.
func (s *TimerService) Resume(ctx context.Context) (engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eng.Resume() {
		s.stopDriverLocked()
		s.startDriverLocked()
		s.commitLocked(ctx, models.EventResume, "Resumed at "+engine.FormatClock(s.eng.State().RemainingSeconds), nil)
	}
	return s.eng.Snapshot(), nil
}

// NewCycle stops everything and returns to configuration entry.
func (s *TimerService) NewCycle(ctx context.Context) (engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopDriverLocked()
	s.eng.NewCycle()
	s.commitLocked(ctx, models.EventNewCycle, "Cleared for a new cycle", nil)
	return s.eng.Snapshot(), nil
}

// GetState returns the current snapshot.
func (s *TimerService) GetState(ctx context.Context) (engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Snapshot(), nil
}

// Defaults returns the configuration used when a request omits fields.
func (s *TimerService) Defaults() engine.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaults
}

// SetDefaults replaces the defaults. Runs in progress are not affected.
func (s *TimerService) SetDefaults(cfg engine.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.defaults = cfg
	s.mu.Unlock()
	return nil
}

// Restore loads the persisted run, if any. It always comes back paused.
func (s *TimerService) Restore(ctx context.Context) error {
	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if st.ID == 0 {
		return nil
	}
	eng, err := engine.Restore(st.Config, st.Run)
	if err != nil {
		s.log.Warnw("timer_restore_skipped", "err", err, "phase", st.Run.Phase)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopDriverLocked()
	s.eng = eng
	s.lastCfg = st.Config
	s.started = true
	s.log.Infow("timer_restored", "phase", st.Run.Phase, "round", st.Run.CurrentRound,
		"remaining_s", st.Run.RemainingSeconds)
	s.publishLocked(Update{State: s.eng.Snapshot()})
	return nil
}

// Subscribe registers a listener. Updates are dropped for listeners whose
// buffer is full. The returned func unsubscribes and closes the channel.
func (s *TimerService) Subscribe(buffer int) (<-chan Update, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Update, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// commitLocked flushes the engine's queued events: announcements go to the
// speaker, everything goes to the log and subscribers, and the run state is
// persisted. Storage failures are logged; the timer keeps going.
func (s *TimerService) commitLocked(ctx context.Context, op, desc string, meta any) {
	now := s.now().UTC()
	events := s.eng.Drain()

	if op != "" {
		s.appendLocked(ctx, models.TimerEvent{OccurredAt: now, Type: op, Description: desc, Metadata: meta})
	}
	for _, ev := range events {
		if ev.Kind == engine.EventAnnounce {
			s.speaker.Speak(ev.Text)
		}
		s.appendLocked(ctx, toTimerEvent(ev, now))
	}

	st := models.TimerState{
		ID:        1,
		Config:    s.eng.Config(),
		Run:       s.eng.State(),
		UpdatedAt: now,
	}
	if err := s.stateRepo.Save(ctx, st); err != nil {
		s.log.Errorw("timer_state_save_failed", "err", err, "phase", st.Run.Phase)
	}

	s.publishLocked(Update{State: s.eng.Snapshot(), Events: events})
}

func (s *TimerService) appendLocked(ctx context.Context, e models.TimerEvent) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	s.seq++
	e.Seq = s.seq
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Errorw("timer_event_append_failed", "err", err, "type", e.Type)
	}
}

func (s *TimerService) publishLocked(u Update) {
	for id, ch := range s.subs {
		select {
		case ch <- u:
		default:
			s.log.Debugw("timer_update_dropped", "subscriber", id)
		}
	}
}

func toTimerEvent(ev engine.Event, at time.Time) models.TimerEvent {
	meta := map[string]any{"phase": string(ev.Phase), "round": ev.Round}
	out := models.TimerEvent{OccurredAt: at, Metadata: meta}
	switch ev.Kind {
	case engine.EventAnnounce:
		out.Type = models.EventAnnounce
		out.Description = ev.Text
	case engine.EventPhaseChange:
		out.Type = models.EventPhaseChange
		out.Description = fmt.Sprintf("Entered %s", ev.Phase)
	case engine.EventComplete:
		out.Type = models.EventComplete
		out.Description = "Cycle complete"
	default:
		out.Type = string(ev.Kind)
	}
	return out
}
