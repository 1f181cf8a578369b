package engine

import "fmt"

// Engine sequences Setup -> (Work -> Rest) x rounds -> Complete.
//
// It is not safe for concurrent use; the owner serialises calls and drives
// Tick once per second while Running.
type Engine struct {
	cfg    Config
	st     RunState
	outbox []Event
}

// New returns an engine in the pre-start state.
func New() *Engine {
	e := &Engine{}
	e.NewCycle()
	return e
}

// Restore rebuilds an engine from persisted state. The run comes back paused
// because no driver is attached yet. States that no sequence of operations
// can produce are rejected with ErrInvalidConfig.
func Restore(cfg Config, st RunState) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkRunState(cfg, st); err != nil {
		return nil, err
	}
	st.Running = false
	return &Engine{cfg: cfg, st: st}, nil
}

func checkRunState(cfg Config, st RunState) error {
	if st.RemainingSeconds < 0 {
		return fmt.Errorf("%w: negative remaining seconds %d", ErrInvalidConfig, st.RemainingSeconds)
	}
	switch st.Phase {
	case PhaseSetup:
		// Round 0 with 0 left is the cleared state after NewCycle.
		if st.CurrentRound != 0 || st.RemainingSeconds > cfg.SetupSeconds {
			return fmt.Errorf("%w: setup at round %d with %ds left", ErrInvalidConfig, st.CurrentRound, st.RemainingSeconds)
		}
	case PhaseWork, PhaseRest:
		limit := cfg.WorkSeconds
		if st.Phase == PhaseRest {
			limit = cfg.RestSeconds
		}
		if st.CurrentRound < 1 || st.CurrentRound > cfg.TotalRounds {
			return fmt.Errorf("%w: %s in round %d of %d", ErrInvalidConfig, st.Phase, st.CurrentRound, cfg.TotalRounds)
		}
		if st.RemainingSeconds == 0 || st.RemainingSeconds > limit {
			return fmt.Errorf("%w: %s with %ds left of %ds", ErrInvalidConfig, st.Phase, st.RemainingSeconds, limit)
		}
	case PhaseComplete:
		if st.RemainingSeconds != 0 || st.CurrentRound != cfg.TotalRounds {
			return fmt.Errorf("%w: complete at round %d with %ds left", ErrInvalidConfig, st.CurrentRound, st.RemainingSeconds)
		}
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrInvalidConfig, st.Phase)
	}
	return nil
}

// Start begins a fresh run. Any previous run is discarded.
func (e *Engine) Start(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	e.st = RunState{
		Phase:            PhaseSetup,
		CurrentRound:     0,
		RemainingSeconds: cfg.SetupSeconds,
		Running:          true,
	}
	e.announce(AnnounceGetReady)
	e.settle()
	return nil
}

// RestartCycle is Start with possibly updated configuration.
func (e *Engine) RestartCycle(cfg Config) error {
	return e.Start(cfg)
}

// NewCycle clears the run and returns to configuration entry.
func (e *Engine) NewCycle() {
	e.st = RunState{Phase: PhaseSetup}
}

// Pause freezes the countdown. Reports whether anything changed.
func (e *Engine) Pause() bool {
	if !e.st.Running || e.st.Phase == PhaseComplete {
		return false
	}
	e.st.Running = false
	return true
}

// Resume continues from the current remaining seconds. Reports whether
// anything changed.
func (e *Engine) Resume() bool {
	if e.st.Running || e.st.RemainingSeconds == 0 || e.st.Phase == PhaseComplete {
		return false
	}
	e.st.Running = true
	return true
}

// Tick advances the run by one second. Reports whether anything changed.
func (e *Engine) Tick() bool {
	if !e.st.Running || e.st.Phase == PhaseComplete {
		return false
	}
	if e.st.RemainingSeconds > 0 {
		e.st.RemainingSeconds--
		e.checkThresholds()
	}
	e.settle()
	return true
}

// Config returns the configuration of the current run.
func (e *Engine) Config() Config { return e.cfg }

// State returns a copy of the run state.
func (e *Engine) State() RunState { return e.st }

// Snapshot returns the UI view of the run.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:            e.st.Phase,
		CurrentRound:     e.st.CurrentRound,
		TotalRounds:      e.cfg.TotalRounds,
		RemainingSeconds: e.st.RemainingSeconds,
		Running:          e.st.Running,
		Display:          FormatClock(e.st.RemainingSeconds),
		Config:           e.cfg,
	}
}

// Drain returns queued events in emission order and clears the queue.
func (e *Engine) Drain() []Event {
	out := e.outbox
	e.outbox = nil
	return out
}

// settle performs transitions until the current phase has time left or the
// run is complete. Zero-length phases are passed through in the same tick.
func (e *Engine) settle() {
	for e.st.Phase != PhaseComplete && e.st.RemainingSeconds == 0 {
		e.advance()
	}
}

func (e *Engine) advance() {
	switch e.st.Phase {
	case PhaseSetup:
		e.enterWork(1)
	case PhaseWork:
		e.announce(AnnounceTime)
		e.st.Phase = PhaseRest
		e.st.RemainingSeconds = e.cfg.RestSeconds
		e.emit(Event{Kind: EventPhaseChange})
		e.checkThresholds()
	case PhaseRest:
		if e.st.CurrentRound < e.cfg.TotalRounds {
			e.enterWork(e.st.CurrentRound + 1)
			return
		}
		e.st.Phase = PhaseComplete
		e.st.Running = false
		e.emit(Event{Kind: EventComplete})
	}
}

func (e *Engine) enterWork(round int) {
	e.st.Phase = PhaseWork
	e.st.CurrentRound = round
	e.st.RemainingSeconds = e.cfg.WorkSeconds
	e.st.TenSecondWarningFired = false
	e.st.CompletionAnnounced = false
	e.announce(RoundBegin(round))
	e.emit(Event{Kind: EventPhaseChange})
	e.checkThresholds()
}

// checkThresholds fires the one-shot announcements guarded by the latches.
func (e *Engine) checkThresholds() {
	if e.st.Phase == PhaseWork && e.st.RemainingSeconds == tenSecondMark && !e.st.TenSecondWarningFired {
		e.st.TenSecondWarningFired = true
		e.announce(AnnounceTenSeconds)
	}
	if e.st.Phase == PhaseRest && e.st.CurrentRound == e.cfg.TotalRounds && !e.st.CompletionAnnounced {
		e.st.CompletionAnnounced = true
		e.announce(AnnounceCircuitComplete)
	}
}

func (e *Engine) announce(text string) {
	e.emit(Event{Kind: EventAnnounce, Text: text})
}

func (e *Engine) emit(ev Event) {
	ev.Phase = e.st.Phase
	ev.Round = e.st.CurrentRound
	e.outbox = append(e.outbox, ev)
}
