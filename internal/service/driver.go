package service

import (
	"context"
	"time"
)

// Run binds the driver to ctx and ticks at the given interval while a run is
// active. It blocks until ctx is canceled and then stops the driver.
func (s *TimerService) Run(ctx context.Context, tick time.Duration) {
	s.mu.Lock()
	s.baseCtx = ctx
	if tick > 0 {
		s.tick = tick
	}
	// Re-home a driver started before Run was called.
	if s.cancelDriver != nil {
		s.stopDriverLocked()
		s.startDriverLocked()
	}
	every := s.tick
	s.mu.Unlock()

	s.log.Infow("timer_driver_ready", "tick", every)
	<-ctx.Done()

	s.mu.Lock()
	s.stopDriverLocked()
	s.mu.Unlock()
	s.log.Infow("timer_driver_stopped")
}

// startDriverLocked launches a ticker goroutine for the current generation.
// Callers must stop the previous driver first.
func (s *TimerService) startDriverLocked() {
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancelDriver = cancel
	go s.drive(ctx, s.gen, s.tick)
}

// stopDriverLocked cancels the driver and bumps the generation so that a
// tick already waiting on mu is discarded.
func (s *TimerService) stopDriverLocked() {
	if s.cancelDriver != nil {
		s.cancelDriver()
		s.cancelDriver = nil
	}
	s.gen++
}

func (s *TimerService) drive(ctx context.Context, gen uint64, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !s.step(ctx, gen) {
				return
			}
		}
	}
}

// step applies one tick for driver generation gen. It reports whether the
// driver should keep going.
func (s *TimerService) step(ctx context.Context, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}
	if !s.eng.Tick() {
		s.stopDriverLocked()
		return false
	}
	s.commitLocked(ctx, "", "", nil)

	if !s.eng.State().Running {
		s.log.Infow("timer_cycle_complete", "rounds", s.eng.Config().TotalRounds)
		s.stopDriverLocked()
		return false
	}
	return true
}
