package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"interval_timer/internal/engine"
	"interval_timer/internal/models"
	"interval_timer/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockTimer struct {
	snap     engine.Snapshot
	defaults engine.Config

	startErr   error
	restartErr error
	opErr      error

	lastStart   engine.Config
	lastRestart *engine.Config
	startCalls  int
	restartCall int
	pauseCalls  int
	resumeCalls int
	newCycles   int
}

func (m *mockTimer) Start(ctx context.Context, cfg engine.Config) (engine.Snapshot, error) {
	m.startCalls++
	m.lastStart = cfg
	if m.startErr != nil {
		return engine.Snapshot{}, m.startErr
	}
	m.snap.Config = cfg
	return m.snap, nil
}

func (m *mockTimer) Restart(ctx context.Context, cfg *engine.Config) (engine.Snapshot, error) {
	m.restartCall++
	m.lastRestart = cfg
	return m.snap, m.restartErr
}

func (m *mockTimer) Pause(ctx context.Context) (engine.Snapshot, error) {
	m.pauseCalls++
	return m.snap, m.opErr
}

func (m *mockTimer) Resume(ctx context.Context) (engine.Snapshot, error) {
	m.resumeCalls++
	return m.snap, m.opErr
}

func (m *mockTimer) NewCycle(ctx context.Context) (engine.Snapshot, error) {
	m.newCycles++
	return m.snap, m.opErr
}

func (m *mockTimer) Defaults() engine.Config { return m.defaults }

type mockMonitoring struct {
	state engine.Snapshot
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (engine.Snapshot, error) {
	return m.state, m.err
}

type mockSubscriber struct {
	mu           sync.Mutex
	ch           chan service.Update
	subscribed   chan struct{}
	unsubscribed bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{ch: make(chan service.Update, 8), subscribed: make(chan struct{}, 1)}
}

func (m *mockSubscriber) Subscribe(buffer int) (<-chan service.Update, func()) {
	m.subscribed <- struct{}{}
	return m.ch, func() {
		m.mu.Lock()
		m.unsubscribed = true
		m.mu.Unlock()
	}
}

func (m *mockSubscriber) wasUnsubscribed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribed
}

type mockEventLog struct {
	resp     []models.TimerEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.TimerEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockPresets struct {
	presets []models.Preset
}

func (m *mockPresets) All() []models.Preset { return m.presets }

func (m *mockPresets) Find(name string) (models.Preset, error) {
	for _, p := range m.presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return models.Preset{}, fmt.Errorf("%w: %q", service.ErrPresetNotFound, name)
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Options{})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
