package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"interval_timer/internal/engine"
	"interval_timer/internal/models"
	"interval_timer/internal/service"
)

type statusResponse struct {
	Status string          `json:"status"`
	State  engine.Snapshot `json:"state"`
	Error  string          `json:"error"`
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, statusResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp statusResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func newTimerFixture() (*mockTimer, *service.Service) {
	tm := &mockTimer{
		defaults: engine.DefaultConfig(),
		snap:     engine.Snapshot{Phase: engine.PhaseSetup, RemainingSeconds: 5, Running: true, Display: "00:05"},
	}
	s := &service.Service{
		Timer:      tm,
		Monitoring: &mockMonitoring{state: engine.Snapshot{Phase: engine.PhaseWork, Config: shortConfig}},
		Presets: &mockPresets{presets: []models.Preset{
			{Name: "tabata", SetupSeconds: 5, WorkSeconds: 20, RestSeconds: 10, Rounds: 8},
			{Name: "emom", SetupSeconds: 10, WorkSeconds: 60, RestSeconds: 0, Rounds: 10},
		}},
	}
	return tm, s
}

var shortConfig = engine.Config{SetupSeconds: 1, WorkSeconds: 2, RestSeconds: 1, TotalRounds: 2}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w, resp := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || resp.Status != statusOK {
		t.Fatalf("health status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestStartTimer(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantCode int
		wantCfg  engine.Config
	}{
		{name: "empty body uses defaults", body: "", wantCode: http.StatusOK, wantCfg: engine.DefaultConfig()},
		{name: "explicit fields override defaults", body: `{"work_seconds":30,"rounds":3}`, wantCode: http.StatusOK,
			wantCfg: engine.Config{SetupSeconds: 5, WorkSeconds: 30, RestSeconds: 10, TotalRounds: 3}},
		{name: "explicit zero is kept", body: `{"setup_seconds":0}`, wantCode: http.StatusOK,
			wantCfg: engine.Config{SetupSeconds: 0, WorkSeconds: 20, RestSeconds: 10, TotalRounds: 8}},
		{name: "preset with override", body: `{"preset":"EMOM","rounds":5}`, wantCode: http.StatusOK,
			wantCfg: engine.Config{SetupSeconds: 10, WorkSeconds: 60, RestSeconds: 0, TotalRounds: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tm, s := newTimerFixture()
			r := newTestRouter(s)

			w, resp := doJSON(t, r, http.MethodPost, "/api/v1/timer/start", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if tm.startCalls != 1 || tm.lastStart != tc.wantCfg {
				t.Fatalf("Start called %d times with %+v; want %+v", tm.startCalls, tm.lastStart, tc.wantCfg)
			}
			if resp.Status != statusStarted || resp.State.Config != tc.wantCfg || resp.State.Display != "00:05" {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestStartTimer_Errors(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		tm, s := newTimerFixture()
		w, _ := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/start", `{"rounds":`)
		if w.Code != http.StatusBadRequest || tm.startCalls != 0 {
			t.Fatalf("status=%d calls=%d", w.Code, tm.startCalls)
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		tm, s := newTimerFixture()
		w, resp := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/start", `{"preset":"fran"}`)
		if w.Code != http.StatusNotFound || tm.startCalls != 0 || resp.Error == "" {
			t.Fatalf("status=%d calls=%d body=%s", w.Code, tm.startCalls, w.Body.String())
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		tm, s := newTimerFixture()
		tm.startErr = fmt.Errorf("%w: work_seconds must be >= 0, got -1", engine.ErrInvalidConfig)
		w, resp := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/start", `{"work_seconds":-1}`)
		if w.Code != http.StatusBadRequest || resp.Error != tm.startErr.Error() {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("internal error", func(t *testing.T) {
		tm, s := newTimerFixture()
		tm.startErr = errors.New("boom")
		w, resp := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/start", "")
		if w.Code != http.StatusInternalServerError || resp.Error != errStartTimer {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	})
}

func TestRestartTimer(t *testing.T) {
	t.Run("no body reuses last config", func(t *testing.T) {
		tm, s := newTimerFixture()
		w, resp := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/restart", "")
		if w.Code != http.StatusOK || resp.Status != statusRestart {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		if tm.restartCall != 1 || tm.lastRestart != nil {
			t.Fatalf("Restart should get nil config, got %+v", tm.lastRestart)
		}
	})

	t.Run("fields override the current config", func(t *testing.T) {
		tm, s := newTimerFixture()
		w, _ := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/restart", `{"rest_seconds":7}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		want := shortConfig
		want.RestSeconds = 7
		if tm.lastRestart == nil || *tm.lastRestart != want {
			t.Fatalf("Restart config = %+v; want %+v", tm.lastRestart, want)
		}
	})

	t.Run("nothing run yet falls back to defaults", func(t *testing.T) {
		tm, s := newTimerFixture()
		s.Monitoring = &mockMonitoring{state: engine.Snapshot{Phase: engine.PhaseSetup}}
		w, _ := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/restart", `{"rounds":2}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		want := engine.DefaultConfig()
		want.TotalRounds = 2
		if tm.lastRestart == nil || *tm.lastRestart != want {
			t.Fatalf("Restart config = %+v; want %+v", tm.lastRestart, want)
		}
	})

	t.Run("state error", func(t *testing.T) {
		tm, s := newTimerFixture()
		s.Monitoring = &mockMonitoring{err: errors.New("db down")}
		w, _ := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/restart", `{"rounds":2}`)
		if w.Code != http.StatusInternalServerError || tm.restartCall != 0 {
			t.Fatalf("status=%d calls=%d", w.Code, tm.restartCall)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		tm, s := newTimerFixture()
		tm.restartErr = fmt.Errorf("%w: rounds must be >= 1, got 0", engine.ErrInvalidConfig)
		w, _ := doJSON(t, newTestRouter(s), http.MethodPost, "/api/v1/timer/restart", `{"rounds":0}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	})
}

func TestTransportControls(t *testing.T) {
	tm, s := newTimerFixture()
	r := newTestRouter(s)

	cases := []struct {
		path   string
		status string
		calls  func() int
	}{
		{path: "/api/v1/timer/pause", status: statusPaused, calls: func() int { return tm.pauseCalls }},
		{path: "/api/v1/timer/resume", status: statusResumed, calls: func() int { return tm.resumeCalls }},
		{path: "/api/v1/timer/new-cycle", status: statusNewCycle, calls: func() int { return tm.newCycles }},
	}
	for _, tc := range cases {
		w, resp := doJSON(t, r, http.MethodPost, tc.path, "")
		if w.Code != http.StatusOK || resp.Status != tc.status || resp.State.Phase != engine.PhaseSetup {
			t.Fatalf("%s: status=%d body=%s", tc.path, w.Code, w.Body.String())
		}
		if tc.calls() != 1 {
			t.Fatalf("%s: expected one call, got %d", tc.path, tc.calls())
		}
	}

	tm.opErr = errors.New("boom")
	for _, tc := range cases {
		if w, _ := doJSON(t, r, http.MethodPost, tc.path, ""); w.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", tc.path, w.Code)
		}
	}
}

func TestGetState(t *testing.T) {
	_, s := newTimerFixture()
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/timer/state", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.Phase != engine.PhaseWork || snap.Config != shortConfig {
		t.Fatalf("unexpected state: %+v", snap)
	}

	s.Monitoring = &mockMonitoring{err: errors.New("db down")}
	w = httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/timer/state", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestListPresets(t *testing.T) {
	_, s := newTimerFixture()
	w := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out struct {
		Count   int             `json:"count"`
		Presets []models.Preset `json:"presets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || out.Presets[1].Name != "emom" {
		t.Fatalf("unexpected presets: %+v", out)
	}
}

func TestCORS(t *testing.T) {
	_, s := newTimerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timer/state", nil)
	req.Header.Set("Origin", "http://other.test")
	w := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-all: Access-Control-Allow-Origin = %q", got)
	}

	h := NewHandler(s, nil, Options{AllowOrigins: []string{"http://localhost:3000"}})
	r := h.InitRoutes()

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: expected 403, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/timer/state", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("listed origin: status=%d header=%q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
}
