package handlers

import (
	"errors"
	"io"
	"net/http"

	"interval_timer/internal/engine"

	"github.com/gin-gonic/gin"
)

const (
	statusOK       = "ok"
	statusStarted  = "started"
	statusRestart  = "restarted"
	statusPaused   = "paused"
	statusResumed  = "resumed"
	statusNewCycle = "new_cycle"

	errStartTimer      = "failed to start timer"
	errRestartTimer    = "failed to restart timer"
	errPauseTimer      = "failed to pause timer"
	errResumeTimer     = "failed to resume timer"
	errNewCycle        = "failed to reset timer"
	errGetState        = "failed to load state"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

func respondWithStatusAndState(c *gin.Context, status string, snap engine.Snapshot) {
	c.JSON(http.StatusOK, gin.H{"status": status, "state": snap})
}

// TimerRequest configures a run. Omitted durations come from the preset when
// one is named, otherwise from the configured defaults.
type TimerRequest struct {
	// Name of a preset to start from
	Preset       string `json:"preset,omitempty" example:"tabata"`
	SetupSeconds *int   `json:"setup_seconds,omitempty" example:"5"`
	WorkSeconds  *int   `json:"work_seconds,omitempty" example:"20"`
	RestSeconds  *int   `json:"rest_seconds,omitempty" example:"10"`
	Rounds       *int   `json:"rounds,omitempty" example:"8"`
}

func (r TimerRequest) empty() bool {
	return r.Preset == "" && r.SetupSeconds == nil && r.WorkSeconds == nil && r.RestSeconds == nil && r.Rounds == nil
}

// overlay applies the explicit fields of r on top of base.
func (r TimerRequest) overlay(base engine.Config) engine.Config {
	if r.SetupSeconds != nil {
		base.SetupSeconds = *r.SetupSeconds
	}
	if r.WorkSeconds != nil {
		base.WorkSeconds = *r.WorkSeconds
	}
	if r.RestSeconds != nil {
		base.RestSeconds = *r.RestSeconds
	}
	if r.Rounds != nil {
		base.TotalRounds = *r.Rounds
	}
	return base
}

// bindTimerRequest accepts an empty body as an empty request.
func bindTimerRequest(c *gin.Context) (TimerRequest, bool) {
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return req, false
	}
	return req, true
}

// resolveConfig picks the base config (preset or fallback) and overlays the
// request. It writes the error response itself and reports false on failure.
func (h *Handler) resolveConfig(c *gin.Context, req TimerRequest, fallback engine.Config) (engine.Config, bool) {
	base := fallback
	if req.Preset != "" {
		p, err := h.services.Presets.Find(req.Preset)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return engine.Config{}, false
		}
		base = p.Config()
	}
	return req.overlay(base), true
}

// handleRunError maps engine validation errors to 400 and everything else to 500.
func (h *Handler) handleRunError(c *gin.Context, err error, userMsg, logKey string, cfg engine.Config) {
	if errors.Is(err, engine.ErrInvalidConfig) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, userMsg, logKey, err, "config", cfg)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Start timer
// @Description  Starts a new cycle. Fields omitted from the body come from the named preset or the configured defaults.
// @Tags         timer
// @Accept       json
// @Produce      json
// @Param        body  body      TimerRequest  false  "Run configuration"
// @Success      200   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/timer/start [post]
func (h *Handler) startTimer(c *gin.Context) {
	req, ok := bindTimerRequest(c)
	if !ok {
		return
	}
	cfg, ok := h.resolveConfig(c, req, h.services.Timer.Defaults())
	if !ok {
		return
	}
	snap, err := h.services.Timer.Start(c.Request.Context(), cfg)
	if err != nil {
		h.handleRunError(c, err, errStartTimer, "timer_start_failed", cfg)
		return
	}
	respondWithStatusAndState(c, statusStarted, snap)
}

// @Summary      Restart cycle
// @Description  Restarts from Setup. Without a body the last configuration is reused; given fields override it.
// @Tags         timer
// @Accept       json
// @Produce      json
// @Param        body  body      TimerRequest  false  "Optional new configuration"
// @Success      200   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/timer/restart [post]
func (h *Handler) restartTimer(c *gin.Context) {
	req, ok := bindTimerRequest(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var next *engine.Config
	if !req.empty() {
		current, err := h.services.Monitoring.GetState(ctx)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "timer_get_state_failed", err)
			return
		}
		base := current.Config
		if base.TotalRounds == 0 {
			base = h.services.Timer.Defaults()
		}
		cfg, ok := h.resolveConfig(c, req, base)
		if !ok {
			return
		}
		next = &cfg
	}

	snap, err := h.services.Timer.Restart(ctx, next)
	if err != nil {
		var cfg engine.Config
		if next != nil {
			cfg = *next
		}
		h.handleRunError(c, err, errRestartTimer, "timer_restart_failed", cfg)
		return
	}
	respondWithStatusAndState(c, statusRestart, snap)
}

// @Summary      Pause timer
// @Description  Freezes the countdown. No-op when not running.
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/pause [post]
func (h *Handler) pauseTimer(c *gin.Context) {
	snap, err := h.services.Timer.Pause(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errPauseTimer, "timer_pause_failed", err)
		return
	}
	respondWithStatusAndState(c, statusPaused, snap)
}

// @Summary      Resume timer
// @Description  Continues from the remaining seconds. No-op when running, complete, or at zero.
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/resume [post]
func (h *Handler) resumeTimer(c *gin.Context) {
	snap, err := h.services.Timer.Resume(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errResumeTimer, "timer_resume_failed", err)
		return
	}
	respondWithStatusAndState(c, statusResumed, snap)
}

// @Summary      New cycle
// @Description  Stops the timer and clears the run for new configuration.
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/new-cycle [post]
func (h *Handler) newCycle(c *gin.Context) {
	snap, err := h.services.Timer.NewCycle(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errNewCycle, "timer_new_cycle_failed", err)
		return
	}
	respondWithStatusAndState(c, statusNewCycle, snap)
}

// @Summary      Get timer state
// @Tags         timer
// @Produce      json
// @Success      200  {object}  engine.Snapshot
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/state [get]
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "timer_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
