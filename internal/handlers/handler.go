package handlers

import (
	"net/http"

	"interval_timer/internal/logger"
	"interval_timer/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	origins  []string
}

// Options tune the HTTP surface.
type Options struct {
	// AllowOrigins lists browser origins allowed for CORS and WebSocket
	// upgrades. Empty or "*" allows any origin.
	AllowOrigins []string
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	return &Handler{services: services, log: log, origins: opts.AllowOrigins}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(h.corsConfig()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Push channel for state and announcements, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerTimerRoutes(api)
		api.GET("/logs", h.getLogs)
		api.GET("/presets", h.listPresets)
	}
}

func (h *Handler) registerTimerRoutes(api *gin.RouterGroup) {
	timer := api.Group("/timer")
	{
		// Body example: {"preset":"tabata"} or {"work_seconds":30,"rounds":6}
		timer.POST("/start", h.startTimer)
		timer.POST("/restart", h.restartTimer)
		timer.POST("/pause", h.pauseTimer)
		timer.POST("/resume", h.resumeTimer)
		timer.POST("/new-cycle", h.newCycle)
		timer.GET("/state", h.getState)
	}
}

func (h *Handler) allowAllOrigins() bool {
	if len(h.origins) == 0 {
		return true
	}
	for _, o := range h.origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if h.allowAllOrigins() {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = h.origins
	}
	return cfg
}

// checkOrigin applies the CORS origin list to WebSocket upgrades. Requests
// without an Origin header are not from a browser and are accepted.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowAllOrigins() {
		return true
	}
	for _, o := range h.origins {
		if o == origin {
			return true
		}
	}
	return false
}
