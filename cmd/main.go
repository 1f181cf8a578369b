package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "interval_timer/docs"
	"interval_timer/internal/config"
	"interval_timer/internal/handlers"
	"interval_timer/internal/logger"
	"interval_timer/internal/presets"
	"interval_timer/internal/repository"
	"interval_timer/internal/repository/db"
	"interval_timer/internal/server"
	"interval_timer/internal/service"
	"interval_timer/internal/speech"
)

const shutdownTimeout = 10 * time.Second

// @title           Interval Timer API
// @version         1.0
// @description     Tabata-style interval timer: setup, work and rest phases with spoken cues.
// @host            localhost:8080
// @BasePath        /
func main() {
	// .env first so TIMER_* variables reach viper
	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading .env", "err", err)
	}

	v := config.New("configs")
	cfg, err := config.Load(v)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, closeStore, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to open storage", "driver", cfg.DB.Driver, "err", err)
	}
	defer closeStore()

	presetList, err := presets.Load(cfg.Presets.Path)
	if err != nil {
		log.Fatalw("failed to load presets", "path", cfg.Presets.Path, "err", err)
	}

	// speech settings can change while running, see the config watcher below
	speaker := speech.NewSwitch(newSpeaker(cfg.Speech, log))
	defer speaker.Close()

	// wire dependencies
	services := service.NewService(repos, service.Deps{
		Speaker: speaker,
		Presets: presetList,
		Log:     log,
	})
	if err := services.Driver.SetDefaults(cfg.Timer.Defaults()); err != nil {
		log.Fatalw("invalid timer defaults", "err", err)
	}
	if err := services.Driver.Restore(ctx); err != nil {
		log.Warnw("could not restore timer state", "err", err)
	}

	go services.Driver.Run(ctx, cfg.Timer.TickInterval)

	onSpeechChange := config.SpeechChanges(cfg.Speech, func(sc config.SpeechConfig) {
		speaker.Swap(newSpeaker(sc, log))
		log.Infow("speech_reconfigured", "enabled", sc.Enabled, "command", sc.Command)
	})
	config.Watch(v, log, func(next config.Config) {
		logger.SetLevel(next.LogLevel)
		if err := services.Driver.SetDefaults(next.Timer.Defaults()); err != nil {
			log.Warnw("config_defaults_rejected", "err", err)
		}
		onSpeechChange(next)
	})

	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		AllowOrigins: cfg.HTTP.AllowOrigins,
	})

	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	log.Infow("interval timer started", "port", cfg.Port, "storage", cfg.DB.Driver, "presets", len(presetList))

	waitForShutdown(cancel, srv, log)
}

// openStorage connects the configured backend and returns its repositories
// together with a func that releases the connection.
func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repository.Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			dctx, dcancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer dcancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Errorw("failed to disconnect mongo", "err", err)
			}
		}
		return repository.NewMongoRepository(client.Database(cfg.MongoDatabase)), closeFn, nil
	default:
		sqlDB, err := db.InitDB(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := sqlDB.Close(); err != nil {
				log.Errorw("failed to close sqlite", "err", err)
			}
		}
		return repository.NewRepository(sqlDB), closeFn, nil
	}
}

func newSpeaker(cfg config.SpeechConfig, log *logger.Logger) speech.Speaker {
	if !cfg.Enabled {
		return speech.Nop{}
	}
	return speech.NewCommandSpeaker(cfg.Command, cfg.Args, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the ticker before the listener goes away
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
