// Package config reads configs/config.yml, .env files and TIMER_* environment
// variables into a Config, and reloads it when the file changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"interval_timer/internal/engine"
	"interval_timer/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TIMER"

// Storage backends accepted in db.driver.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Port     string        `mapstructure:"port"`
	LogLevel string        `mapstructure:"log_level"`
	DB       DBConfig      `mapstructure:"db"`
	Timer    TimerConfig   `mapstructure:"timer"`
	Speech   SpeechConfig  `mapstructure:"speech"`
	Presets  PresetsConfig `mapstructure:"presets"`
	HTTP     HTTPConfig    `mapstructure:"http"`
}

type DBConfig struct {
	Driver        string `mapstructure:"driver"`
	Path          string `mapstructure:"path"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

// TimerConfig holds the tick interval and the defaults applied to start
// requests that omit durations.
type TimerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	SetupSeconds int           `mapstructure:"setup_seconds"`
	WorkSeconds  int           `mapstructure:"work_seconds"`
	RestSeconds  int           `mapstructure:"rest_seconds"`
	Rounds       int           `mapstructure:"rounds"`
}

// Defaults converts the timer section into an engine configuration.
func (t TimerConfig) Defaults() engine.Config {
	return engine.Config{
		SetupSeconds: t.SetupSeconds,
		WorkSeconds:  t.WorkSeconds,
		RestSeconds:  t.RestSeconds,
		TotalRounds:  t.Rounds,
	}
}

type SpeechConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// Equal reports whether both describe the same speaker.
func (s SpeechConfig) Equal(o SpeechConfig) bool {
	return s.Enabled == o.Enabled && s.Command == o.Command && slices.Equal(s.Args, o.Args)
}

type PresetsConfig struct {
	Path string `mapstructure:"path"`
}

type HTTPConfig struct {
	AllowOrigins      []string      `mapstructure:"allow_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

// New returns a viper instance that looks for config.yml in dirs, with
// defaults and TIMER_* environment overrides (db.path -> TIMER_DB_PATH).
func New(dirs ...string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	def := engine.DefaultConfig()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", logger.InfoLevel)

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("db.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("db.mongo_database", "interval_timer")

	v.SetDefault("timer.tick_interval", time.Second)
	v.SetDefault("timer.setup_seconds", def.SetupSeconds)
	v.SetDefault("timer.work_seconds", def.WorkSeconds)
	v.SetDefault("timer.rest_seconds", def.RestSeconds)
	v.SetDefault("timer.rounds", def.TotalRounds)

	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.command", "espeak")
	v.SetDefault("speech.args", []string{})

	v.SetDefault("presets.path", "configs/presets.yaml")

	v.SetDefault("http.allow_origins", []string{"*"})
	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
}

// LoadDotEnv exports variables from .env files. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the config file, if present, and decodes the result. Running
// without a config file is allowed; defaults and environment still apply.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the rest of the program relies on.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("db.driver must be %q or %q, got %q", DriverSQLite, DriverMongo, c.DB.Driver)
	}
	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("timer.tick_interval must be positive, got %s", c.Timer.TickInterval)
	}
	if err := c.Timer.Defaults().Validate(); err != nil {
		return fmt.Errorf("timer defaults: %w", err)
	}
	if c.Speech.Enabled && strings.TrimSpace(c.Speech.Command) == "" {
		return errors.New("speech.command is required when speech is enabled")
	}
	return nil
}

// Watch calls onChange with the re-read configuration every time the config
// file is written. Invalid edits are logged and ignored.
func Watch(v *viper.Viper, log *logger.Logger, onChange func(Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		reload(v, log, e.Name, onChange)
	})
	v.WatchConfig()
}

func reload(v *viper.Viper, log *logger.Logger, file string, onChange func(Config)) {
	cfg, err := decode(v)
	if err != nil {
		log.Warnw("config_reload_rejected", "file", file, "err", err)
		return
	}
	log.Infow("config_reloaded", "file", file)
	onChange(cfg)
}

// SpeechChanges returns an onChange handler for Watch that calls apply only
// when the speech section differs from the last one seen, starting at current.
func SpeechChanges(current SpeechConfig, apply func(SpeechConfig)) func(Config) {
	last := current
	return func(c Config) {
		if c.Speech.Equal(last) {
			return
		}
		last = c.Speech
		apply(c.Speech)
	}
}
