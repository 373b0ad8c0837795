package config

import "time"

// Config is the root application configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	SRS      SRSConfig      `yaml:"srs"`
	Planner  PlannerConfig  `yaml:"planner"`
}

// StorageConfig selects the document store backend.
type StorageConfig struct {
	Backend string `yaml:"backend"  env:"STORAGE_BACKEND"  env-default:"fs"`
	DataDir string `yaml:"data_dir" env:"STORAGE_DATA_DIR" env-default:"./data"`
}

// DatabaseConfig holds PostgreSQL connection settings. Only used when
// storage.backend is "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SRSConfig holds spaced-repetition parameters.
type SRSConfig struct {
	DefaultEaseFactor float64 `yaml:"default_ease_factor" env:"SRS_DEFAULT_EASE"       env-default:"2.5"`
	MinEaseFactor     float64 `yaml:"min_ease_factor"     env:"SRS_MIN_EASE"           env-default:"1.3"`
	MaxEaseFactor     float64 `yaml:"max_ease_factor"     env:"SRS_MAX_EASE"           env-default:"2.5"`
	MaxReviewHistory  int     `yaml:"max_review_history"  env:"SRS_MAX_REVIEW_HISTORY" env-default:"100"`
}

// PlannerConfig holds default study-scheduling parameters applied when a
// user has no saved preferences.
type PlannerConfig struct {
	SessionLengthMinutes int `yaml:"session_length_minutes" env:"PLANNER_SESSION_LENGTH" env-default:"45"`
	BreakLengthMinutes   int `yaml:"break_length_minutes"   env:"PLANNER_BREAK_LENGTH"   env-default:"15"`
	MaxDailyMinutes      int `yaml:"max_daily_minutes"      env:"PLANNER_MAX_DAILY"      env-default:"180"`
	HorizonDays          int `yaml:"horizon_days"           env:"PLANNER_HORIZON_DAYS"   env-default:"7"`
}

// StorageBackend values accepted by StorageConfig.Backend.
const (
	BackendFS       = "fs"
	BackendPostgres = "postgres"
)
