package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Storage: StorageConfig{Backend: BackendFS, DataDir: "./data"},
		Log:     LogConfig{Level: "info", Format: "json"},
		SRS: SRSConfig{
			DefaultEaseFactor: 2.5,
			MinEaseFactor:     1.3,
			MaxEaseFactor:     2.5,
			MaxReviewHistory:  100,
		},
		Planner: PlannerConfig{
			SessionLengthMinutes: 45,
			BreakLengthMinutes:   15,
			MaxDailyMinutes:      180,
			HorizonDays:          7,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid fs config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid postgres config",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendPostgres
				c.Database.DSN = "postgres://localhost/study"
			},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "etcd" },
			wantErr: "storage.backend",
		},
		{
			name: "postgres without dsn",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendPostgres
				c.Database.DSN = ""
			},
			wantErr: "database.dsn",
		},
		{
			name:    "fs without data dir",
			mutate:  func(c *Config) { c.Storage.DataDir = "" },
			wantErr: "storage.data_dir",
		},
		{
			name:    "zero min ease",
			mutate:  func(c *Config) { c.SRS.MinEaseFactor = 0 },
			wantErr: "min_ease_factor",
		},
		{
			name:    "default ease out of range",
			mutate:  func(c *Config) { c.SRS.DefaultEaseFactor = 3.5 },
			wantErr: "default_ease_factor",
		},
		{
			name:    "session longer than daily cap",
			mutate:  func(c *Config) { c.Planner.MaxDailyMinutes = 30 },
			wantErr: "max_daily_minutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
