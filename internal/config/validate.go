package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFS:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the fs backend")
		}
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q (got %q)", BackendFS, BackendPostgres, c.Storage.Backend)
	}

	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}
	if err := c.Planner.validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	return nil
}

func (s *SRSConfig) validate() error {
	if s.MinEaseFactor <= 0 {
		return fmt.Errorf("min_ease_factor must be > 0 (got %v)", s.MinEaseFactor)
	}
	if s.MaxEaseFactor < s.MinEaseFactor {
		return fmt.Errorf("max_ease_factor must be >= min_ease_factor (got %v < %v)", s.MaxEaseFactor, s.MinEaseFactor)
	}
	if s.DefaultEaseFactor < s.MinEaseFactor || s.DefaultEaseFactor > s.MaxEaseFactor {
		return fmt.Errorf("default_ease_factor %v outside [%v, %v]", s.DefaultEaseFactor, s.MinEaseFactor, s.MaxEaseFactor)
	}
	if s.MaxReviewHistory <= 0 {
		return fmt.Errorf("max_review_history must be > 0 (got %d)", s.MaxReviewHistory)
	}
	return nil
}

func (p *PlannerConfig) validate() error {
	if p.SessionLengthMinutes <= 0 {
		return fmt.Errorf("session_length_minutes must be > 0 (got %d)", p.SessionLengthMinutes)
	}
	if p.BreakLengthMinutes < 0 {
		return fmt.Errorf("break_length_minutes must be >= 0 (got %d)", p.BreakLengthMinutes)
	}
	if p.MaxDailyMinutes < p.SessionLengthMinutes {
		return fmt.Errorf("max_daily_minutes must be >= session_length_minutes (got %d < %d)", p.MaxDailyMinutes, p.SessionLengthMinutes)
	}
	if p.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be > 0 (got %d)", p.HorizonDays)
	}
	return nil
}
