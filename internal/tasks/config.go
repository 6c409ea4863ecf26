package tasks

import (
	"time"

	"github.com/mrlokans/bookshelf/internal/config"
)

// Config sizes the backlite client.
type Config struct {
	Workers         int
	ReleaseAfter    time.Duration // a claimed task is handed out again after this
	CleanupInterval time.Duration // how often finished tasks are purged
}

func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}

// FromConfig applies the non-zero settings from cfg over DefaultConfig.
func FromConfig(cfg config.Tasks) Config {
	c := DefaultConfig()
	if cfg.Workers > 0 {
		c.Workers = cfg.Workers
	}
	if cfg.ReleaseAfter > 0 {
		c.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		c.CleanupInterval = cfg.CleanupInterval
	}
	return c
}
