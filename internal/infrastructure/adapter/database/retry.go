package database

import (
	"context"
	"math/rand"
	"time"

	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// RetryConfig holds configuration for retry operations
type RetryConfig struct {
	MaxAttempts   int
	RetryInterval time.Duration
	MaxInterval   time.Duration
	JitterFactor  float64 // 0.0-1.0
}

// connectRetryConfig derives the startup retry policy from the database config
func connectRetryConfig(c *Config) RetryConfig {
	attempts := c.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	interval := c.RetryDelay
	if interval <= 0 {
		interval = time.Second
	}
	return RetryConfig{
		MaxAttempts:   attempts,
		RetryInterval: interval,
		MaxInterval:   8 * interval,
		JitterFactor:  0.2,
	}
}

// retry runs operation until it succeeds, attempts run out or ctx ends.
// Only startup work goes through here; ledger writes are never retried.
func retry(ctx context.Context, config RetryConfig, logger coreport.Logger, operation func() error) error {
	var err error
	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := calculateBackoffWithJitter(attempt-1, config)
			logger.Warn("Retrying database operation", map[string]any{
				"attempt":     attempt + 1,
				"of":          config.MaxAttempts,
				"retry_after": backoff.String(),
				"error":       err.Error(),
			})

			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		if err = operation(); err == nil {
			return nil
		}
	}

	logger.Error("All retry attempts failed", map[string]any{
		"attempts": config.MaxAttempts,
		"error":    err.Error(),
	})
	return err
}

// calculateBackoffWithJitter computes an exponential backoff capped at MaxInterval
func calculateBackoffWithJitter(attempt int, config RetryConfig) time.Duration {
	backoff := config.RetryInterval * (1 << uint(attempt))
	if backoff > config.MaxInterval || backoff <= 0 {
		backoff = config.MaxInterval
	}

	if config.JitterFactor > 0 {
		backoff += time.Duration(float64(backoff) * config.JitterFactor * rand.Float64())
	}

	return backoff
}
