// Package retry wraps provider API calls with exponential backoff for
// rate-limit errors.
package retry

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kris-hansen/chainforge/utils/config"
)

// Config holds configuration for retry operations
type Config struct {
	MaxRetries  int           // Maximum number of retry attempts
	InitialWait time.Duration // Initial wait time before first retry
	MaxWait     time.Duration // Maximum wait time between retries
	Factor      float64       // Exponential backoff factor
}

// DefaultConfig provides sensible defaults for registry lookups
var DefaultConfig = Config{
	MaxRetries:  3,
	InitialWait: 1 * time.Second,
	MaxWait:     30 * time.Second,
	Factor:      2.0,
}

// WithRetry executes operation, retrying while shouldRetry accepts the
// returned error. The wait between attempts grows by Factor, capped at
// MaxWait, unless the error message itself names a retry time.
func WithRetry(operation func() (interface{}, error), shouldRetry func(error) bool, cfg Config) (interface{}, error) {
	var result interface{}
	var err error
	wait := cfg.InitialWait

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err = operation()
		if err == nil || !shouldRetry(err) {
			return result, err
		}
		if attempt == cfg.MaxRetries {
			return nil, fmt.Errorf("operation failed after %d retries: %w", cfg.MaxRetries, err)
		}

		retryWait := time.Duration(math.Min(float64(wait), float64(cfg.MaxWait)))
		if hinted := extractRetryTime(err.Error()); hinted > 0 {
			retryWait = hinted
		}

		config.DebugLog("[Retry] retryable error: %v, waiting %v (attempt %d/%d)",
			err, retryWait, attempt+1, cfg.MaxRetries)
		time.Sleep(retryWait)
		wait = time.Duration(float64(wait) * cfg.Factor)
	}

	return nil, fmt.Errorf("unexpected fallthrough in retry loop")
}

// IsRateLimit checks if the error looks like a rate limit response
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota exceeded") ||
		strings.Contains(msg, "too many requests")
}

// extractRetryTime pulls a wait hint like "retry in 18s" out of an error
// message. Returns 0 when no hint is present.
func extractRetryTime(errMsg string) time.Duration {
	patterns := []string{
		"retry in ",
		"retry after ",
		"try again in ",
		"try again after ",
	}
	lower := strings.ToLower(errMsg)
	for _, pattern := range patterns {
		idx := strings.Index(lower, pattern)
		if idx < 0 {
			continue
		}
		timeStr := errMsg[idx+len(pattern):]

		var seconds int
		if _, err := fmt.Sscanf(timeStr, "%ds", &seconds); err == nil {
			return time.Duration(seconds) * time.Second
		}
		if _, err := fmt.Sscanf(timeStr, "%d seconds", &seconds); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}
