package auth

import (
	"crypto/rand"
	"math/big"
	"time"
)

// TimingConfig controls the padding applied to failed credential checks
type TimingConfig struct {
	BaseDelayMs    int
	RandomDelayMs  int  // upper bound of the random jitter added to the base
	DelayOnSuccess bool
}

// TimingDelay pads failed authentication responses to a floor with jitter
type TimingDelay struct {
	config TimingConfig
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config}
}

// WaitFrom sleeps until at least base plus jitter has elapsed since start.
// Successes return at once unless DelayOnSuccess is set.
func (td *TimingDelay) WaitFrom(start time.Time, success bool) {
	if td.skip(success) {
		return
	}
	if remaining := td.target() - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}
}

func (td *TimingDelay) skip(success bool) bool {
	return td == nil || (success && !td.config.DelayOnSuccess)
}

func (td *TimingDelay) target() time.Duration {
	delay := time.Duration(td.config.BaseDelayMs) * time.Millisecond
	if td.config.RandomDelayMs > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(td.config.RandomDelayMs))); err == nil {
			delay += time.Duration(n.Int64()) * time.Millisecond
		}
	}
	return delay
}
