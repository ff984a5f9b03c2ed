// Package ledger provides the block-height clock every registry reads its
// notion of "now" from. Heights are monotonically increasing integers that
// stand in for wall-clock time.
package ledger

import (
	"sync"
	"time"
)

// Clock reports the current block height.
type Clock interface {
	BlockHeight() uint64
}

// ManualClock is a Clock whose height is set by the caller.
// The zero value starts at height 0 and is ready to use.
type ManualClock struct {
	mu     sync.RWMutex
	height uint64
}

// NewManualClock returns a ManualClock starting at height.
func NewManualClock(height uint64) *ManualClock {
	return &ManualClock{height: height}
}

// BlockHeight returns the current height.
func (c *ManualClock) BlockHeight() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height
}

// SetBlockHeight moves the clock to height. Moving backwards is allowed so
// tests can replay scenarios.
func (c *ManualClock) SetBlockHeight(height uint64) {
	c.mu.Lock()
	c.height = height
	c.mu.Unlock()
}

// Advance moves the clock forward by n blocks and returns the new height.
func (c *ManualClock) Advance(n uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += n
	return c.height
}

// WallClock derives the height from elapsed wall time since Genesis,
// one block per Interval.
type WallClock struct {
	Genesis  time.Time
	Interval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// BlockHeight returns the number of whole intervals since Genesis, or 0
// before Genesis.
func (c WallClock) BlockHeight() uint64 {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	elapsed := now().Sub(c.Genesis)
	if elapsed <= 0 || c.Interval <= 0 {
		return 0
	}
	return uint64(elapsed / c.Interval)
}
