package notify

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Bell rings the terminal bell for notices at or above a level, with
// debounce and suspension.
type Bell struct {
	out       io.Writer
	debounce  time.Duration
	minLevel  Level
	lastRing  time.Time
	suspended bool
}

// NewBell creates a Bell writing to stderr.
func NewBell(debounce time.Duration, minLevel Level) *Bell {
	return &Bell{
		out:      os.Stderr,
		debounce: debounce,
		minLevel: minLevel,
	}
}

// Ring attempts to ring the terminal bell for the given notice.
// Returns true if the bell actually rang.
func (b *Bell) Ring(n Notice, now time.Time) bool {
	if b.suspended {
		return false
	}
	if n.Level < b.minLevel {
		return false
	}
	if !b.lastRing.IsZero() && now.Sub(b.lastRing) < b.debounce {
		return false
	}

	fmt.Fprint(b.out, "\a")
	b.lastRing = now
	return true
}

// Suspend disables bell ringing (while a pipeline runs).
func (b *Bell) Suspend() {
	b.suspended = true
}

// Resume re-enables bell ringing.
func (b *Bell) Resume() {
	b.suspended = false
}

// IsSuspended returns whether the bell is currently suspended.
func (b *Bell) IsSuspended() bool {
	return b.suspended
}
