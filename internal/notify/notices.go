package notify

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Level grades a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Notice is one user-visible message.
type Notice struct {
	Level     Level
	Text      string
	Timestamp time.Time
}

// FromError turns a pipeline error into a notice. An unsupported desktop is
// a warning; everything else is an error.
func FromError(err error, now time.Time) Notice {
	level := LevelError
	if errors.Is(err, ErrUnsupportedEnvironment) {
		level = LevelWarn
	}
	return Notice{Level: level, Text: err.Error(), Timestamp: now}
}

// Notices keeps a bounded FIFO of notices.
type Notices struct {
	items    []Notice
	maxStore int
}

// NewNotices creates a notice queue with the given buffer size.
func NewNotices(maxStore int) *Notices {
	return &Notices{
		items:    make([]Notice, 0, maxStore),
		maxStore: maxStore,
	}
}

// Push adds a notice, trimming oldest if at capacity.
func (q *Notices) Push(n Notice) {
	q.items = append(q.items, n)
	if len(q.items) > q.maxStore {
		q.items = q.items[len(q.items)-q.maxStore:]
	}
}

// Latest returns the most recent notice.
func (q *Notices) Latest() (Notice, bool) {
	if len(q.items) == 0 {
		return Notice{}, false
	}
	return q.items[len(q.items)-1], true
}

// Visible returns the most recent notices (max 2).
func (q *Notices) Visible() []Notice {
	if len(q.items) <= 2 {
		return q.items
	}
	return q.items[len(q.items)-2:]
}

// Clear drops every notice.
func (q *Notices) Clear() {
	q.items = q.items[:0]
}

// Len returns the total number of buffered notices.
func (q *Notices) Len() int {
	return len(q.items)
}

// Render formats the visible notices for display within the given width.
func (q *Notices) Render(width int, now time.Time) string {
	visible := q.Visible()
	if len(visible) == 0 {
		return ""
	}

	parts := make([]string, 0, len(visible))
	for _, n := range visible {
		parts = append(parts, formatNotice(n, now))
	}
	result := strings.Join(parts, " │ ")

	runes := []rune(result)
	if len(runes) > width {
		if width > 1 {
			result = string(runes[:width-1]) + "…"
		} else if width > 0 {
			result = string(runes[:width])
		} else {
			result = ""
		}
	}

	return result
}

func formatNotice(n Notice, now time.Time) string {
	age := now.Sub(n.Timestamp).Truncate(time.Second)
	var ageStr string
	if age < time.Minute {
		ageStr = fmt.Sprintf("%ds ago", int(age.Seconds()))
	} else if age < time.Hour {
		ageStr = fmt.Sprintf("%dm ago", int(age.Minutes()))
	} else {
		ageStr = fmt.Sprintf("%dh ago", int(age.Hours()))
	}

	return fmt.Sprintf("● %s: %s (%s)", n.Level, n.Text, ageStr)
}
