package clock

import "time"

// Clock provides the current instant. Creation paths take it as a dependency
// so registration timestamps stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System reads the ambient clock, normalized to UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
