package breaker

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrOpen is returned without invoking the call while the breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

type state uint8

const (
	closed state = iota
	open
	halfOpen
)

// Breaker is a sliding-window circuit breaker. It trips open once the
// failure share of the last windowSize calls reaches failureRatio,
// rejects calls for cooldown, then probes half-open until
// recoveryStreak consecutive successes close it again.
type Breaker struct {
	mu sync.Mutex

	state          state
	window         []bool
	pos            int
	failureRatio   float64
	cooldown       time.Duration
	openedAt       time.Time
	recoveryStreak int
	streak         int
}

func New(windowSize int, cooldown time.Duration, failureRatio float64, recoveryStreak int) *Breaker {
	return &Breaker{
		state:          closed,
		window:         make([]bool, windowSize),
		failureRatio:   failureRatio,
		cooldown:       cooldown,
		recoveryStreak: recoveryStreak,
	}
}

// Do runs fn unless the breaker is open, and records the outcome.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.state == open {
		if time.Since(b.openedAt) <= b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = halfOpen
		b.streak = 0
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.window[b.pos] = err != nil
	b.pos = (b.pos + 1) % len(b.window)

	if b.state == halfOpen {
		if err != nil {
			b.trip()
			return err
		}
		b.streak++
		if b.streak >= b.recoveryStreak {
			b.reset()
		}
		return err
	}

	failed := 0
	for _, f := range b.window {
		if f {
			failed++
		}
	}
	if float64(failed)/float64(len(b.window)) >= b.failureRatio {
		b.trip()
	}
	return err
}

func (b *Breaker) trip() {
	b.state = open
	b.streak = 0
	b.openedAt = time.Now()
}

func (b *Breaker) reset() {
	for i := range b.window {
		b.window[i] = false
	}
	b.pos = 0
	b.streak = 0
	b.state = closed
}
