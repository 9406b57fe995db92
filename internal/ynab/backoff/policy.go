// Package backoff holds the retry schedules used against the YNAB API and the
// waiter that sits out a delay with a visible countdown.
package backoff

import (
	"errors"
	"fmt"
	"time"

	cbackoff "github.com/cenkalti/backoff/v4"
)

var ErrInvalidPolicy = errors.New("invalid backoff policy")

// Policy is an exponential schedule: the wait after failed attempt n is
// Base * Factor^(n-1). MaxAttempts counts HTTP attempts, not waits.
type Policy struct {
	Name        string
	Base        time.Duration
	Factor      int
	MaxAttempts int
	// Window bounds the cumulative worst-case wait. Zero means unbounded.
	Window time.Duration
}

var (
	// Short is used while paginating a full refresh.
	Short = Policy{Name: "short", Base: 30 * time.Second, Factor: 2, MaxAttempts: 5}
	// Long is used for the single delta request. YNAB resets its rate limit
	// hourly, so the whole schedule has to fit in one hour.
	Long = Policy{Name: "long", Base: 180 * time.Second, Factor: 3, MaxAttempts: 4, Window: time.Hour}
)

// Delay returns the wait after the given failed attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.Base
	for i := 1; i < attempt; i++ {
		d *= time.Duration(p.Factor)
	}
	return d
}

// Cumulative is the total time spent waiting when every attempt fails.
func (p Policy) Cumulative() time.Duration {
	var total time.Duration
	for attempt := 1; attempt < p.MaxAttempts; attempt++ {
		total += p.Delay(attempt)
	}
	return total
}

func (p Policy) Validate() error {
	switch {
	case p.Base <= 0:
		return fmt.Errorf("%w %q: base must be positive", ErrInvalidPolicy, p.Name)
	case p.Factor < 2:
		return fmt.Errorf("%w %q: factor must be at least 2", ErrInvalidPolicy, p.Name)
	case p.MaxAttempts < 1:
		return fmt.Errorf("%w %q: max attempts must be at least 1", ErrInvalidPolicy, p.Name)
	case p.Window > 0 && p.Cumulative() > p.Window:
		return fmt.Errorf("%w %q: cumulative wait %s exceeds window %s", ErrInvalidPolicy, p.Name, p.Cumulative(), p.Window)
	}
	return nil
}

// NewBackOff returns a fresh iterator over the schedule. It yields
// cbackoff.Stop once MaxAttempts attempts have been spent.
func (p Policy) NewBackOff() cbackoff.BackOff {
	return &schedule{policy: p}
}

type schedule struct {
	policy  Policy
	attempt int
}

func (s *schedule) NextBackOff() time.Duration {
	s.attempt++
	if s.attempt >= s.policy.MaxAttempts {
		return cbackoff.Stop
	}
	return s.policy.Delay(s.attempt)
}

func (s *schedule) Reset() {
	s.attempt = 0
}
