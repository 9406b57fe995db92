package backoff

import (
	"context"
	"testing"
	"time"

	cbackoff "github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Delay tests --

func TestDelay_ShortSchedule(t *testing.T) {
	assert.Equal(t, 30*time.Second, Short.Delay(1))
	assert.Equal(t, 60*time.Second, Short.Delay(2), "30 x 2^1")
	assert.Equal(t, 120*time.Second, Short.Delay(3))
	assert.Equal(t, 240*time.Second, Short.Delay(4))
}

func TestDelay_LongSchedule(t *testing.T) {
	assert.Equal(t, 180*time.Second, Long.Delay(1))
	assert.Equal(t, 540*time.Second, Long.Delay(2))
	assert.Equal(t, 1620*time.Second, Long.Delay(3))
}

func TestDelay_StrictlyIncreasing(t *testing.T) {
	for _, policy := range []Policy{Short, Long} {
		for attempt := 1; attempt < policy.MaxAttempts+3; attempt++ {
			assert.Greater(t, policy.Delay(attempt+1), policy.Delay(attempt), "%s attempt %d", policy.Name, attempt)
		}
	}
}

func TestDelay_ClampsNonPositiveAttempt(t *testing.T) {
	assert.Equal(t, Short.Base, Short.Delay(0))
	assert.Equal(t, Short.Base, Short.Delay(-4))
}

// -- Validate tests --

func TestValidate_BuiltinPolicies(t *testing.T) {
	assert.NoError(t, Short.Validate())
	assert.NoError(t, Long.Validate())
	assert.LessOrEqual(t, Long.Cumulative(), time.Hour)
	assert.Equal(t, 2340*time.Second, Long.Cumulative())
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]Policy{
		"zero base":       {Name: "a", Base: 0, Factor: 2, MaxAttempts: 3},
		"flat factor":     {Name: "b", Base: time.Second, Factor: 1, MaxAttempts: 3},
		"no attempts":     {Name: "c", Base: time.Second, Factor: 2, MaxAttempts: 0},
		"window exceeded": {Name: "d", Base: 180 * time.Second, Factor: 3, MaxAttempts: 5, Window: time.Hour},
	}
	for name, policy := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, policy.Validate(), ErrInvalidPolicy)
		})
	}
}

// -- NewBackOff tests --

func TestNewBackOff_StopsAtCeiling(t *testing.T) {
	b := Short.NewBackOff()

	var waits []time.Duration
	for {
		next := b.NextBackOff()
		if next == cbackoff.Stop {
			break
		}
		waits = append(waits, next)
	}

	assert.Equal(t, []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second, 240 * time.Second}, waits)
	assert.Len(t, waits, Short.MaxAttempts-1, "one wait between each pair of attempts")

	b.Reset()
	assert.Equal(t, 30*time.Second, b.NextBackOff())
}

func TestNewBackOff_SingleAttempt(t *testing.T) {
	b := Policy{Name: "once", Base: time.Second, Factor: 2, MaxAttempts: 1}.NewBackOff()
	assert.Equal(t, cbackoff.Stop, b.NextBackOff())
}

// -- CountdownWaiter tests --

func TestCountdownWaiter_WaitsAndLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	w := &CountdownWaiter{Log: logger, Interval: 5 * time.Millisecond}

	start := time.Now()
	require.NoError(t, w.Wait(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, "Backoff.Wait.Start", hook.AllEntries()[0].Message)
	assert.Equal(t, "Backoff.Wait.Done", hook.LastEntry().Message)
}

func TestCountdownWaiter_Cancelled(t *testing.T) {
	logger, _ := test.NewNullLogger()
	w := NewCountdownWaiter(logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Wait(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCountdownWaiter_ZeroDuration(t *testing.T) {
	w := NewCountdownWaiter(logrus.New())
	assert.NoError(t, w.Wait(context.Background(), 0))
}
