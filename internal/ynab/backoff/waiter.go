package backoff

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Waiter suspends the caller for d or until ctx is done.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// CountdownWaiter logs the remaining time every Interval while it waits.
type CountdownWaiter struct {
	Log      logrus.FieldLogger
	Interval time.Duration
}

func NewCountdownWaiter(log logrus.FieldLogger) *CountdownWaiter {
	return &CountdownWaiter{Log: log, Interval: 10 * time.Second}
}

func (w *CountdownWaiter) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	interval := w.Interval
	if interval <= 0 || interval > d {
		interval = d
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	deadline := time.Now().Add(d)
	w.Log.WithField("waitSeconds", int(d.Seconds())).Info("Backoff.Wait.Start")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			w.Log.Info("Backoff.Wait.Done")
			return nil
		case <-ticker.C:
			remaining := time.Until(deadline).Round(time.Second)
			if remaining > 0 {
				w.Log.WithField("remainingSeconds", int(remaining.Seconds())).Info("Backoff.Wait.Countdown")
			}
		}
	}
}
