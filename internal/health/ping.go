package health

import (
	"context"
	"sync/atomic"
	"time"
)

// HealthPinger is implemented by components that expose a health probe.
// HealthPing returns nil when the component is healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// PingFunc adapts a plain function to HealthPinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) HealthPing(ctx context.Context) error { return f(ctx) }

// PingChecker wraps a HealthPinger into a periodic component checker.
type PingChecker struct {
	name    string
	pinger  HealthPinger
	timeout time.Duration
	healthy atomic.Int32
}

func NewPingChecker(name string, pinger HealthPinger, timeout time.Duration) *PingChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PingChecker{name: name, pinger: pinger, timeout: timeout}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) IsHealthy() bool { return c.healthy.Load() == 1 }

func (c *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe := func() {
		pctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		if err := c.pinger.HealthPing(pctx); err != nil {
			c.healthy.Store(0)
			return
		}
		c.healthy.Store(1)
	}

	probe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
