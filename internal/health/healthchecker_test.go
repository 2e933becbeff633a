package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type fakeChecker struct {
	name    string
	healthy atomic.Int32
}

func (f *fakeChecker) Name() string                               { return f.name }
func (f *fakeChecker) IsHealthy() bool                            { return f.healthy.Load() == 1 }
func (f *fakeChecker) Start(ctx context.Context, _ time.Duration) {}

func waitTrue(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}

func TestServiceHealthChecker_Transitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := &fakeChecker{name: "queue"}
	gateway := &fakeChecker{name: "gateway"}
	queue.healthy.Store(1)
	gateway.healthy.Store(1)

	svc := NewServiceHealthChecker(zerolog.Nop(), queue, gateway)
	go svc.Start(ctx, 10*time.Millisecond)

	waitTrue(t, func() bool { return svc.IsHealthy() })

	gateway.healthy.Store(0)
	waitTrue(t, func() bool { return !svc.IsHealthy() })

	gateway.healthy.Store(1)
	waitTrue(t, func() bool { return svc.IsHealthy() })
}

func TestPingChecker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fail atomic.Int32
	checker := NewPingChecker("gateway", PingFunc(func(ctx context.Context) error {
		if fail.Load() == 1 {
			return errors.New("gateway down")
		}
		return nil
	}), time.Second)

	go checker.Start(ctx, 10*time.Millisecond)
	waitTrue(t, func() bool { return checker.IsHealthy() })

	fail.Store(1)
	waitTrue(t, func() bool { return !checker.IsHealthy() })
}
