package frame

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
)

// Ticker delivers frames from a wall-clock ticker on the goroutine calling Run.
// RequestFrame, CancelFrame and OnUnload must be called from that goroutine
// (or before Run starts). Use Post to hand work over from other goroutines.
type Ticker struct {
	Queue

	interval time.Duration
	epoch    time.Time
	posts    chan func()

	running atomic.Bool
	frames  atomic.Uint64
}

// NewTicker creates a Ticker firing every interval. A non-positive interval
// uses constants.DefaultTickInterval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = constants.DefaultTickInterval
	}
	return &Ticker{
		interval: interval,
		epoch:    time.Now(),
		posts:    make(chan func(), 64),
	}
}

// Post schedules fn to run on the Run goroutine before the next frame.
// It is safe to call from any goroutine and drops fn if Run is not active.
func (t *Ticker) Post(fn func()) bool {
	if fn == nil || !t.running.Load() {
		return false
	}
	select {
	case t.posts <- fn:
		return true
	default:
		internal.GetInternalLogger().Warn("Ticker post queue full, dropping work")
		return false
	}
}

// Frames returns the number of frames delivered so far.
func (t *Ticker) Frames() uint64 {
	return t.frames.Load()
}

// IsRunning reports whether Run is active.
func (t *Ticker) IsRunning() bool {
	return t.running.Load()
}

// Run delivers frames until ctx is done or the process receives SIGINT or
// SIGTERM. Unload hooks run on the way out.
func (t *Ticker) Run(ctx context.Context) error {
	if !t.running.CompareAndSwap(false, true) {
		return nil
	}
	defer t.running.Store(false)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Unload()
			return ctx.Err()
		case sig := <-signals:
			internal.GetInternalLogger().Debug("Ticker received signal", "signal", sig.String())
			t.Unload()
			return nil
		case fn := <-t.posts:
			fn()
		case now := <-ticker.C:
			t.Fire(now.Sub(t.epoch))
			t.frames.Inc()
		}
	}
}
