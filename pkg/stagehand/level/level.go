// Package level provides screens whose content is fetched lazily the first
// time they are navigated to.
package level

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/fade"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/screen"
)

// Fetcher loads the raw content of a level.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// FetcherFunc adapts a func to Fetcher.
type FetcherFunc func(ctx context.Context, id string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

type result struct {
	data []byte
	err  error
}

// Level is a screen backed by fetched content. The fetch runs on its own
// goroutine; the result is picked up by a scheduler callback so that "load"
// and "error" are emitted on the scheduler goroutine.
type Level struct {
	base      *screen.Screen
	fetcher   Fetcher
	registrar scheduler.Registrar
	timeout   time.Duration

	data     []byte
	err      error
	fetched  bool
	fetching bool
	results  chan result
	poll     scheduler.Callback
	cancel   context.CancelFunc
}

// New creates an unfetched level. A zero timeout means no fetch deadline.
func New(host screen.Host, id string, el fade.Element, overlay bool, fetcher Fetcher, timeout time.Duration) *Level {
	l := &Level{
		base:      screen.New(host, id, el, overlay),
		fetcher:   fetcher,
		registrar: host.Registrar(),
		timeout:   timeout,
	}
	l.poll = scheduler.Func(l.collect)
	return l
}

// Screen implements screen.Entity.
func (l *Level) Screen() *screen.Screen { return l.base }

func (l *Level) IsFetched() bool  { return l.fetched }
func (l *Level) IsFetching() bool { return l.fetching }
func (l *Level) Data() []byte     { return l.data }
func (l *Level) Err() error       { return l.err }

// OnceLoad calls fn after the next successful fetch.
func (l *Level) OnceLoad(fn func()) {
	l.base.Once(screen.EventLoad, func(screen.Event) { fn() })
}

// Fetch starts loading the level. It is a no-op while fetching or once fetched.
func (l *Level) Fetch() {
	if l.fetched || l.fetching || l.base.IsDisposed() {
		return
	}
	if l.fetcher == nil {
		l.fail(fmt.Errorf("level %s: no fetcher configured", l.base.ID()))
		return
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	l.fetching = true
	l.cancel = cancel
	l.results = make(chan result, 1)
	results := l.results
	id := l.base.ID()
	fetcher := l.fetcher

	internal.GetInternalLogger().Debug("Fetching level", "id", id)

	go func() {
		data, err := fetcher.Fetch(ctx, id)
		results <- result{data: data, err: err}
	}()
	l.registrar.Add(l.poll, l)
}

// ReloadAfterError retries a failed fetch.
func (l *Level) ReloadAfterError() {
	if l.err == nil {
		return
	}
	l.err = nil
	l.Fetch()
}

// Decode unmarshals the fetched content, YAML or JSON, into v.
func (l *Level) Decode(v any) error {
	if !l.fetched {
		return fmt.Errorf("level %s: not fetched", l.base.ID())
	}
	if err := yaml.Unmarshal(l.data, v); err != nil {
		return fmt.Errorf("level %s: decode: %w", l.base.ID(), err)
	}
	return nil
}

// Dispose cancels a pending fetch and disposes the screen.
func (l *Level) Dispose() {
	l.stopFetch()
	l.data = nil
	l.base.Dispose()
}

func (l *Level) collect(time.Duration) {
	select {
	case r := <-l.results:
		l.stopFetch()
		if r.err != nil {
			l.fail(fmt.Errorf("level %s: fetch: %w", l.base.ID(), r.err))
			return
		}
		l.data = r.data
		l.fetched = true
		internal.GetInternalLogger().Debug("Level fetched", "id", l.base.ID(), "bytes", len(r.data))
		l.base.Trigger(screen.EventLoad, screen.Event{Type: screen.EventLoad, Target: l.base, Origin: l})
	default:
	}
}

func (l *Level) stopFetch() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.fetching {
		l.registrar.Remove(l.poll, l)
	}
	l.fetching = false
	l.results = nil
}

func (l *Level) fail(err error) {
	l.err = err
	internal.GetInternalLogger().Error("Level fetch failed", "id", l.base.ID(), "error", err)
	l.base.Trigger(screen.EventError, screen.Event{Type: screen.EventError, Target: l.base, Origin: l, Err: err})
}
