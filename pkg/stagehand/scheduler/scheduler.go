// Package scheduler dispatches per-frame callbacks from a host frame source.
//
// A Scheduler owns an ordered list of registrations. Each frame it records the
// frame timestamp, snapshots the registrations and calls them in insertion
// order. Registrations added or removed during a frame take effect on the next
// one. Everything runs on the goroutine that delivers frames; no locking is done.
package scheduler

import (
	"reflect"
	"time"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
)

// Callback is invoked once per frame with the frame timestamp.
type Callback interface {
	Tick(now time.Duration)
}

// funcCallback gives a plain func a comparable identity.
type funcCallback struct {
	fn func(now time.Duration)
}

func (f *funcCallback) Tick(now time.Duration) {
	f.fn(now)
}

// Func wraps fn in a Callback. Keep the returned value to remove it later:
// every call to Func returns a distinct callback. A nil fn returns nil.
func Func(fn func(now time.Duration)) Callback {
	if fn == nil {
		return nil
	}
	return &funcCallback{fn: fn}
}

// FrameHandle identifies a pending frame request.
type FrameHandle uint64

// FrameSource delivers one-shot notifications on the next display frame.
type FrameSource interface {
	RequestFrame(fn func(now time.Duration)) FrameHandle
	CancelFrame(handle FrameHandle)
}

// UnloadNotifier is implemented by frame sources that know when the host is
// about to go away. The returned func removes the hook.
type UnloadNotifier interface {
	OnUnload(fn func()) (remove func())
}

// Registrar is the subset of the Scheduler used by animations.
type Registrar interface {
	Add(cb Callback, ctx any, opts ...Option)
	Remove(cb Callback, ctx any) int
	Now() time.Duration
}

// Option configures a registration.
type Option func(*registration)

// Once removes the registration after its first invocation.
func Once() Option {
	return func(r *registration) {
		r.once = true
	}
}

type registration struct {
	callback Callback
	context  any
	once     bool
}

// Scheduler runs registered callbacks on every frame of its source.
type Scheduler struct {
	source        FrameSource
	isRunning     bool
	hasFrame      bool
	frame         FrameHandle
	registrations []*registration
	snapshot      []*registration
	now           time.Duration
	removeUnload  func()
}

// New creates a stopped Scheduler driven by source.
func New(source FrameSource) *Scheduler {
	return &Scheduler{source: source}
}

// Start begins requesting frames. It is a no-op if already running.
func (s *Scheduler) Start() {
	if s.isRunning {
		return
	}
	s.isRunning = true
	if s.removeUnload == nil {
		if notifier, ok := s.source.(UnloadNotifier); ok {
			s.removeUnload = notifier.OnUnload(s.Stop)
		}
	}
	internal.GetInternalLogger().Debug("Scheduler started", "registrations", len(s.registrations))
	s.loop()
}

// Stop cancels the pending frame request. It is a no-op if not running.
func (s *Scheduler) Stop() {
	if !s.isRunning {
		return
	}
	s.isRunning = false
	if s.hasFrame {
		s.source.CancelFrame(s.frame)
		s.hasFrame = false
		s.frame = 0
	}
	if s.removeUnload != nil {
		s.removeUnload()
		s.removeUnload = nil
	}
	internal.GetInternalLogger().Debug("Scheduler stopped", "registrations", len(s.registrations))
}

// IsRunning reports whether the scheduler is requesting frames.
func (s *Scheduler) IsRunning() bool {
	return s.isRunning
}

// Now returns the timestamp of the most recent frame. Every callback of a frame
// observes the same value.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Len returns the number of registrations.
func (s *Scheduler) Len() int {
	return len(s.registrations)
}

// Add appends a registration. A nil callback is ignored.
// Registering the same callback and context twice yields two invocations per frame.
func (s *Scheduler) Add(cb Callback, ctx any, opts ...Option) {
	if isNil(cb) {
		return
	}
	r := &registration{callback: cb, context: ctx}
	for _, opt := range opts {
		opt(r)
	}
	s.registrations = append(s.registrations, r)
}

// AddOnce registers cb for a single invocation.
func (s *Scheduler) AddOnce(cb Callback, ctx any) {
	s.Add(cb, ctx, Once())
}

// Remove deletes every registration matching cb and ctx and returns the count.
// With both set a registration must match both; with only one set it must match
// that one. Removing during a frame takes effect on the next frame.
func (s *Scheduler) Remove(cb Callback, ctx any) int {
	matches := matcher(cb, ctx)
	kept := s.registrations[:0:0]
	removed := 0
	for _, r := range s.registrations {
		if matches(r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	if removed > 0 {
		s.registrations = kept
	}
	return removed
}

func (s *Scheduler) removeRegistration(target *registration) {
	for i, r := range s.registrations {
		if r == target {
			s.registrations = append(s.registrations[:i:i], s.registrations[i+1:]...)
			return
		}
	}
}

func matcher(cb Callback, ctx any) func(*registration) bool {
	hasCallback := !isNil(cb)
	hasContext := ctx != nil
	switch {
	case hasCallback && hasContext:
		return func(r *registration) bool { return sameValue(r.callback, cb) && sameValue(r.context, ctx) }
	case hasCallback:
		return func(r *registration) bool { return sameValue(r.callback, cb) }
	default:
		return func(r *registration) bool { return sameValue(r.context, ctx) }
	}
}

// sameValue compares two interface values without panicking on
// non-comparable dynamic types, which never match.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func isNil(cb Callback) bool {
	if cb == nil {
		return true
	}
	v := reflect.ValueOf(cb)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func (s *Scheduler) loop() {
	s.frame = s.source.RequestFrame(s.run)
	s.hasFrame = true
}

// run handles one frame. A panicking callback aborts the rest of the frame; the
// next frame is still requested while the scheduler is running.
func (s *Scheduler) run(now time.Duration) {
	s.hasFrame = false
	s.now = now

	s.snapshot = append(s.snapshot[:0], s.registrations...)
	snapshot := s.snapshot
	defer func() {
		clear(snapshot)
		if s.isRunning && !s.hasFrame {
			s.loop()
		}
	}()

	for _, r := range snapshot {
		r.callback.Tick(now)
		if r.once {
			s.removeRegistration(r)
		}
	}
}
