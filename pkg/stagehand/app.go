package stagehand

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/config"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/manager"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/textdraw"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/viewport"
)

// ErrNoConfig is returned by Open and Reload without a config.
var ErrNoConfig = errors.New("stagehand: nil config")

// App is a manager built from a config, with the scheduler it runs on and
// the localizer used for captions.
type App struct {
	cfg       *config.Config
	sched     *scheduler.Scheduler
	stage     manager.Stage
	surface   viewport.Surface
	manager   *manager.Manager
	localizer *i18n.Localizer
}

// Open builds the scheduler and manager and initializes the timeline.
// stage and surface may be nil.
func Open(cfg *config.Config, source scheduler.FrameSource, stage manager.Stage, surface viewport.Surface) (*App, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}

	a := &App{
		sched:   scheduler.New(source),
		stage:   stage,
		surface: surface,
	}
	if err := a.apply(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) Config() *config.Config          { return a.cfg }
func (a *App) Scheduler() *scheduler.Scheduler { return a.sched }
func (a *App) Manager() *manager.Manager       { return a.manager }
func (a *App) Localizer() *i18n.Localizer      { return a.localizer }

// Reload applies a new config. An unchanged timeline resets the manager back
// to its first screen; a changed one replaces the manager.
func (a *App) Reload(cfg *config.Config) error {
	if cfg == nil {
		return ErrNoConfig
	}
	if a.manager != nil && !a.manager.IsDisposed() && slices.Equal(a.cfg.Timeline, cfg.Timeline) &&
		a.cfg.AnimationDuration == cfg.AnimationDuration && a.cfg.LevelBaseURL == cfg.LevelBaseURL {
		localizer, err := newLocalizer(cfg)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.localizer = localizer
		applyLogLevel(cfg.LogLevel)
		return a.manager.Reset()
	}
	return a.apply(cfg)
}

func (a *App) apply(cfg *config.Config) error {
	localizer, err := newLocalizer(cfg)
	if err != nil {
		return err
	}

	m := a.newManager(cfg)
	if err := m.Registry().Check(cfg.Timeline); err != nil {
		return err
	}

	previous := a.cfg
	if a.manager != nil {
		a.manager.Dispose()
		a.manager = nil
	}
	if err := m.Initialize(cfg.Timeline); err != nil {
		m.Dispose()
		a.restore(previous)
		return err
	}

	a.cfg = cfg
	a.manager = m
	a.localizer = localizer
	applyLogLevel(cfg.LogLevel)
	internal.GetInternalLogger().Debug("App opened", "screens", len(cfg.Timeline), "language", cfg.Language)
	return nil
}

func (a *App) newManager(cfg *config.Config) *manager.Manager {
	opts := cfg.ManagerOptions()
	opts.Surface = a.surface
	return manager.New(a.sched, a.stage, opts)
}

// restore rebuilds the manager of the config that was active before a failed
// rebuild, so the app keeps running on the old timeline.
func (a *App) restore(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m := a.newManager(cfg)
	if err := m.Initialize(cfg.Timeline); err != nil {
		m.Dispose()
		internal.GetInternalLogger().Error("Failed to restore manager", "error", err)
		return
	}
	a.manager = m
}

// Caption returns a drawer for the caption configured for screenID, or nil
// if it has none. The drawer is not started.
func (a *App) Caption(screenID string, surface textdraw.Surface) *textdraw.Drawer {
	segments, ok := a.cfg.Captions[screenID]
	if !ok {
		return nil
	}
	d := textdraw.New(a.sched, surface, segments, a.cfg.CharInterval)
	d.SetLocalizer(a.localizer)
	return d
}

// Close disposes the manager, which also stops the scheduler.
func (a *App) Close() {
	if a.manager != nil {
		a.manager.Dispose()
	}
}

func newLocalizer(cfg *config.Config) (*i18n.Localizer, error) {
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", cfg.Language, err)
	}

	bundle := textdraw.NewBundle(tag)
	for _, path := range cfg.Messages {
		if _, err := bundle.LoadMessageFile(path); err != nil {
			return nil, fmt.Errorf("load messages: %w", err)
		}
	}
	return textdraw.NewLocalizer(bundle, cfg.Language), nil
}
