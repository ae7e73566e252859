package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/config"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/frame"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/manager"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/platform/term"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/screen"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/textdraw"
)

//go:embed demo.toml
var defaultConfig []byte

type demo struct {
	app      *stagehand.App
	stage    *term.Stage
	screen   tcell.Screen
	ticker   *frame.Ticker
	captions map[string]*textdraw.Drawer
	cancel   context.CancelFunc
}

func main() {
	configPath := flag.String("config", "", "timeline config (.toml or .yaml); the built-in demo when empty")
	logPath := flag.String("log", "stagehand-demo.log", "log file path")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	stagehand.Init(stagehand.Options{LogPath: *logPath, LogLevel: cfg.LogLevel})
	defer stagehand.Close()
	logger := stagehand.GetLogger()

	if err := run(cfg, *configPath); err != nil {
		logger.Error("Demo failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Parse(defaultConfig, config.FormatTOML)
	}
	return config.Load(path)
}

func run(cfg *config.Config, configPath string) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := &demo{
		stage:    term.NewStage(s),
		screen:   s,
		ticker:   frame.NewTicker(cfg.TickInterval),
		captions: make(map[string]*textdraw.Drawer),
		cancel:   cancel,
	}
	d.addPanels(cfg)

	d.app, err = stagehand.Open(cfg, d.ticker, d.stage, d.stage)
	if err != nil {
		return err
	}
	d.ticker.OnUnload(d.app.Close)
	d.attach()
	d.showCaption(d.app.Manager().Current(manager.SlotBase))

	d.app.Scheduler().Add(scheduler.Func(func(time.Duration) { d.stage.Draw() }), d)

	if configPath != "" {
		w, err := config.NewWatcher(configPath)
		if err != nil {
			return err
		}
		defer w.Close()
		go d.watch(w)
	}

	go d.pollInput()

	stagehand.GetLogger().Debug("Demo running", "screens", len(cfg.Timeline))
	if err := d.ticker.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (d *demo) addPanels(cfg *config.Config) {
	fg := colorful.Color{R: 0.95, G: 0.95, B: 0.95}
	for i, desc := range cfg.Timeline {
		if d.stage.Panel(desc.ScreenID) != nil {
			continue
		}
		bg := colorful.Hsv(float64(i)*67, 0.55, 0.35)
		p := term.NewPanel(desc.ScreenID, fg, bg)
		if desc.Overlay {
			p.Inset = 3
		}
		d.stage.Add(desc.ScreenID, p)
	}
}

// attach subscribes to the current manager. It runs again after a reload
// replaces the manager.
func (d *demo) attach() {
	m := d.app.Manager()
	m.On(manager.EventChangeScreen, func(e manager.Event) {
		d.showCaption(e.Screen)
	})
}

func (d *demo) showCaption(s *screen.Screen) {
	if s == nil {
		return
	}
	id := s.ID()
	if prev := d.captions[id]; prev != nil {
		prev.Stop()
	}
	p := d.stage.Panel(id)
	if p == nil {
		return
	}
	p.ClearText()
	drawer := d.app.Caption(id, p)
	if drawer == nil {
		return
	}
	d.captions[id] = drawer
	drawer.Start()
}

func (d *demo) pollInput() {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		d.ticker.Post(func() { d.handle(ev) })
	}
}

func (d *demo) handle(ev tcell.Event) {
	m := d.app.Manager()
	if m == nil {
		return
	}

	switch ev := ev.(type) {
	case *tcell.EventResize:
		d.screen.Sync()
		if vp := m.Viewport(); vp != nil {
			vp.RequestResize()
		}
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			d.cancel()
			return
		}
		if ev.Key() != tcell.KeyRune {
			return
		}
		switch ev.Rune() {
		case 'q':
			d.cancel()
		case 'n':
			d.next(m)
		case 'o':
			if overlay := firstOverlay(m); overlay != nil {
				m.GoTo(overlay, manager.Navigation{})
			}
		case 'c':
			if m.IsOverlayActive() {
				m.CloseOverlay()
			}
		}
	}
}

// next moves to the following base screen, wrapping around to the first.
func (d *demo) next(m *manager.Manager) {
	if m.IsOverlayActive() {
		return
	}
	for target := m.NextScreen(); target != nil; {
		if !target.Screen().IsOverlay() {
			m.GoTo(target, manager.Navigation{})
			return
		}
		target = nextAfter(m, target)
	}
	if screens := m.Screens(); len(screens) > 0 {
		m.GoTo(screens[0], manager.Navigation{})
	}
}

func nextAfter(m *manager.Manager, e screen.Entity) screen.Entity {
	screens := m.Screens()
	for i, s := range screens {
		if s == e && i+1 < len(screens) {
			return screens[i+1]
		}
	}
	return nil
}

func firstOverlay(m *manager.Manager) screen.Entity {
	for _, e := range m.Screens() {
		if e.Screen().IsOverlay() {
			return e
		}
	}
	return nil
}

func (d *demo) watch(w *config.Watcher) {
	logger := stagehand.GetLogger()
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			cfg, err := config.Load(path)
			if err != nil {
				logger.Error("Config reload failed", "path", path, "error", err)
				continue
			}
			d.ticker.Post(func() { d.reload(cfg) })
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Error("Config watcher error", "error", err)
		}
	}
}

func (d *demo) reload(cfg *config.Config) {
	for _, drawer := range d.captions {
		drawer.Stop()
	}
	d.captions = make(map[string]*textdraw.Drawer)

	d.addPanels(cfg)
	before := d.app.Manager()
	if err := d.app.Reload(cfg); err != nil {
		stagehand.GetLogger().Error("Reload failed", "error", err)
		d.screen.Sync()
		return
	}
	if d.app.Manager() != before {
		d.attach()
	}
	d.showCaption(d.app.Manager().Current(manager.SlotBase))
	stagehand.GetLogger().Debug("Config reloaded", "screens", len(cfg.Timeline))
}
