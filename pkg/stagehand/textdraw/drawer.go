// Package textdraw reveals a timeline of text segments a few graphemes per
// frame, typewriter style.
package textdraw

import (
	"math"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rivo/uniseg"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/events"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/internal"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/scheduler"
)

// Drawer events.
const (
	EventStart    = "start"
	EventComplete = "complete"
	EventStop     = "stop"
)

// DefaultTag is used for segments without a tag.
const DefaultTag = "span"

// Segment is one run of text drawn into its own span.
type Segment struct {
	Tag        string            `toml:"tag" yaml:"tag"`
	Attributes map[string]string `toml:"attributes" yaml:"attributes"`
	Text       string            `toml:"text" yaml:"text"`

	// MessageID, when set and a localizer is installed, replaces Text with the
	// localized message. Text stays the fallback.
	MessageID    string         `toml:"message" yaml:"message"`
	TemplateData map[string]any `toml:"data" yaml:"data"`
}

// Surface receives the spans being drawn.
type Surface interface {
	OpenSpan(seg Segment) Span
}

// Span shows the revealed part of one segment.
type Span interface {
	SetText(text string)
}

type Event struct {
	Type    string
	Target  *Drawer
	Text    string
	Offset  int
	Surface Surface
}

// Drawer reveals ceil(delta / perChar) graphemes per frame, where delta is the
// time since the previous frame.
type Drawer struct {
	events.Emitter[Event]

	reg       scheduler.Registrar
	surface   Surface
	timeline  []Segment
	perChar   time.Duration
	localizer *i18n.Localizer

	isRunning bool
	lastTime  time.Duration
	offset    int

	drawing bool
	text    string
	ends    []int // byte offset of the end of each grapheme
	span    Span
}

// New creates a drawer. A non-positive perChar uses the default of 17ms.
func New(reg scheduler.Registrar, surface Surface, timeline []Segment, perChar time.Duration) *Drawer {
	d := &Drawer{reg: reg}
	d.Set(surface, timeline, perChar)
	return d
}

// Set replaces the surface, the timeline and the reveal speed. The timeline is copied.
func (d *Drawer) Set(surface Surface, timeline []Segment, perChar time.Duration) {
	if perChar <= 0 {
		perChar = constants.DefaultMillisPerChar * time.Millisecond
	}
	d.surface = surface
	d.timeline = append([]Segment(nil), timeline...)
	d.perChar = perChar
}

// SetLocalizer installs the localizer used for segments with a MessageID.
func (d *Drawer) SetLocalizer(l *i18n.Localizer) {
	d.localizer = l
}

func (d *Drawer) IsRunning() bool { return d.isRunning }
func (d *Drawer) Offset() int     { return d.offset }
func (d *Drawer) Text() string    { return d.text }
func (d *Drawer) Remaining() int  { return len(d.timeline) }

func (d *Drawer) Start() {
	if d.isRunning {
		return
	}
	d.lastTime = d.reg.Now()
	d.offset = 0
	d.reg.Add(d, d)
	d.isRunning = true
	d.Trigger(EventStart, d.event(EventStart))
}

func (d *Drawer) Stop() {
	if !d.isRunning {
		return
	}
	d.reg.Remove(d, d)
	d.isRunning = false
	d.Trigger(EventStop, d.event(EventStop))
}

// Tick implements scheduler.Callback.
func (d *Drawer) Tick(now time.Duration) {
	delta := now - d.lastTime
	d.lastTime = now

	if !d.drawing {
		if len(d.timeline) == 0 {
			d.finish()
			return
		}
		d.open(d.timeline[0])
		d.timeline = d.timeline[1:]
	}

	d.offset += int(math.Ceil(float64(delta) / float64(d.perChar)))
	if d.offset > len(d.ends) {
		d.offset = len(d.ends)
	}
	if d.offset > 0 && d.span != nil {
		d.span.SetText(d.text[:d.ends[d.offset-1]])
	}

	if d.offset == len(d.ends) {
		if len(d.timeline) == 0 {
			d.finish()
			return
		}
		d.drawing = false
		d.span = nil
	}
}

func (d *Drawer) open(seg Segment) {
	if seg.Tag == "" {
		seg.Tag = DefaultTag
	}
	d.text = d.localize(seg)
	d.ends = graphemeEnds(d.text)
	d.offset = 0
	d.drawing = true

	seg.Text = ""
	if d.surface != nil {
		d.span = d.surface.OpenSpan(seg)
	}
}

func (d *Drawer) finish() {
	d.Trigger(EventComplete, d.event(EventComplete))
	d.drawing = false
	d.span = nil
	d.Stop()
}

func (d *Drawer) localize(seg Segment) string {
	if seg.MessageID == "" || d.localizer == nil {
		return seg.Text
	}
	text, err := d.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      seg.MessageID,
		TemplateData:   seg.TemplateData,
		DefaultMessage: &i18n.Message{ID: seg.MessageID, Other: seg.Text},
	})
	if err != nil {
		if text == "" {
			internal.GetInternalLogger().Warn("Failed to localize segment", "message", seg.MessageID, "error", err)
			return seg.Text
		}
		internal.GetInternalLogger().Debug("Localized segment with fallback", "message", seg.MessageID, "error", err)
	}
	return text
}

func (d *Drawer) event(eventType string) Event {
	return Event{Type: eventType, Target: d, Text: d.text, Offset: d.offset, Surface: d.surface}
}

func graphemeEnds(s string) []int {
	var ends []int
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		_, to := g.Positions()
		ends = append(ends, to)
	}
	return ends
}
