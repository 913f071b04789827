package usecase

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"runtime/debug"
	"sync"
	"time"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/ports"
	"portfolio-analytics/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultScrollQuiet      = 250 * time.Millisecond
	DefaultPerformanceDelay = time.Second

	isoMillis = "2006-01-02T15:04:05.000Z"
)

type TrackerConfig struct {
	ScrollQuiet      time.Duration
	PerformanceDelay time.Duration
}

// ScrollPosition is the raw scroll state reported by the host page.
type ScrollPosition struct {
	Y              float64
	DocumentHeight float64
	ViewportHeight float64
}

// Percent is Y relative to the scrollable distance, rounded. Pages that
// cannot scroll report 0.
func (p ScrollPosition) Percent() int {
	scrollable := p.DocumentHeight - p.ViewportHeight
	if scrollable <= 0 {
		return 0
	}
	return int(math.Round(p.Y / scrollable * 100))
}

// Tracker hosts the event sources. Each source is independent: a panic
// while building one payload is logged and does not affect the others.
type Tracker struct {
	buffer    *EventBuffer
	consent   *ConsentGate
	env       ports.EnvironmentPort
	timing    ports.TimingSourcePort
	sessionID string
	userID    string
	cfg       TrackerConfig
	now       func() time.Time

	perfOnce  sync.Once
	mu        sync.Mutex
	perfTimer *time.Timer

	scrollTimer *time.Timer
	scrollGen   uint64
	lastScroll  ScrollPosition
	stopped     bool
}

func NewTracker(
	buffer *EventBuffer,
	consent *ConsentGate,
	env ports.EnvironmentPort,
	timing ports.TimingSourcePort,
	sessionID, userID string,
	cfg TrackerConfig,
) *Tracker {
	if cfg.ScrollQuiet <= 0 {
		cfg.ScrollQuiet = DefaultScrollQuiet
	}
	if cfg.PerformanceDelay <= 0 {
		cfg.PerformanceDelay = DefaultPerformanceDelay
	}
	return &Tracker{
		buffer:    buffer,
		consent:   consent,
		env:       env,
		timing:    timing,
		sessionID: sessionID,
		userID:    userID,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (t *Tracker) capture(source string, build func() domain.Payload) {
	if !t.consent.IsEnabled() || t.isStopped() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.L().Warn("event source failed",
				zap.String("source", source), zap.Any("panic", r))
		}
	}()

	p := build()
	if p == nil {
		return
	}
	// A payload that cannot be encoded would fail the whole flush batch.
	if _, err := json.Marshal(p); err != nil {
		logger.L().Warn("event dropped, payload not encodable",
			zap.String("source", source), zap.Error(err))
		return
	}
	t.buffer.Append(domain.Event{
		Payload:    p,
		CapturedAt: t.now().UnixMilli(),
		SessionID:  t.sessionID,
		UserID:     t.userID,
	})
}

func (t *Tracker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *Tracker) isoNow() string {
	return t.now().UTC().Format(isoMillis)
}

func (t *Tracker) pageURL() string {
	if t.env == nil {
		return ""
	}
	return t.env.Page().URL
}

// TrackPageView records a page view. Empty fields are filled from the
// environment.
func (t *Tracker) TrackPageView(pv domain.PageView) {
	t.capture("page_view", func() domain.Payload {
		if t.env != nil {
			page := t.env.Page()
			if pv.URL == "" {
				pv.URL = page.URL
			}
			if pv.Referrer == "" {
				pv.Referrer = page.Referrer
			}
			if pv.UserAgent == "" {
				pv.UserAgent = t.env.Navigator().UserAgent
			}
			if pv.Viewport == nil {
				vp := page.Viewport
				pv.Viewport = &vp
			}
		}
		if pv.Timestamp == "" {
			pv.Timestamp = t.isoNow()
		}
		return pv
	})
}

// LoadComplete schedules the single performance sample. Later calls are
// ignored.
func (t *Tracker) LoadComplete() {
	t.perfOnce.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.stopped {
			return
		}
		t.perfTimer = time.AfterFunc(t.cfg.PerformanceDelay, func() {
			t.capture("performance", t.performancePayload)
		})
	})
}

func (t *Tracker) performancePayload() domain.Payload {
	if t.timing == nil {
		return domain.Performance{}
	}
	p, err := t.timing.Timing()
	if err != nil {
		logger.L().Warn("performance timing unavailable", zap.Error(err))
		return domain.Performance{}
	}
	return p
}

func (t *Tracker) TrackError(r domain.ErrorReport) {
	t.capture("error", func() domain.Payload { return r })
}

func (t *Tracker) TrackRejection(reason any) {
	t.capture("rejection", func() domain.Payload {
		return domain.ErrorReport{
			Type:   domain.RejectionType,
			Reason: describe(reason),
		}
	})
}

// Guard runs fn and records a panic as an uncaught error instead of
// propagating it.
func (t *Tracker) Guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			t.TrackError(domain.ErrorReport{
				Message: describe(r),
				Stack:   stack,
			})
		}
	}()
	fn()
}

func (t *Tracker) VisibilityChanged(hidden bool) {
	t.capture("visibility", func() domain.Payload {
		h := hidden
		return domain.Interaction{Type: domain.InteractionVisibility, Hidden: &h}
	})
}

// Scrolled records the latest position and emits it once the position has
// been quiet for ScrollQuiet.
func (t *Tracker) Scrolled(pos ScrollPosition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.lastScroll = pos
	t.scrollGen++
	gen := t.scrollGen

	if t.scrollTimer != nil {
		t.scrollTimer.Stop()
	}
	t.scrollTimer = time.AfterFunc(t.cfg.ScrollQuiet, func() { t.emitScroll(gen) })
}

func (t *Tracker) emitScroll(gen uint64) {
	t.mu.Lock()
	if gen != t.scrollGen || t.stopped {
		t.mu.Unlock()
		return
	}
	pos := t.lastScroll
	t.mu.Unlock()

	t.capture("scroll", func() domain.Payload {
		pct := pos.Percent()
		y := pos.Y
		return domain.Interaction{
			Type:          domain.InteractionScroll,
			ScrollPercent: &pct,
			ScrollY:       &y,
		}
	})
}

func (t *Tracker) TrackSectionView(sectionID string) {
	t.capture("section_view", func() domain.Payload {
		return domain.SectionView{
			SectionID: sectionID,
			Timestamp: t.isoNow(),
			URL:       t.pageURL(),
		}
	})
}

func (t *Tracker) TrackInteraction(element, action string, data map[string]any) {
	t.capture("interaction", func() domain.Payload {
		return domain.NewInteraction(element, action, data, t.isoNow())
	})
}

// TrackCustom records an interaction whose type marker is name. A "type"
// key in data overrides name.
func (t *Tracker) TrackCustom(name string, data map[string]any) {
	t.capture("custom", func() domain.Payload {
		extra := maps.Clone(data)
		if v, ok := extra["type"]; ok {
			name = ""
			if s, isString := v.(string); isString {
				name = s
				delete(extra, "type")
			}
		}
		return domain.Interaction{Type: name, Extra: extra}
	})
}

// Stop cancels pending debounce and performance timers. Captures after Stop
// are ignored since the teardown flush has already run.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	if t.scrollTimer != nil {
		t.scrollTimer.Stop()
	}
	if t.perfTimer != nil {
		t.perfTimer.Stop()
	}
}

func describe(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
