package environment

import (
	"errors"
	"sync"

	"portfolio-analytics/internal/config"
	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/ports"
)

// ErrNoTiming is returned until the host has reported its load timings.
var ErrNoTiming = errors.New("no timing recorded")

// Host is the environment seen by the collector. It starts from the site
// configuration and follows page changes reported by the host.
type Host struct {
	mu   sync.RWMutex
	page ports.PageContext
	nav  ports.Navigator
}

var _ ports.EnvironmentPort = (*Host)(nil)

func NewHost(site config.SiteConfig) *Host {
	return &Host{
		page: ports.PageContext{
			URL:      site.URL,
			Referrer: site.Referrer,
			Viewport: domain.Viewport{Width: site.Width, Height: site.Height},
		},
		nav: ports.Navigator{
			UserAgent:     site.UserAgent,
			Language:      site.Language,
			Platform:      site.Platform,
			CookieEnabled: true,
			OnLine:        true,
		},
	}
}

func (h *Host) Page() ports.PageContext {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.page
}

func (h *Host) Navigator() ports.Navigator {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.nav
}

// Navigate replaces the non-empty parts of the current page context.
func (h *Host) Navigate(url, referrer string, viewport *domain.Viewport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if url != "" {
		h.page.URL = url
	}
	if referrer != "" {
		h.page.Referrer = referrer
	}
	if viewport != nil && viewport.Width > 0 && viewport.Height > 0 {
		h.page.Viewport = *viewport
	}
}

// SetUserAgent records the agent of the host that reported a signal.
func (h *Host) SetUserAgent(ua string) {
	if ua == "" {
		return
	}
	h.mu.Lock()
	h.nav.UserAgent = ua
	h.mu.Unlock()
}

// SetOnline tracks connectivity reported by the host.
func (h *Host) SetOnline(online bool) {
	h.mu.Lock()
	h.nav.OnLine = online
	h.mu.Unlock()
}

// TimingRecorder holds the load timings the host reports once.
type TimingRecorder struct {
	mu       sync.Mutex
	timing   domain.Performance
	recorded bool
}

var _ ports.TimingSourcePort = (*TimingRecorder)(nil)

func NewTimingRecorder() *TimingRecorder {
	return &TimingRecorder{}
}

// Record stores p. Only the first report is kept.
func (r *TimingRecorder) Record(p domain.Performance) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recorded {
		return false
	}
	r.timing = p
	r.recorded = true
	return true
}

func (r *TimingRecorder) Timing() (domain.Performance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recorded {
		return domain.Performance{}, ErrNoTiming
	}
	return r.timing, nil
}
