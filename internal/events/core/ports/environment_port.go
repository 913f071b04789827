package ports

import "portfolio-analytics/internal/events/core/domain"

type Navigator struct {
	UserAgent     string
	Language      string
	Platform      string
	CookieEnabled bool
	OnLine        bool
}

type PageContext struct {
	URL      string
	Referrer string
	Viewport domain.Viewport
}

// EnvironmentPort exposes the host runtime the collector is embedded in.
type EnvironmentPort interface {
	Page() PageContext
	Navigator() Navigator
}

// TimingSourcePort reads navigation and paint timings once load has settled.
type TimingSourcePort interface {
	Timing() (domain.Performance, error)
}
