package usecase

import (
	"regexp"
	"slices"
	"time"

	evdomain "portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/metrics/core/domain"
)

const topSectionsLimit = 5

var (
	mobileUA = regexp.MustCompile(`Mobile|Android|iPhone`)
	tabletUA = regexp.MustCompile(`iPad|Tablet`)
)

// ClassifyDevice maps a user agent to Mobile, Tablet or Desktop.
func ClassifyDevice(userAgent string) string {
	switch {
	case mobileUA.MatchString(userAgent):
		return "Mobile"
	case tabletUA.MatchString(userAgent):
		return "Tablet"
	default:
		return "Desktop"
	}
}

// Summarize computes dashboard statistics in the local time zone. It
// returns nil for an empty log.
func Summarize(events []evdomain.Event) *domain.Summary {
	return SummarizeIn(events, time.Local)
}

// SummarizeIn is Summarize with hourly buckets taken in loc.
func SummarizeIn(events []evdomain.Event, loc *time.Location) *domain.Summary {
	if len(events) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	s := &domain.Summary{
		TotalEvents:    len(events),
		HourlyActivity: make([]domain.HourBucket, 24),
	}
	for h := range s.HourlyActivity {
		s.HourlyActivity[h].Hour = h
	}

	users := make(map[string]struct{})
	type span struct{ min, max int64 }
	sessions := make(map[string]*span)

	sectionIdx := make(map[string]int)
	deviceIdx := make(map[string]int)

	var (
		errorCount            int
		loadSum, paintSum     float64
		loadCount, paintCount int
	)

	for _, e := range events {
		users[e.UserID] = struct{}{}

		if sp, ok := sessions[e.SessionID]; ok {
			sp.min = min(sp.min, e.CapturedAt)
			sp.max = max(sp.max, e.CapturedAt)
		} else {
			sessions[e.SessionID] = &span{min: e.CapturedAt, max: e.CapturedAt}
		}

		hour := time.UnixMilli(e.CapturedAt).In(loc).Hour()
		s.HourlyActivity[hour].Count++

		switch p := e.Payload.(type) {
		case evdomain.PageView:
			s.PageViews++
			device := ClassifyDevice(p.UserAgent)
			if i, ok := deviceIdx[device]; ok {
				s.DeviceTypes[i].Count++
			} else {
				deviceIdx[device] = len(s.DeviceTypes)
				s.DeviceTypes = append(s.DeviceTypes, domain.DeviceCount{Device: device, Count: 1})
			}
		case evdomain.SectionView:
			if i, ok := sectionIdx[p.SectionID]; ok {
				s.TopSections[i].Count++
			} else {
				sectionIdx[p.SectionID] = len(s.TopSections)
				s.TopSections = append(s.TopSections, domain.SectionCount{Section: p.SectionID, Count: 1})
			}
		case evdomain.Performance:
			if p.LoadTime != nil {
				loadSum += *p.LoadTime
				loadCount++
			}
			if p.FirstPaint != nil {
				paintSum += *p.FirstPaint
				paintCount++
			}
		case evdomain.ErrorReport:
			errorCount++
		}
	}

	s.UniqueUsers = len(users)

	var total int64
	for _, sp := range sessions {
		total += sp.max - sp.min
	}
	s.AvgSessionDuration = float64(total) / float64(len(sessions)) / 1000

	slices.SortStableFunc(s.TopSections, func(a, b domain.SectionCount) int {
		return b.Count - a.Count
	})
	if len(s.TopSections) > topSectionsLimit {
		s.TopSections = s.TopSections[:topSectionsLimit]
	}
	if s.TopSections == nil {
		s.TopSections = []domain.SectionCount{}
	}
	if s.DeviceTypes == nil {
		s.DeviceTypes = []domain.DeviceCount{}
	}

	if loadCount > 0 {
		s.PerformanceMetrics.AvgLoadTime = loadSum / float64(loadCount)
	}
	if paintCount > 0 {
		s.PerformanceMetrics.AvgFirstPaint = paintSum / float64(paintCount)
	}
	s.PerformanceMetrics.ErrorRate = float64(errorCount) / float64(s.TotalEvents) * 100

	return s
}
