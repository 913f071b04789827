package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	evdomain "portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/logger"
	"portfolio-analytics/internal/metrics/core/domain"
	"portfolio-analytics/internal/metrics/core/ports"

	"go.uber.org/zap"
)

// DashboardUseCase serves the admin dashboard from the local event log.
type DashboardUseCase struct {
	log ports.EventLogPort
	loc *time.Location
	now func() time.Time
}

func NewDashboardUseCase(log ports.EventLogPort, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{log: log, loc: loc, now: time.Now}
}

// Summary returns nil when the log is empty.
func (uc *DashboardUseCase) Summary(ctx context.Context) *domain.Summary {
	return SummarizeIn(uc.log.ReadAll(ctx), uc.loc)
}

// Export serializes the full log as indented JSON named after the current
// UTC date.
func (uc *DashboardUseCase) Export(ctx context.Context) (*domain.Export, error) {
	events := uc.log.ReadAll(ctx)
	if events == nil {
		events = []evdomain.Event{}
	}

	content, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	logger.L().Info("analytics exported", zap.Int("events", len(events)))
	return &domain.Export{
		Filename: ExportFilename(uc.now()),
		Content:  content,
		Events:   len(events),
	}, nil
}

func (uc *DashboardUseCase) Clear(ctx context.Context) {
	uc.log.Clear(ctx)
	logger.L().Info("local analytics cleared")
}

func ExportFilename(at time.Time) string {
	return "analytics-" + at.UTC().Format(time.DateOnly) + ".json"
}
