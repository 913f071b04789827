package ports

import (
	"context"

	evdomain "portfolio-analytics/internal/events/core/domain"
)

// EventLogPort reads and clears the durable local event log.
type EventLogPort interface {
	ReadAll(ctx context.Context) []evdomain.Event
	Clear(ctx context.Context)
}
