package ports

import (
	"context"

	"portfolio-analytics/internal/events/core/domain"
)

// SenderPort is the regular delivery path. The call may be awaited but its
// outcome is only logged.
type SenderPort interface {
	Send(ctx context.Context, p domain.DeliveryPayload) error
}

// BeaconPort is the teardown delivery path: a one-way dispatch that is not
// bound to any caller context. Dispatch reports whether the payload was
// queued, never whether it arrived.
type BeaconPort interface {
	Dispatch(p domain.DeliveryPayload) bool
}
