package ports

import (
	"context"
	"errors"
)

// ErrStorageUnavailable is returned by stores that cannot reach their
// backing medium.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Fixed durable keys.
const (
	KeyUserID    = "portfolio_user_id"
	KeyAnalytics = "portfolio_analytics"
	KeyOptedOut  = "analytics_opted_out"
)

type KeyValueStorePort interface {
	// Get:
	//   found = true,  err = nil  -> value present
	//   found = false, err = nil  -> key absent
	//   found = false, err != nil -> storage error
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
