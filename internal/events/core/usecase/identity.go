package usecase

import (
	"context"
	"sync"

	"portfolio-analytics/internal/events/core/ports"
	"portfolio-analytics/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityStore hands out the durable pseudonymous user id and the
// per-process session id.
type IdentityStore struct {
	kv        ports.KeyValueStorePort
	sessionID string

	mu     sync.Mutex
	userID string
}

func NewIdentityStore(kv ports.KeyValueStorePort) *IdentityStore {
	return &IdentityStore{
		kv:        kv,
		sessionID: newID("session"),
	}
}

// SessionID is fixed for the lifetime of the store.
func (s *IdentityStore) SessionID() string {
	return s.sessionID
}

// UserID returns the persisted user id, creating it on first use. If
// storage cannot be read or written the id lives only in this process.
func (s *IdentityStore) UserID(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID != "" {
		return s.userID
	}

	id, found, err := s.kv.Get(ctx, ports.KeyUserID)
	switch {
	case err != nil:
		logger.L().Warn("user id unreadable, using process-local id", zap.Error(err))
		s.userID = newID("user")
		return s.userID
	case found && id != "":
		s.userID = id
		return s.userID
	}

	s.userID = newID("user")
	if err := s.kv.Set(ctx, ports.KeyUserID, s.userID); err != nil {
		logger.L().Warn("user id not persisted", zap.Error(err))
	}
	return s.userID
}

// newID builds "<prefix>_<uuidv7>"; v7 carries a millisecond timestamp
// followed by random bits.
func newID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		return prefix + "_" + uuid.NewString()
	}
	return prefix + "_" + id.String()
}
