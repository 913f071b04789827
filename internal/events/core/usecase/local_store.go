package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/ports"
	"portfolio-analytics/internal/events/core/ring"
	"portfolio-analytics/internal/logger"

	"go.uber.org/zap"
)

const LocalStoreCapacity = 500

// LocalStore is the durable, append-only event log read by the dashboard.
// Storage failures never reach the caller.
type LocalStore struct {
	kv       ports.KeyValueStorePort
	capacity int
	mu       sync.Mutex
}

func NewLocalStore(kv ports.KeyValueStorePort, capacity int) *LocalStore {
	if capacity <= 0 {
		capacity = LocalStoreCapacity
	}
	return &LocalStore{kv: kv, capacity: capacity}
}

// Append merges events at the tail and keeps the newest capacity entries.
func (s *LocalStore) Append(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(ctx)
	if err != nil {
		logger.L().Warn("local store unreadable, append skipped",
			zap.Error(err), zap.Int("events", len(events)))
		return
	}

	r := ring.New[domain.Event](s.capacity)
	for _, e := range existing {
		r.Push(e)
	}
	for _, e := range events {
		r.Push(e)
	}

	data, err := json.Marshal(r.Snapshot())
	if err != nil {
		data, err = encodeSkippingBad(r.Snapshot())
		if err != nil {
			logger.L().Warn("local store encode failed", zap.Error(err))
			return
		}
	}
	if err := s.kv.Set(ctx, ports.KeyAnalytics, string(data)); err != nil {
		logger.L().Warn("local store write failed", zap.Error(err))
	}
}

func (s *LocalStore) ReadAll(ctx context.Context) []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.read(ctx)
	if err != nil {
		logger.L().Warn("local store unreadable", zap.Error(err))
		return []domain.Event{}
	}
	return events
}

func (s *LocalStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, ports.KeyAnalytics); err != nil {
		logger.L().Warn("local store clear failed", zap.Error(err))
	}
}

// read decodes entries one by one; entries that no longer decode are
// skipped rather than poisoning the whole log.
func (s *LocalStore) read(ctx context.Context) ([]domain.Event, error) {
	raw, found, err := s.kv.Get(ctx, ports.KeyAnalytics)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return []domain.Event{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.L().Warn("local store corrupt, starting empty", zap.Error(err))
		return []domain.Event{}, nil
	}

	events := make([]domain.Event, 0, len(items))
	skipped := 0
	for _, item := range items {
		var e domain.Event
		if err := json.Unmarshal(item, &e); err != nil {
			skipped++
			continue
		}
		events = append(events, e)
	}
	if skipped > 0 {
		logger.L().Warn("local store entries skipped", zap.Int("skipped", skipped))
	}
	return events, nil
}

// encodeSkippingBad encodes events one by one and leaves out those that
// cannot be represented as JSON.
func encodeSkippingBad(events []domain.Event) ([]byte, error) {
	kept := make([]json.RawMessage, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			logger.L().Warn("local store skipped unencodable event",
				zap.String("kind", string(e.Kind())), zap.Error(err))
			continue
		}
		kept = append(kept, b)
	}
	return json.Marshal(kept)
}
