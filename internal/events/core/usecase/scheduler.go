package usecase

import (
	"context"
	"sync"
	"time"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/ports"
	"portfolio-analytics/internal/logger"

	"go.uber.org/zap"
)

// DefaultFlushInterval is how often the buffer is flushed
const DefaultFlushInterval = 30 * time.Second

// DeliveryScheduler moves buffered events to the local store and the remote
// collector. Delivery is at-least-once into the local store and
// fire-and-forget towards the collector: failed sends are not retried, the
// local copy stands in for them. A nil sender or beacon disables that path.
type DeliveryScheduler struct {
	buffer   *EventBuffer
	store    *LocalStore
	consent  *ConsentGate
	sender   ports.SenderPort
	beacon   ports.BeaconPort
	env      ports.EnvironmentPort
	interval time.Duration

	sessionID string
	userID    string
	startedAt time.Time
	now       func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	inflight sync.WaitGroup
}

type SchedulerConfig struct {
	Interval  time.Duration
	SessionID string
	UserID    string
	StartedAt time.Time
}

func NewDeliveryScheduler(
	buffer *EventBuffer,
	store *LocalStore,
	consent *ConsentGate,
	sender ports.SenderPort,
	beacon ports.BeaconPort,
	env ports.EnvironmentPort,
	cfg SchedulerConfig,
) *DeliveryScheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	startedAt := cfg.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	return &DeliveryScheduler{
		buffer:    buffer,
		store:     store,
		consent:   consent,
		sender:    sender,
		beacon:    beacon,
		env:       env,
		interval:  interval,
		sessionID: cfg.SessionID,
		userID:    cfg.UserID,
		startedAt: startedAt,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Run flushes on every tick and blocks until ctx is done or Stop is called.
// It does not perform the teardown flush.
func (s *DeliveryScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.L().Info("delivery scheduler running", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.consent.Reload(ctx)
			if n := s.Flush(ctx); n > 0 {
				logger.L().Debug("flush cycle complete", zap.Int("events", n))
			}
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (s *DeliveryScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Flush performs one regular delivery cycle and returns the number of
// events drained. The remote send runs in its own goroutine so a slow
// collector never holds up the next tick.
func (s *DeliveryScheduler) Flush(ctx context.Context) int {
	payload, ok := s.drain(ctx)
	if !ok {
		return 0
	}
	n := len(payload.Events)

	if !s.consent.IsEnabled() {
		logger.L().Debug("consent disabled, remote delivery skipped", zap.Int("events", n))
		return n
	}
	if s.sender == nil {
		return n
	}

	sendCtx := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.sender.Send(sendCtx, payload); err != nil {
			logger.L().Warn("remote delivery failed", zap.Error(err), zap.Int("events", n))
		}
	}()
	return n
}

// FlushOnTeardown performs the final cycle through the beacon path.
func (s *DeliveryScheduler) FlushOnTeardown(ctx context.Context) int {
	payload, ok := s.drain(ctx)
	if !ok {
		return 0
	}
	n := len(payload.Events)

	if !s.consent.IsEnabled() || s.beacon == nil {
		return n
	}
	if !s.beacon.Dispatch(payload) {
		logger.L().Warn("teardown beacon not queued", zap.Int("events", n))
	}
	return n
}

// WaitInflight blocks until regular sends started so far have returned or
// the timeout elapses. It reports whether all sends finished.
func (s *DeliveryScheduler) WaitInflight(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// drain empties the buffer and writes the local copy before anything goes
// over the network.
func (s *DeliveryScheduler) drain(ctx context.Context) (domain.DeliveryPayload, bool) {
	events := s.buffer.DrainAll()
	if len(events) == 0 {
		return domain.DeliveryPayload{}, false
	}

	s.store.Append(ctx, events)

	return domain.DeliveryPayload{
		SessionID:   s.sessionID,
		UserID:      s.userID,
		Events:      events,
		SessionData: s.sessionData(),
	}, true
}

func (s *DeliveryScheduler) sessionData() domain.SessionData {
	now := s.now()
	sd := domain.SessionData{
		StartTime: s.startedAt.UnixMilli(),
		Duration:  now.Sub(s.startedAt).Milliseconds(),
	}
	if s.env != nil {
		nav := s.env.Navigator()
		sd.UserAgent = nav.UserAgent
		sd.Language = nav.Language
		sd.Platform = nav.Platform
		sd.CookieEnabled = nav.CookieEnabled
		sd.OnLine = nav.OnLine
	}
	return sd
}
