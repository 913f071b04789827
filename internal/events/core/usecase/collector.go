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

const DefaultBeaconGrace = 2 * time.Second

type Options struct {
	BufferCapacity   int
	StoreCapacity    int
	FlushInterval    time.Duration
	ScrollQuiet      time.Duration
	PerformanceDelay time.Duration
	BeaconGrace      time.Duration
}

// beaconWaiter is implemented by beacons that can report when their
// in-flight dispatches have settled.
type beaconWaiter interface {
	Wait(timeout time.Duration) bool
}

// Collector owns one capture session: identity, consent, buffer, local
// store, event sources and the delivery scheduler. Construct one per
// process (or per test) and drive it with Start and Stop.
type Collector struct {
	Identity  *IdentityStore
	Consent   *ConsentGate
	Buffer    *EventBuffer
	Store     *LocalStore
	Tracker   *Tracker
	Scheduler *DeliveryScheduler

	beacon      ports.BeaconPort
	beaconGrace time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	runDone chan struct{}
}

func NewCollector(
	ctx context.Context,
	kv ports.KeyValueStorePort,
	env ports.EnvironmentPort,
	timing ports.TimingSourcePort,
	sender ports.SenderPort,
	beacon ports.BeaconPort,
	opts Options,
) *Collector {
	identity := NewIdentityStore(kv)
	userID := identity.UserID(ctx)
	sessionID := identity.SessionID()

	consent := NewConsentGate(ctx, kv)
	buffer := NewEventBuffer(opts.BufferCapacity)
	store := NewLocalStore(kv, opts.StoreCapacity)

	tracker := NewTracker(buffer, consent, env, timing, sessionID, userID, TrackerConfig{
		ScrollQuiet:      opts.ScrollQuiet,
		PerformanceDelay: opts.PerformanceDelay,
	})
	scheduler := NewDeliveryScheduler(buffer, store, consent, sender, beacon, env, SchedulerConfig{
		Interval:  opts.FlushInterval,
		SessionID: sessionID,
		UserID:    userID,
		StartedAt: time.Now(),
	})

	grace := opts.BeaconGrace
	if grace <= 0 {
		grace = DefaultBeaconGrace
	}

	return &Collector{
		Identity:    identity,
		Consent:     consent,
		Buffer:      buffer,
		Store:       store,
		Tracker:     tracker,
		Scheduler:   scheduler,
		beacon:      beacon,
		beaconGrace: grace,
		runDone:     make(chan struct{}),
	}
}

// Start records the initial page view and starts the periodic flush.
func (c *Collector) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true

	logger.L().Info("collector starting",
		zap.String("session_id", c.Identity.SessionID()),
		zap.String("user_id", c.Identity.UserID(ctx)),
		zap.Bool("consent", c.Consent.IsEnabled()))

	c.Tracker.TrackPageView(domain.PageView{})

	go func() {
		defer close(c.runDone)
		_ = c.Scheduler.Run(ctx)
	}()
}

// Stop cancels the periodic flush and pending source timers, then performs
// the teardown flush through the beacon. It waits up to the beacon grace
// period for the dispatch to leave the process.
func (c *Collector) Stop(ctx context.Context) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	started := c.started
	c.mu.Unlock()

	c.Scheduler.Stop()
	if started {
		<-c.runDone
	}
	c.Tracker.Stop()

	n := c.Scheduler.FlushOnTeardown(ctx)
	if w, ok := c.beacon.(beaconWaiter); ok && n > 0 {
		if !w.Wait(c.beaconGrace) {
			logger.L().Warn("teardown beacon still in flight", zap.Duration("grace", c.beaconGrace))
		}
	}

	logger.L().Info("collector stopped", zap.Int("teardown_events", n))
}

// Purge drops everything captured so far, buffered and stored. Unlike
// disabling consent this is destructive.
func (c *Collector) Purge(ctx context.Context) {
	dropped := len(c.Buffer.DrainAll())
	c.Store.Clear(ctx)
	logger.L().Info("analytics data purged", zap.Int("buffered_dropped", dropped))
}
