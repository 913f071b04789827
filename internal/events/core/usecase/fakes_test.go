package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/ports"
)

var errStorage = errors.New("quota exceeded")

// fakeKV is an in-memory KeyValueStorePort whose operations can be
// overridden per test.
type fakeKV struct {
	mu       sync.Mutex
	data     map[string]string
	GetFn    func(key string) (string, bool, error)
	SetFn    func(key, value string) error
	DeleteFn func(key string) error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.GetFn != nil {
		return f.GetFn(key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	if f.SetFn != nil {
		return f.SetFn(key, value)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	if f.DeleteFn != nil {
		return f.DeleteFn(key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKV) raw(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

type fakeSender struct {
	mu       sync.Mutex
	payloads []domain.DeliveryPayload
	SendFn   func(p domain.DeliveryPayload) error
}

func (f *fakeSender) Send(ctx context.Context, p domain.DeliveryPayload) error {
	f.mu.Lock()
	f.payloads = append(f.payloads, p)
	f.mu.Unlock()
	if f.SendFn != nil {
		return f.SendFn(p)
	}
	return nil
}

func (f *fakeSender) sent() []domain.DeliveryPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.DeliveryPayload(nil), f.payloads...)
}

type fakeBeacon struct {
	mu       sync.Mutex
	payloads []domain.DeliveryPayload
	queued   bool
	waited   bool
}

func (f *fakeBeacon) Dispatch(p domain.DeliveryPayload) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return f.queued
}

func (f *fakeBeacon) Wait(timeout time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waited = true
	return true
}

func (f *fakeBeacon) dispatched() []domain.DeliveryPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.DeliveryPayload(nil), f.payloads...)
}

type fakeEnv struct {
	PageFn func() ports.PageContext
}

func (f *fakeEnv) Page() ports.PageContext {
	if f.PageFn != nil {
		return f.PageFn()
	}
	return ports.PageContext{
		URL:      "https://portfolio.example/",
		Referrer: "https://search.example/",
		Viewport: domain.Viewport{Width: 1440, Height: 900},
	}
}

func (f *fakeEnv) Navigator() ports.Navigator {
	return ports.Navigator{
		UserAgent:     "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)",
		Language:      "en-GB",
		Platform:      "iPhone",
		CookieEnabled: true,
		OnLine:        true,
	}
}

type fakeTiming struct {
	TimingFn func() (domain.Performance, error)
}

func (f *fakeTiming) Timing() (domain.Performance, error) {
	if f.TimingFn != nil {
		return f.TimingFn()
	}
	load := 120.0
	return domain.Performance{LoadTime: &load}, nil
}

func sectionEvent(id string, at int64) domain.Event {
	return domain.Event{
		Payload:    domain.SectionView{SectionID: id},
		CapturedAt: at,
		SessionID:  "session_a",
		UserID:     "user_a",
	}
}
