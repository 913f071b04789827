package delivery

import (
	"encoding/json"
	"sync"
	"time"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/ports"
	"portfolio-analytics/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MaxBeaconBytes mirrors the body limit hosts place on teardown beacons.
const MaxBeaconBytes = 64 * 1024

// Beacon queues a payload for transmission and returns immediately. The
// caller never learns the outcome.
type Beacon struct {
	url     string
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ ports.BeaconPort = (*Beacon)(nil)

func NewBeacon(url string, timeout time.Duration) *Beacon {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Beacon{url: url, timeout: timeout}
}

// Dispatch reports whether the payload was queued. Oversized or
// unencodable payloads are refused.
func (b *Beacon) Dispatch(p domain.DeliveryPayload) bool {
	body, err := json.Marshal(p)
	if err != nil {
		logger.L().Warn("beacon payload not encodable", zap.Error(err))
		return false
	}
	if len(body) > MaxBeaconBytes {
		logger.L().Warn("beacon payload too large", zap.Int("bytes", len(body)))
		return false
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.post(body)
	}()
	return true
}

func (b *Beacon) post(body []byte) {
	agent := fiber.Post(b.url)
	agent.Body(body)
	agent.ContentType(fiber.MIMEApplicationJSON)
	agent.Timeout(b.timeout)

	if err := agent.Parse(); err != nil {
		logger.L().Debug("beacon request invalid", zap.Error(err))
		return
	}
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		logger.L().Debug("beacon send failed", zap.Errors("errors", errs))
		return
	}
	logger.L().Debug("beacon delivered", zap.Int("status", code))
}

// Wait blocks until queued beacons have left or timeout elapses.
func (b *Beacon) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
