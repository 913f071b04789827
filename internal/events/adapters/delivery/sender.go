package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/ports"

	"github.com/klauspost/compress/zstd"
)

const (
	// compressionThreshold is the minimum payload size to compress.
	compressionThreshold = 1024

	DefaultTimeout = 10 * time.Second
)

// ErrDeliveryFailed is returned when the collector answers with a non-2xx
// status.
var ErrDeliveryFailed = errors.New("delivery failed")

// HTTPSender posts delivery payloads to the remote collector and waits for
// the response.
type HTTPSender struct {
	url        string
	httpClient *http.Client
	encoder    *zstd.Encoder
}

var _ ports.SenderPort = (*HTTPSender)(nil)

// NewHTTPSender builds a sender for url. When compress is set, bodies of
// 1KB or more are zstd encoded.
func NewHTTPSender(url string, timeout time.Duration, compress bool) *HTTPSender {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &HTTPSender{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
	if compress {
		s.encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	}
	return s
}

func (s *HTTPSender) Send(ctx context.Context, p domain.DeliveryPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	var contentEncoding string
	if s.encoder != nil && len(payload) >= compressionThreshold {
		payload = s.encoder.EncodeAll(payload, make([]byte, 0, len(payload)/2))
		contentEncoding = "zstd"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if contentEncoding != "" {
		req.Header.Set("Content-Encoding", contentEncoding)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrDeliveryFailed, resp.StatusCode, string(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
