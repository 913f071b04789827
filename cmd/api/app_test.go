package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-analytics/internal/auth"
	"portfolio-analytics/internal/config"
	"portfolio-analytics/internal/events/adapters/environment"
	eventsHttp "portfolio-analytics/internal/events/adapters/http/fiber"
	"portfolio-analytics/internal/events/adapters/memory"
	"portfolio-analytics/internal/events/core/domain"
	eventsUsecase "portfolio-analytics/internal/events/core/usecase"
	metricsHttp "portfolio-analytics/internal/metrics/adapters/http/fiber"
	metricsUsecase "portfolio-analytics/internal/metrics/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSender struct{}

func (nopSender) Send(context.Context, domain.DeliveryPayload) error { return nil }

type nopBeacon struct{}

func (nopBeacon) Dispatch(domain.DeliveryPayload) bool { return true }

func newTestApp(t *testing.T, rateLimit int) (*fiber.App, *eventsUsecase.Collector) {
	t.Helper()
	ctx := context.Background()
	host := environment.NewHost(config.SiteConfig{URL: "https://me.dev/", Width: 1280, Height: 800})
	timing := environment.NewTimingRecorder()
	collector := eventsUsecase.NewCollector(ctx, memory.NewStore(), host, timing, nopSender{}, nopBeacon{}, eventsUsecase.Options{
		FlushInterval: time.Hour,
	})
	t.Cleanup(func() { collector.Stop(ctx) })

	app := newApp(appDeps{
		track:     eventsHttp.NewTrackHandler(collector.Tracker, host, timing),
		consent:   eventsHttp.NewConsentHandler(collector.Consent, collector),
		dashboard: metricsHttp.NewDashboardHandler(metricsUsecase.NewDashboardUseCase(collector.Store, time.UTC)),
		auth: auth.NewService(config.AdminConfig{
			Username: "admin", Password: "pw", SessionSecret: "secret",
		}),
		rateLimitPerMinute: rateLimit,
	})
	return app, collector
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, string(b)
}

func TestApp_TrackFlushAndSummarize(t *testing.T) {
	ctx := context.Background()
	app, collector := newTestApp(t, 0)

	resp, _ := call(t, app, http.MethodPost, "/track/section-view", "", `{"sectionId":"projects"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	collector.Scheduler.Flush(ctx)

	resp, body := call(t, app, http.MethodGet, "/dashboard/summary", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal([]byte(body), &login))

	resp, body = call(t, app, http.MethodGet, "/dashboard/summary", login.Token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"section":"projects"`)

	resp, _ = call(t, app, http.MethodDelete, "/dashboard/events", login.Token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = call(t, app, http.MethodGet, "/dashboard/summary", login.Token, "")
	assert.JSONEq(t, `{"status":"empty"}`, body)
}

func TestApp_ConsentDisablesTracking(t *testing.T) {
	app, collector := newTestApp(t, 0)

	resp, _ := call(t, app, http.MethodPut, "/consent", "", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	call(t, app, http.MethodPost, "/track/interaction", "", `{"element":"cta","action":"click"}`)
	assert.Equal(t, 0, collector.Buffer.Len())
}

func TestApp_RateLimitAppliesToSignalsOnly(t *testing.T) {
	app, _ := newTestApp(t, 1)

	resp, _ := call(t, app, http.MethodGet, "/consent", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, http.MethodGet, "/consent", "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
