package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type fakeTracker struct {
	calls       []string
	lastPV      domain.PageView
	lastSection string
	lastElement string
	lastAction  string
	lastData    map[string]any
	lastScroll  usecase.ScrollPosition
	lastHidden  bool
	lastError   domain.ErrorReport
	lastReason  any
}

func (f *fakeTracker) TrackPageView(pv domain.PageView) {
	f.calls = append(f.calls, "page_view")
	f.lastPV = pv
}

func (f *fakeTracker) TrackSectionView(id string) {
	f.calls = append(f.calls, "section_view")
	f.lastSection = id
}

func (f *fakeTracker) TrackInteraction(element, action string, data map[string]any) {
	f.calls = append(f.calls, "interaction")
	f.lastElement, f.lastAction, f.lastData = element, action, data
}

func (f *fakeTracker) TrackCustom(name string, data map[string]any) {
	f.calls = append(f.calls, "custom:"+name)
	f.lastData = data
}

func (f *fakeTracker) Scrolled(pos usecase.ScrollPosition) {
	f.calls = append(f.calls, "scroll")
	f.lastScroll = pos
}

func (f *fakeTracker) VisibilityChanged(hidden bool) {
	f.calls = append(f.calls, "visibility")
	f.lastHidden = hidden
}

func (f *fakeTracker) TrackError(r domain.ErrorReport) {
	f.calls = append(f.calls, "error")
	f.lastError = r
}

func (f *fakeTracker) TrackRejection(reason any) {
	f.calls = append(f.calls, "rejection")
	f.lastReason = reason
}

func (f *fakeTracker) LoadComplete() {
	f.calls = append(f.calls, "load")
}

type fakeHost struct {
	url, referrer, ua string
	viewport          *domain.Viewport
	online            *bool
}

func (f *fakeHost) Navigate(url, referrer string, vp *domain.Viewport) {
	f.url, f.referrer, f.viewport = url, referrer, vp
}

func (f *fakeHost) SetUserAgent(ua string) { f.ua = ua }

func (f *fakeHost) SetOnline(online bool) { f.online = &online }

type fakeTiming struct {
	recorded []domain.Performance
}

func (f *fakeTiming) Record(p domain.Performance) bool {
	f.recorded = append(f.recorded, p)
	return len(f.recorded) == 1
}

type fakeConsent struct {
	enabled bool
}

func (f *fakeConsent) IsEnabled() bool             { return f.enabled }
func (f *fakeConsent) Enable(ctx context.Context)  { f.enabled = true }
func (f *fakeConsent) Disable(ctx context.Context) { f.enabled = false }

type fakePurger struct {
	PurgeFn func(ctx context.Context)
	purged  int
}

func (f *fakePurger) Purge(ctx context.Context) {
	f.purged++
	if f.PurgeFn != nil {
		f.PurgeFn(ctx)
	}
}

type testDeps struct {
	tracker *fakeTracker
	host    *fakeHost
	timing  *fakeTiming
	consent *fakeConsent
	purger  *fakePurger
}

// helper: create fiber app and routes
func setupTestApp() (*fiber.App, *testDeps) {
	d := &testDeps{
		tracker: &fakeTracker{},
		host:    &fakeHost{},
		timing:  &fakeTiming{},
		consent: &fakeConsent{enabled: true},
		purger:  &fakePurger{},
	}

	app := fiber.New()
	NewTrackHandler(d.tracker, d.host, d.timing).Register(app)
	NewConsentHandler(d.consent, d.purger).Register(app)
	return app, d
}

// helper: send request
func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		var b []byte
		if raw, ok := body.(string); ok {
			b = []byte(raw)
		} else {
			var err error
			b, err = json.Marshal(body)
			if err != nil {
				t.Fatalf("failed to marshal body: %v", err)
			}
		}
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPad; CPU OS 17_0)")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, resp.StatusCode, string(body))
	}
}

// ------------------------------------------------------------
// TRACKING
// ------------------------------------------------------------

func TestPageView_UpdatesHostAndTracks(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/page-view", PageViewRequest{
		URL:      "https://me.dev/#about",
		Referrer: "https://news.example/",
		Viewport: &domain.Viewport{Width: 820, Height: 1180},
	})
	expectStatus(t, resp, body, http.StatusAccepted)

	if d.host.url != "https://me.dev/#about" || d.host.referrer != "https://news.example/" {
		t.Fatalf("host not updated: %+v", d.host)
	}
	if d.host.ua != "Mozilla/5.0 (iPad; CPU OS 17_0)" {
		t.Fatalf("expected user agent from request, got %q", d.host.ua)
	}
	if len(d.tracker.calls) != 1 || d.tracker.calls[0] != "page_view" {
		t.Fatalf("unexpected tracker calls: %v", d.tracker.calls)
	}
}

func TestSectionView_Success(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/section-view", SectionViewRequest{SectionID: "skills"})
	expectStatus(t, resp, body, http.StatusAccepted)

	var respJSON StatusResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.Status != "accepted" {
		t.Errorf("expected status=accepted, got %v", respJSON.Status)
	}
	if d.tracker.lastSection != "skills" {
		t.Errorf("expected section skills, got %q", d.tracker.lastSection)
	}
}

func TestSectionView_MissingID(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/section-view", SectionViewRequest{})
	expectStatus(t, resp, body, http.StatusBadRequest)

	var respJSON ErrorResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.Error != "invalid_signal" {
		t.Errorf("expected invalid_signal, got %q", respJSON.Error)
	}
	if len(d.tracker.calls) != 0 {
		t.Errorf("tracker must not be called, got %v", d.tracker.calls)
	}
}

func TestInteraction_PassesData(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/interaction", InteractionRequest{
		Element: "contact_form",
		Action:  "submit",
		Data:    map[string]any{"fields": float64(3)},
	})
	expectStatus(t, resp, body, http.StatusAccepted)

	if d.tracker.lastElement != "contact_form" || d.tracker.lastAction != "submit" {
		t.Fatalf("unexpected interaction: %s/%s", d.tracker.lastElement, d.tracker.lastAction)
	}
	if d.tracker.lastData["fields"] != float64(3) {
		t.Fatalf("expected data to be forwarded, got %v", d.tracker.lastData)
	}
}

func TestInteraction_MissingAction(t *testing.T) {
	app, _ := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/interaction", InteractionRequest{Element: "cta"})
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestCustom_Success(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/custom", CustomEventRequest{Name: "theme_toggle"})
	expectStatus(t, resp, body, http.StatusAccepted)

	if d.tracker.calls[0] != "custom:theme_toggle" {
		t.Fatalf("unexpected calls: %v", d.tracker.calls)
	}
}

func TestScroll_Success(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/scroll", ScrollRequest{
		ScrollY: 300, DocumentHeight: 2000, ViewportHeight: 800,
	})
	expectStatus(t, resp, body, http.StatusAccepted)

	want := usecase.ScrollPosition{Y: 300, DocumentHeight: 2000, ViewportHeight: 800}
	if d.tracker.lastScroll != want {
		t.Fatalf("expected %+v, got %+v", want, d.tracker.lastScroll)
	}
}

func TestScroll_Negative(t *testing.T) {
	app, _ := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/scroll", ScrollRequest{ScrollY: -1})
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestVisibility_RequiresHidden(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/visibility", `{}`)
	expectStatus(t, resp, body, http.StatusBadRequest)

	resp, body = doRequest(t, app, http.MethodPost, "/track/visibility", `{"hidden":true}`)
	expectStatus(t, resp, body, http.StatusAccepted)
	if !d.tracker.lastHidden {
		t.Fatalf("expected hidden=true")
	}
	if d.host.online != nil {
		t.Fatalf("online must be left alone when not reported")
	}
}

func TestVisibility_ReportsConnectivity(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/visibility", `{"hidden":false,"online":false}`)
	expectStatus(t, resp, body, http.StatusAccepted)
	if d.host.online == nil || *d.host.online {
		t.Fatalf("expected host to be marked offline, got %v", d.host.online)
	}
}

func TestError_Success(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/error", ErrorRequest{
		Message: "x is undefined", Filename: "app.js", Line: 10, Column: 4,
	})
	expectStatus(t, resp, body, http.StatusAccepted)

	if d.tracker.lastError.Line != 10 || d.tracker.lastError.Filename != "app.js" {
		t.Fatalf("unexpected error report: %+v", d.tracker.lastError)
	}
}

func TestRejection_Success(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/rejection", `{"reason":"timeout"}`)
	expectStatus(t, resp, body, http.StatusAccepted)

	if d.tracker.lastReason != "timeout" {
		t.Fatalf("unexpected reason: %v", d.tracker.lastReason)
	}
}

func TestLoad_RecordsTimings(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/load", `{"loadTime":950.5,"firstPaint":120}`)
	expectStatus(t, resp, body, http.StatusAccepted)

	if len(d.timing.recorded) != 1 || *d.timing.recorded[0].LoadTime != 950.5 {
		t.Fatalf("unexpected timings: %+v", d.timing.recorded)
	}
	if d.timing.recorded[0].DOMContentLoaded != nil {
		t.Fatalf("missing timings must stay nil")
	}
	if d.tracker.calls[0] != "load" {
		t.Fatalf("expected LoadComplete, got %v", d.tracker.calls)
	}
}

func TestLoad_EmptyBody(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/load", nil)
	expectStatus(t, resp, body, http.StatusAccepted)

	if len(d.tracker.calls) != 1 {
		t.Fatalf("expected LoadComplete, got %v", d.tracker.calls)
	}
}

func TestTracking_InvalidJSON(t *testing.T) {
	app, _ := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPost, "/track/custom", `{"name":`)
	expectStatus(t, resp, body, http.StatusBadRequest)

	var respJSON ErrorResponse
	_ = json.Unmarshal(body, &respJSON)
	if respJSON.Error != "invalid_json" {
		t.Errorf("expected invalid_json, got %q", respJSON.Error)
	}
}

// ------------------------------------------------------------
// CONSENT
// ------------------------------------------------------------

func TestConsent_GetAndToggle(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodGet, "/consent", nil)
	expectStatus(t, resp, body, http.StatusOK)
	if string(body) != `{"enabled":true}` {
		t.Fatalf("unexpected body: %s", body)
	}

	resp, body = doRequest(t, app, http.MethodPut, "/consent", `{"enabled":false}`)
	expectStatus(t, resp, body, http.StatusOK)
	if d.consent.enabled {
		t.Fatalf("expected consent to be disabled")
	}
	if d.purger.purged != 0 {
		t.Fatalf("disabling must not purge data")
	}
}

func TestConsent_PutRequiresEnabled(t *testing.T) {
	app, _ := setupTestApp()

	resp, body := doRequest(t, app, http.MethodPut, "/consent", `{}`)
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestConsent_DeleteData(t *testing.T) {
	app, d := setupTestApp()

	resp, body := doRequest(t, app, http.MethodDelete, "/consent/data", nil)
	expectStatus(t, resp, body, http.StatusOK)

	if d.purger.purged != 1 {
		t.Fatalf("expected one purge, got %d", d.purger.purged)
	}
	if !d.consent.enabled {
		t.Fatalf("purge must not change consent")
	}
}
