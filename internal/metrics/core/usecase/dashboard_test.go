package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	evdomain "portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/metrics/core/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventLog implements EventLogPort for tests.
type fakeEventLog struct {
	events  []evdomain.Event
	cleared int
}

func (f *fakeEventLog) ReadAll(ctx context.Context) []evdomain.Event {
	return append([]evdomain.Event(nil), f.events...)
}

func (f *fakeEventLog) Clear(ctx context.Context) {
	f.cleared++
	f.events = nil
}

func TestDashboard_SummaryEmpty(t *testing.T) {
	uc := usecase.NewDashboardUseCase(&fakeEventLog{}, time.UTC)
	assert.Nil(t, uc.Summary(context.Background()))
}

func TestDashboard_Summary(t *testing.T) {
	log := &fakeEventLog{events: []evdomain.Event{section("about", 0), section("about", 10)}}
	uc := usecase.NewDashboardUseCase(log, time.UTC)

	s := uc.Summary(context.Background())
	require.NotNil(t, s)
	assert.Equal(t, 2, s.TotalEvents)
	assert.Equal(t, "about", s.TopSections[0].Section)
}

func TestDashboard_ExportThenClearRoundTrip(t *testing.T) {
	ctx := context.Background()
	log := &fakeEventLog{events: []evdomain.Event{
		section("hero", 1),
		event(evdomain.NewInteraction("cta", "click", map[string]any{"variant": "b"}, "t"), "s1", "u1", 2),
	}}
	uc := usecase.NewDashboardUseCase(log, time.UTC)
	before := log.ReadAll(ctx)

	exp, err := uc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, exp.Events)

	uc.Clear(ctx)
	assert.Empty(t, log.ReadAll(ctx))
	assert.Equal(t, 1, log.cleared)

	var restored []evdomain.Event
	require.NoError(t, json.Unmarshal(exp.Content, &restored))
	assert.Equal(t, before, restored)
}

func TestDashboard_ExportEmptyLog(t *testing.T) {
	exp, err := usecase.NewDashboardUseCase(&fakeEventLog{}, time.UTC).Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(exp.Content))
	assert.Equal(t, 0, exp.Events)
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*60*60))
	assert.Equal(t, "analytics-2024-03-10.json", usecase.ExportFilename(at))
}
