package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_DecodeDispatchesOnType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{"page view", `{"type":"page_view","data":{"url":"/"},"timestamp":1,"sessionId":"s","userId":"u"}`, KindPageView},
		{"section view", `{"type":"section_view","data":{"sectionId":"about"},"timestamp":1}`, KindSectionView},
		{"interaction", `{"type":"interaction","data":{"element":"cta"},"timestamp":1}`, KindInteraction},
		{"performance", `{"type":"performance","data":{"loadTime":12.5},"timestamp":1}`, KindPerformance},
		{"error", `{"type":"error","data":{"message":"boom"},"timestamp":1}`, KindError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var e Event
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &e))
			assert.Equal(t, tc.want, e.Kind())
			assert.Equal(t, int64(1), e.CapturedAt)
		})
	}
}

func TestEvent_UnknownKind(t *testing.T) {
	var e Event
	err := json.Unmarshal([]byte(`{"type":"heatmap","data":{}}`), &e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestEvent_RoundTripKeepsValuePayload(t *testing.T) {
	load := 812.0
	in := Event{
		Payload:    Performance{LoadTime: &load},
		CapturedAt: 1_700_000_000_000,
		SessionID:  "session_x",
		UserID:     "user_x",
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"performance"`)
	assert.Contains(t, string(b), `"firstPaint":null`)

	var out Event
	require.NoError(t, json.Unmarshal(b, &out))
	perf, ok := out.Payload.(Performance)
	require.True(t, ok)
	assert.Equal(t, 812.0, *perf.LoadTime)
	assert.Equal(t, "session_x", out.SessionID)
}

func TestEvent_MarshalWithoutPayload(t *testing.T) {
	_, err := json.Marshal(Event{})
	assert.Error(t, err)
}

func TestInteraction_ExtraIsFlattened(t *testing.T) {
	in := NewInteraction("project_card", "open", map[string]any{
		"project": "chatbot",
		"element": "ignored",
	}, "2024-01-01T00:00:00.000Z")

	b, err := json.Marshal(in)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(b, &flat))
	assert.Equal(t, "project_card", flat["element"])
	assert.Equal(t, "chatbot", flat["project"])
	assert.NotContains(t, flat, "Extra")

	var back Interaction
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "open", back.Action)
	assert.Equal(t, map[string]any{"project": "chatbot"}, back.Extra)
}

func TestInteraction_ScrollFields(t *testing.T) {
	var in Interaction
	require.NoError(t, json.Unmarshal([]byte(`{"type":"scroll","scrollPercent":42,"scrollY":380.5}`), &in))
	require.NotNil(t, in.ScrollPercent)
	assert.Equal(t, 42, *in.ScrollPercent)
	assert.Equal(t, 380.5, *in.ScrollY)
	assert.Nil(t, in.Extra)
}
