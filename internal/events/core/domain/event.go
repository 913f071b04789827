package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

type Kind string

const (
	KindPageView    Kind = "page_view"
	KindSectionView Kind = "section_view"
	KindInteraction Kind = "interaction"
	KindPerformance Kind = "performance"
	KindError       Kind = "error"
)

var ErrUnknownKind = errors.New("unknown event kind")

// Payload is the kind-specific body of an Event. Exactly one concrete type
// exists per Kind.
type Payload interface {
	Kind() Kind
}

// Event is a single captured occurrence. Values are never mutated once
// appended to a buffer.
type Event struct {
	Payload    Payload
	CapturedAt int64 // unix millis
	SessionID  string
	UserID     string
}

func (e Event) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

type wireEvent struct {
	Type      Kind            `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	SessionID string          `json:"sessionId"`
	UserID    string          `json:"userId"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("marshal event: %w", ErrUnknownKind)
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireEvent{
		Type:      e.Payload.Kind(),
		Data:      data,
		Timestamp: e.CapturedAt,
		SessionID: e.SessionID,
		UserID:    e.UserID,
	})
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var p Payload
	switch w.Type {
	case KindPageView:
		p = &PageView{}
	case KindSectionView:
		p = &SectionView{}
	case KindInteraction:
		p = &Interaction{}
	case KindPerformance:
		p = &Performance{}
	case KindError:
		p = &ErrorReport{}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, w.Type)
	}

	if len(w.Data) > 0 && string(w.Data) != "null" {
		if err := json.Unmarshal(w.Data, p); err != nil {
			return fmt.Errorf("decode %s payload: %w", w.Type, err)
		}
	}

	*e = Event{
		Payload:    deref(p),
		CapturedAt: w.Timestamp,
		SessionID:  w.SessionID,
		UserID:     w.UserID,
	}
	return nil
}

// deref stores payloads by value so a decoded Event matches a captured one.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *PageView:
		return *v
	case *SectionView:
		return *v
	case *Interaction:
		return *v
	case *Performance:
		return *v
	case *ErrorReport:
		return *v
	}
	return p
}

type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type PageView struct {
	URL       string    `json:"url"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Viewport  *Viewport `json:"viewport,omitempty"`
	Timestamp string    `json:"timestamp"`
}

func (PageView) Kind() Kind { return KindPageView }

type SectionView struct {
	SectionID string `json:"sectionId"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url,omitempty"`
}

func (SectionView) Kind() Kind { return KindSectionView }

// Performance timings in milliseconds; nil when the host could not measure.
type Performance struct {
	LoadTime             *float64 `json:"loadTime"`
	DOMContentLoaded     *float64 `json:"domContentLoaded"`
	FirstPaint           *float64 `json:"firstPaint"`
	FirstContentfulPaint *float64 `json:"firstContentfulPaint"`
}

func (Performance) Kind() Kind { return KindPerformance }

const RejectionType = "unhandled_promise_rejection"

type ErrorReport struct {
	Type     string `json:"type,omitempty"`
	Message  string `json:"message,omitempty"`
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"lineno,omitempty"`
	Column   int    `json:"colno,omitempty"`
	Stack    string `json:"stack,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

func (ErrorReport) Kind() Kind { return KindError }

const (
	InteractionVisibility = "visibility_change"
	InteractionScroll     = "scroll"
)

// Interaction is the one open-ended kind: caller supplied fields live in
// Extra and are flattened next to the known fields on the wire.
type Interaction struct {
	Type          string
	Element       string
	Action        string
	Hidden        *bool
	ScrollPercent *int
	ScrollY       *float64
	Timestamp     string
	Extra         map[string]any
}

func (Interaction) Kind() Kind { return KindInteraction }

// NewInteraction copies extra so later caller mutation cannot reach a
// buffered event.
func NewInteraction(element, action string, extra map[string]any, timestamp string) Interaction {
	return Interaction{
		Element:   element,
		Action:    action,
		Timestamp: timestamp,
		Extra:     maps.Clone(extra),
	}
}

func (i Interaction) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(i.Extra)+7)
	maps.Copy(m, i.Extra)
	if i.Type != "" {
		m["type"] = i.Type
	}
	if i.Element != "" {
		m["element"] = i.Element
	}
	if i.Action != "" {
		m["action"] = i.Action
	}
	if i.Hidden != nil {
		m["hidden"] = *i.Hidden
	}
	if i.ScrollPercent != nil {
		m["scrollPercent"] = *i.ScrollPercent
	}
	if i.ScrollY != nil {
		m["scrollY"] = *i.ScrollY
	}
	if i.Timestamp != "" {
		m["timestamp"] = i.Timestamp
	}
	return json.Marshal(m)
}

func (i *Interaction) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	var out Interaction
	fields := []struct {
		key string
		dst any
	}{
		{"type", &out.Type},
		{"element", &out.Element},
		{"action", &out.Action},
		{"timestamp", &out.Timestamp},
	}
	for _, f := range fields {
		if raw, ok := m[f.key]; ok {
			if err := json.Unmarshal(raw, f.dst); err != nil {
				return fmt.Errorf("interaction %s: %w", f.key, err)
			}
			delete(m, f.key)
		}
	}
	if raw, ok := m["hidden"]; ok {
		var v bool
		if err := json.Unmarshal(raw, &v); err == nil {
			out.Hidden = &v
			delete(m, "hidden")
		}
	}
	if raw, ok := m["scrollPercent"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err == nil {
			out.ScrollPercent = &v
			delete(m, "scrollPercent")
		}
	}
	if raw, ok := m["scrollY"]; ok {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil {
			out.ScrollY = &v
			delete(m, "scrollY")
		}
	}

	if len(m) > 0 {
		out.Extra = make(map[string]any, len(m))
		for k, raw := range m {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("interaction %s: %w", k, err)
			}
			out.Extra[k] = v
		}
	}

	*i = out
	return nil
}
