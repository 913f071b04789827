package fiber

import (
	"errors"
	"fmt"

	"portfolio-analytics/internal/events/core/domain"
)

// ErrInvalidSignal is returned when a host signal is missing required
// fields.
var ErrInvalidSignal = errors.New("invalid signal")

// PageViewRequest reports a page load or client-side navigation.
// @Description Page view signal
type PageViewRequest struct {
	URL      string           `json:"url" example:"https://me.dev/"`
	Referrer string           `json:"referrer"`
	Viewport *domain.Viewport `json:"viewport"`
}

type SectionViewRequest struct {
	SectionID string `json:"sectionId" example:"projects"`
}

func (r SectionViewRequest) Validate() error {
	if r.SectionID == "" {
		return fmt.Errorf("%w: sectionId is required", ErrInvalidSignal)
	}
	return nil
}

type InteractionRequest struct {
	Element string         `json:"element" example:"project_card"`
	Action  string         `json:"action" example:"click"`
	Data    map[string]any `json:"data"`
}

func (r InteractionRequest) Validate() error {
	if r.Element == "" || r.Action == "" {
		return fmt.Errorf("%w: element and action are required", ErrInvalidSignal)
	}
	return nil
}

type CustomEventRequest struct {
	Name string         `json:"name" example:"resume_download"`
	Data map[string]any `json:"data"`
}

func (r CustomEventRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSignal)
	}
	return nil
}

type ScrollRequest struct {
	ScrollY        float64 `json:"scrollY" example:"420"`
	DocumentHeight float64 `json:"documentHeight" example:"3200"`
	ViewportHeight float64 `json:"viewportHeight" example:"800"`
}

func (r ScrollRequest) Validate() error {
	if r.ScrollY < 0 || r.DocumentHeight < 0 || r.ViewportHeight < 0 {
		return fmt.Errorf("%w: scroll values must not be negative", ErrInvalidSignal)
	}
	return nil
}

// VisibilityRequest reports a visibility change. Online, when present,
// carries the host's connectivity at that moment.
type VisibilityRequest struct {
	Hidden *bool `json:"hidden"`
	Online *bool `json:"online,omitempty"`
}

func (r VisibilityRequest) Validate() error {
	if r.Hidden == nil {
		return fmt.Errorf("%w: hidden is required", ErrInvalidSignal)
	}
	return nil
}

type ErrorRequest struct {
	Message  string `json:"message" example:"Cannot read properties of undefined"`
	Filename string `json:"filename"`
	Line     int    `json:"lineno"`
	Column   int    `json:"colno"`
	Stack    string `json:"stack"`
}

func (r ErrorRequest) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidSignal)
	}
	return nil
}

type RejectionRequest struct {
	Reason any `json:"reason"`
}

func (r RejectionRequest) Validate() error {
	if r.Reason == nil {
		return fmt.Errorf("%w: reason is required", ErrInvalidSignal)
	}
	return nil
}

// LoadRequest carries the host's navigation and paint timings.
type LoadRequest struct {
	LoadTime             *float64 `json:"loadTime"`
	DOMContentLoaded     *float64 `json:"domContentLoaded"`
	FirstPaint           *float64 `json:"firstPaint"`
	FirstContentfulPaint *float64 `json:"firstContentfulPaint"`
}

type ConsentRequest struct {
	Enabled *bool `json:"enabled"`
}

type ConsentResponse struct {
	Enabled bool `json:"enabled"`
}

type StatusResponse struct {
	Status string `json:"status" example:"accepted"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_signal"`
	Message string `json:"message" example:"sectionId is required"`
}
