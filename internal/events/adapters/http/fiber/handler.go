package fiber

import (
	"context"
	"errors"
	"net/http"

	"portfolio-analytics/internal/events/core/domain"
	"portfolio-analytics/internal/events/core/usecase"

	"github.com/gofiber/fiber/v2"
)

// SignalTracker is the part of the tracker driven by host signals.
type SignalTracker interface {
	TrackPageView(pv domain.PageView)
	TrackSectionView(sectionID string)
	TrackInteraction(element, action string, data map[string]any)
	TrackCustom(name string, data map[string]any)
	Scrolled(pos usecase.ScrollPosition)
	VisibilityChanged(hidden bool)
	TrackError(r domain.ErrorReport)
	TrackRejection(reason any)
	LoadComplete()
}

// PageHost follows the page the host is currently showing.
type PageHost interface {
	Navigate(url, referrer string, viewport *domain.Viewport)
	SetUserAgent(ua string)
	SetOnline(online bool)
}

type TimingRecorder interface {
	Record(p domain.Performance) bool
}

// TrackHandler bridges host signals into the event sources.
type TrackHandler struct {
	tracker SignalTracker
	host    PageHost
	timing  TimingRecorder
}

func NewTrackHandler(tracker SignalTracker, host PageHost, timing TimingRecorder) *TrackHandler {
	return &TrackHandler{tracker: tracker, host: host, timing: timing}
}

func (h *TrackHandler) Register(r fiber.Router) {
	g := r.Group("/track")
	g.Post("/page-view", h.PageView)
	g.Post("/section-view", h.SectionView)
	g.Post("/interaction", h.Interaction)
	g.Post("/custom", h.Custom)
	g.Post("/scroll", h.Scroll)
	g.Post("/visibility", h.Visibility)
	g.Post("/error", h.Error)
	g.Post("/rejection", h.Rejection)
	g.Post("/load", h.Load)
}

type validator interface {
	Validate() error
}

// parse decodes the body into req and validates it. It writes the error
// response itself and reports whether the handler should continue.
func parse(c *fiber.Ctx, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}
	if v, ok := req.(validator); ok {
		if err := v.Validate(); err != nil {
			return false, writeError(c, err)
		}
	}
	return true, nil
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidSignal):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_signal",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func accepted(c *fiber.Ctx) error {
	return c.Status(http.StatusAccepted).JSON(StatusResponse{Status: "accepted"})
}

// PageView godoc
// @Summary Record a page view
// @Description Updates the current page context and records a page view
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body PageViewRequest true "Page view"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/page-view [post]
func (h *TrackHandler) PageView(c *fiber.Ctx) error {
	var req PageViewRequest
	if ok, err := parse(c, &req); !ok {
		return err
	}

	h.host.Navigate(req.URL, req.Referrer, req.Viewport)
	h.host.SetUserAgent(c.Get(fiber.HeaderUserAgent))
	h.tracker.TrackPageView(domain.PageView{})
	return accepted(c)
}

// SectionView godoc
// @Summary Record a section view
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body SectionViewRequest true "Section"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/section-view [post]
func (h *TrackHandler) SectionView(c *fiber.Ctx) error {
	var req SectionViewRequest
	if ok, err := parse(c, &req); !ok {
		return err
	}
	h.tracker.TrackSectionView(req.SectionID)
	return accepted(c)
}

// Interaction godoc
// @Summary Record a user interaction
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body InteractionRequest true "Interaction"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/interaction [post]
func (h *TrackHandler) Interaction(c *fiber.Ctx) error {
	var req InteractionRequest
	if ok, err := parse(c, &req); !ok {
		return err
	}
	h.tracker.TrackInteraction(req.Element, req.Action, req.Data)
	return accepted(c)
}

// Custom godoc
// @Summary Record a custom event
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body CustomEventRequest true "Custom event"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/custom [post]
func (h *TrackHandler) Custom(c *fiber.Ctx) error {
	var req CustomEventRequest
	if ok, err := parse(c, &req); !ok {
		return err
	}
	h.tracker.TrackCustom(req.Name, req.Data)
	return accepted(c)
}

// Scroll godoc
// @Summary Report a scroll position
// @Description Positions are debounced; only the last one in a quiet period is recorded
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body ScrollRequest true "Scroll position"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/scroll [post]
func (h *TrackHandler) Scroll(c *fiber.Ctx) error {
	var req ScrollRequest
	if ok, err := parse(c, &req); !ok {
		return err
	}
	h.tracker.Scrolled(usecase.ScrollPosition{
		Y:              req.ScrollY,
		DocumentHeight: req.DocumentHeight,
		ViewportHeight: req.ViewportHeight,
	})
	return accepted(c)
}

// Visibility godoc
// @Summary Report a visibility change
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body VisibilityRequest true "Visibility"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/visibility [post]
func (h *TrackHandler) Visibility(c *fiber.Ctx) error {
	var req VisibilityRequest
	if ok, err := parse(c, &req); !ok {
		return err
	}
	if req.Online != nil {
		h.host.SetOnline(*req.Online)
	}
	h.tracker.VisibilityChanged(*req.Hidden)
	return accepted(c)
}

// Error godoc
// @Summary Report an uncaught error
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body ErrorRequest true "Error"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/error [post]
func (h *TrackHandler) Error(c *fiber.Ctx) error {
	var req ErrorRequest
	if ok, err := parse(c, &req); !ok {
		return err
	}
	h.tracker.TrackError(domain.ErrorReport{
		Message:  req.Message,
		Filename: req.Filename,
		Line:     req.Line,
		Column:   req.Column,
		Stack:    req.Stack,
	})
	return accepted(c)
}

// Rejection godoc
// @Summary Report an unhandled rejection
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body RejectionRequest true "Rejection"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/rejection [post]
func (h *TrackHandler) Rejection(c *fiber.Ctx) error {
	var req RejectionRequest
	if ok, err := parse(c, &req); !ok {
		return err
	}
	h.tracker.TrackRejection(req.Reason)
	return accepted(c)
}

// Load godoc
// @Summary Report load completion
// @Description Stores the timings and schedules the one performance sample
// @Tags Tracking
// @Accept json
// @Produce json
// @Param request body LoadRequest false "Timings"
// @Success 202 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /track/load [post]
func (h *TrackHandler) Load(c *fiber.Ctx) error {
	var req LoadRequest
	if len(c.Body()) > 0 {
		if ok, err := parse(c, &req); !ok {
			return err
		}
	}
	h.timing.Record(domain.Performance{
		LoadTime:             req.LoadTime,
		DOMContentLoaded:     req.DOMContentLoaded,
		FirstPaint:           req.FirstPaint,
		FirstContentfulPaint: req.FirstContentfulPaint,
	})
	h.tracker.LoadComplete()
	return accepted(c)
}

// ------------------------------------------------------------
// CONSENT
// ------------------------------------------------------------

type ConsentController interface {
	IsEnabled() bool
	Enable(ctx context.Context)
	Disable(ctx context.Context)
}

type Purger interface {
	Purge(ctx context.Context)
}

type ConsentHandler struct {
	consent ConsentController
	purger  Purger
}

func NewConsentHandler(consent ConsentController, purger Purger) *ConsentHandler {
	return &ConsentHandler{consent: consent, purger: purger}
}

func (h *ConsentHandler) Register(r fiber.Router) {
	r.Get("/consent", h.Get)
	r.Put("/consent", h.Put)
	r.Delete("/consent/data", h.DeleteData)
}

// Get godoc
// @Summary Read the analytics consent state
// @Tags Consent
// @Produce json
// @Success 200 {object} ConsentResponse
// @Router /consent [get]
func (h *ConsentHandler) Get(c *fiber.Ctx) error {
	return c.JSON(ConsentResponse{Enabled: h.consent.IsEnabled()})
}

// Put godoc
// @Summary Enable or disable analytics
// @Description Disabling stops capture; already collected data is kept
// @Tags Consent
// @Accept json
// @Produce json
// @Param request body ConsentRequest true "Consent"
// @Success 200 {object} ConsentResponse
// @Failure 400 {object} ErrorResponse
// @Router /consent [put]
func (h *ConsentHandler) Put(c *fiber.Ctx) error {
	var req ConsentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}
	if req.Enabled == nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_consent",
			Message: "enabled is required",
		})
	}

	if *req.Enabled {
		h.consent.Enable(c.UserContext())
	} else {
		h.consent.Disable(c.UserContext())
	}
	return c.JSON(ConsentResponse{Enabled: h.consent.IsEnabled()})
}

// DeleteData godoc
// @Summary Delete collected analytics data
// @Description Drops buffered and locally stored events. Consent is unchanged
// @Tags Consent
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /consent/data [delete]
func (h *ConsentHandler) DeleteData(c *fiber.Ctx) error {
	h.purger.Purge(c.UserContext())
	return c.JSON(StatusResponse{Status: "purged"})
}
