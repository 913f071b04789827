package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type Handler struct {
	svc      *Service
	throttle *LoginThrottle
}

// NewHandler builds the auth routes. A nil throttle disables login rate
// limiting.
func NewHandler(svc *Service, throttle *LoginThrottle) *Handler {
	return &Handler{svc: svc, throttle: throttle}
}

// Register mounts login and an authenticated logout.
func (h *Handler) Register(r fiber.Router) {
	g := r.Group("/auth")
	g.Post("/login", h.Login)
	g.Post("/logout", RequirePermission(h.svc, ""), h.Logout)
}

// Login godoc
// @Summary Admin login
// @Description Opens a 24 hour dashboard session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	if h.throttle != nil && !h.throttle.Allow(c.IP()) {
		return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{
			"error": "too_many_attempts",
		})
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	sess, token, err := h.svc.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid_credentials",
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal_server_error",
		})
	}

	return c.Status(http.StatusOK).JSON(LoginResponse{
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
		User:      sess.User,
	})
}

// Logout godoc
// @Summary Admin logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(c *fiber.Ctx) error {
	if sess, ok := SessionFrom(c); ok {
		h.svc.Logout(c.UserContext(), sess.ID)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status": "logged_out",
	})
}
