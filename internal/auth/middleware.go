package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const sessionLocal = "auth_session"

// Authenticator resolves bearer tokens to sessions.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Session, error)
}

// RequirePermission rejects requests without a live session carrying perm.
func RequirePermission(a Authenticator, perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		sess, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, ErrSessionExpired) {
				code = "session_expired"
			}
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": code,
			})
		}

		if perm != "" && !sess.HasPermission(perm) {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{
				"error":      "forbidden",
				"permission": perm,
			})
		}

		c.Locals(sessionLocal, sess)
		return c.Next()
	}
}

// SessionFrom returns the session stored by RequirePermission.
func SessionFrom(c *fiber.Ctx) (Session, bool) {
	s, ok := c.Locals(sessionLocal).(Session)
	return s, ok
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
