package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"portfolio-analytics/internal/config"
	"portfolio-analytics/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PermRead   = "analytics:read"
	PermExport = "analytics:export"
	PermManage = "analytics:manage"

	DefaultSessionTTL = 24 * time.Hour

	issuer = "portfolio-analytics"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
)

type User struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// Session is an authenticated admin with an absolute expiry.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) HasPermission(p string) bool {
	return slices.Contains(s.User.Permissions, p)
}

type claims struct {
	jwt.RegisteredClaims
}

// Service authenticates the single configured admin and tracks sessions in
// memory.
type Service struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

func NewService(cfg config.AdminConfig) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		username: cfg.Username,
		password: cfg.Password,
		secret:   []byte(cfg.SessionSecret),
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// Login checks the credentials and opens a session. The returned token
// identifies the session and is signed with the session secret.
func (s *Service) Login(ctx context.Context, username, password string) (Session, string, error) {
	if s.username == "" || !equal(username, s.username) || !equal(password, s.password) {
		logger.L().Warn("admin login rejected", zap.String("username", username))
		return Session{}, "", ErrInvalidCredentials
	}

	now := s.now()
	sess := Session{
		ID: uuid.NewString(),
		User: User{
			ID:          "1",
			Username:    s.username,
			Role:        "admin",
			Permissions: []string{PermRead, PermExport, PermManage},
		},
		ExpiresAt: now.Add(s.ttl),
	}

	token, err := s.sign(sess, now)
	if err != nil {
		return Session{}, "", err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	logger.L().Info("admin logged in", zap.String("session_id", sess.ID))
	return sess, token, nil
}

func (s *Service) Logout(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Get returns the session. An expired session is removed and reported as
// ErrSessionExpired.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return Session{}, ErrSessionExpired
	}
	return sess, nil
}

// Authenticate resolves a signed token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// keep the session map in step with the token
			s.Logout(ctx, c.ID)
			return Session{}, ErrSessionExpired
		}
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || c.ID == "" {
		return Session{}, ErrInvalidToken
	}
	return s.Get(ctx, c.ID)
}

func (s *Service) sign(sess Session, now time.Time) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.User.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
