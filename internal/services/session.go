package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sportftv-backend/internal/middleware"
	"sportftv-backend/internal/models"
)

const (
	DemoEmail = "demo@sportftv.com"
	DemoName  = "Usuário Demo"

	sessionKeyPrefix = "session:"
)

// sessionCache is the subset of *redis.Client sessions need.
type sessionCache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionService owns the signed-in user. Nothing about the user is
// persisted beyond the session's TTL.
type SessionService struct {
	cache  sessionCache
	jwt    *middleware.JWTAuth
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewSessionService(cache sessionCache, jwt *middleware.JWTAuth, ttl time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{
		cache:  cache,
		jwt:    jwt,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Login accepts any well-formed credentials. The display name is the local
// part of the email.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	email := strings.TrimSpace(req.Email)
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "Email is required"
	} else if !strings.Contains(email, "@") {
		fields["email"] = "Invalid email format"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	name, _, _ := strings.Cut(email, "@")
	return s.start(ctx, models.User{Email: email, Name: name, LoggedIn: true})
}

func (s *SessionService) DemoLogin(ctx context.Context) (*models.AuthTokens, error) {
	return s.start(ctx, models.User{Email: DemoEmail, Name: DemoName, LoggedIn: true})
}

func (s *SessionService) start(ctx context.Context, user models.User) (*models.AuthTokens, error) {
	now := s.now()
	session := models.Session{
		ID:        uuid.New(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+session.ID.String(), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	token, err := s.jwt.GenerateAccessToken(session.ID, user.Email, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("session started", "session_id", session.ID, "email", user.Email)
	return &models.AuthTokens{
		AccessToken: token,
		ExpiresIn:   int(s.ttl.Seconds()),
		User:        user,
	}, nil
}

func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &UnauthorizedError{Message: "Session not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Logout clears the session. Clearing an already cleared session is not an
// error.
func (s *SessionService) Logout(ctx context.Context, id uuid.UUID) error {
	if err := s.cache.Del(ctx, sessionKeyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("session cleared", "session_id", id)
	return nil
}
