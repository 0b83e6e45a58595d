package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"sportftv-backend/internal/middleware"
	"sportftv-backend/internal/models"
	"sportftv-backend/internal/services"
)

type stubSessions struct {
	loggedOut []uuid.UUID
}

func (s *stubSessions) Login(_ context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	if req.Email == "" {
		return nil, &services.ValidationError{Fields: map[string]string{"email": "Email is required"}}
	}
	return &models.AuthTokens{AccessToken: "token", ExpiresIn: 3600, User: models.User{Email: req.Email, LoggedIn: true}}, nil
}

func (s *stubSessions) DemoLogin(context.Context) (*models.AuthTokens, error) {
	return &models.AuthTokens{AccessToken: "demo", User: models.User{Email: services.DemoEmail, Name: services.DemoName, LoggedIn: true}}, nil
}

func (s *stubSessions) Logout(_ context.Context, id uuid.UUID) error {
	s.loggedOut = append(s.loggedOut, id)
	return nil
}

// ─── Auth Handler Tests ───

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"email":"ana@clube.com","password":"x"}`, http.StatusOK},
		{"validation error", `{"password":"x"}`, http.StatusBadRequest},
		{"malformed body", `{`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(&stubSessions{})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")

			rr := httptest.NewRecorder()
			h.Login(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestDemoHandler(t *testing.T) {
	h := NewAuthHandler(&stubSessions{})

	rr := httptest.NewRecorder()
	h.Demo(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/demo", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var tokens models.AuthTokens
	json.NewDecoder(rr.Body).Decode(&tokens)
	if tokens.User.Email != services.DemoEmail {
		t.Errorf("expected demo user, got %+v", tokens.User)
	}
}

func TestMeAndLogout_RequireSession(t *testing.T) {
	sessions := &stubSessions{}
	h := NewAuthHandler(sessions)

	rr := httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}

	session := &models.Session{ID: uuid.New(), User: models.User{Email: "ana@clube.com", Name: "ana", LoggedIn: true}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), session))
	rr = httptest.NewRecorder()
	h.Me(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var user models.User
	json.NewDecoder(rr.Body).Decode(&user)
	if user.Email != "ana@clube.com" {
		t.Errorf("expected session user, got %+v", user)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), session))
	rr = httptest.NewRecorder()
	h.Logout(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if len(sessions.loggedOut) != 1 || sessions.loggedOut[0] != session.ID {
		t.Errorf("expected session %s cleared, got %v", session.ID, sessions.loggedOut)
	}
}
