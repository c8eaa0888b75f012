package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/domain"
)

type stubVerifier struct {
	identity *domain.Identity
	err      error
}

func (s *stubVerifier) Verify(token string) (*domain.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		verifier   *stubVerifier
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "missing header",
			authHeader: "",
			verifier:   &stubVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not bearer",
			authHeader: "Basic dXNlcjpwYXNz",
			verifier:   &stubVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			authHeader: "Bearer ",
			verifier:   &stubVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			verifier:   &stubVerifier{err: domain.ErrTokenInvalid},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer expired-token",
			verifier:   &stubVerifier{err: domain.ErrTokenExpired},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			verifier:   &stubVerifier{identity: &domain.Identity{UserID: "u1", Role: domain.RoleStudent}},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotIdentity *domain.Identity
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotIdentity, _ = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest(http.MethodGet, "/registrations", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			RequireAuth(tt.verifier, discardLogger())(next)(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if nextCalled != tt.wantNext {
				t.Fatalf("expected next called %v, got %v", tt.wantNext, nextCalled)
			}
			if tt.wantNext {
				if gotIdentity == nil || gotIdentity.UserID != "u1" {
					t.Errorf("expected identity in context, got %+v", gotIdentity)
				}
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		identity   *domain.Identity
		required   domain.Role
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "no identity",
			identity:   nil,
			required:   domain.RoleAdmin,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "student hits admin route",
			identity:   &domain.Identity{UserID: "u1", Role: domain.RoleStudent},
			required:   domain.RoleAdmin,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin hits student route",
			identity:   &domain.Identity{UserID: "a1", Role: domain.RoleAdmin},
			required:   domain.RoleStudent,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "matching role",
			identity:   &domain.Identity{UserID: "a1", Role: domain.RoleAdmin},
			required:   domain.RoleAdmin,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}

			req := httptest.NewRequest(http.MethodGet, "/registrations", nil)
			if tt.identity != nil {
				req = req.WithContext(SetIdentity(req.Context(), tt.identity))
			}
			w := httptest.NewRecorder()

			RequireRole(tt.required)(next)(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if nextCalled != tt.wantNext {
				t.Fatalf("expected next called %v, got %v", tt.wantNext, nextCalled)
			}
		})
	}
}
