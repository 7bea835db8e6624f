package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/user"
	"github.com/aquapolo/waterpolo-fantasy/internal/usecase"
)

type staticVerifier struct {
	principal user.Principal
	err       error
}

func (v staticVerifier) VerifyAccessToken(_ context.Context, _ string) (user.Principal, error) {
	return v.principal, v.err
}

func TestRequireAuth_InjectsPrincipal(t *testing.T) {
	verifier := staticVerifier{principal: user.Principal{UserID: "user-1", Username: "marko"}}
	var seen user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/team", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if seen.UserID != "user-1" || seen.Username != "marko" {
		t.Fatalf("unexpected principal: %+v", seen)
	}
}

func TestRequireAuth_RejectsMissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/team", nil)
	rec := httptest.NewRecorder()

	RequireAuth(staticVerifier{}, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_RejectsMalformedHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/team", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	RequireAuth(staticVerifier{}, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_PropagatesVerifierError(t *testing.T) {
	verifier := staticVerifier{err: fmt.Errorf("%w: token expired", usecase.ErrUnauthorized)}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/team", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAdminToken(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{name: "matching token", configured: "secret", provided: "secret", wantStatus: http.StatusOK},
		{name: "wrong token", configured: "secret", provided: "guess", wantStatus: http.StatusUnauthorized},
		{name: "missing token", configured: "secret", provided: "", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured", configured: "", provided: "secret", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/admin/players", nil)
			if tt.provided != "" {
				req.Header.Set("X-Admin-Token", tt.provided)
			}
			rec := httptest.NewRecorder()

			RequireAdminToken(tt.configured, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: got=%d want=%d", rec.Code, tt.wantStatus)
			}
		})
	}
}
