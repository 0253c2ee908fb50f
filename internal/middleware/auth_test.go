package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			Auth(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthRejectsWrongSigningKey(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	token := signToken(t, "a-different-secret", jwt.MapClaims{
		"user_id": "u1", "email": "ops@example.com", "role": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthPutsClaimsInContext(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u1", "email": "ops@example.com", "role": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	var got UserClaims
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUserFromContext(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ok {
		t.Fatal("claims not found in context")
	}
	if got.UserID != "u1" || got.Email != "ops@example.com" || got.Role != "operator" {
		t.Fatalf("unexpected claims: %+v", got)
	}
}

func TestRequireRoleGatesByRole(t *testing.T) {
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	run := func(claims *UserClaims) int {
		req := httptest.NewRequest(http.MethodDelete, "/api/vessels/v1", nil)
		if claims != nil {
			req = req.WithContext(context.WithValue(req.Context(), UserContextKey, *claims))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := run(nil); code != http.StatusUnauthorized {
		t.Fatalf("no claims: expected 401, got %d", code)
	}
	if code := run(&UserClaims{UserID: "u1", Role: "operator"}); code != http.StatusForbidden {
		t.Fatalf("operator: expected 403, got %d", code)
	}
	if code := run(&UserClaims{UserID: "u2", Role: "admin"}); code != http.StatusNoContent {
		t.Fatalf("admin: expected 204, got %d", code)
	}
}
