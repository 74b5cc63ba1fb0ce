package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func withRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, UserRolesKey, roles)
}

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString(testKey)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (error, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return h(c), c
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	raw := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"clinician"},
	})

	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	err, c := runMiddleware(t, mw, "Bearer "+raw)
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	if got := UserIDFromContext(c.Request().Context()); got != "user-1" {
		t.Errorf("user id = %q, want user-1", got)
	}
	roles := RolesFromContext(c.Request().Context())
	if len(roles) != 1 || roles[0] != "clinician" {
		t.Errorf("roles = %v, want [clinician]", roles)
	}
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	err, _ := runMiddleware(t, mw, "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	raw := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	err, _ := runMiddleware(t, mw, "Bearer "+raw)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", err)
	}
}

func TestJWTMiddlewareRejectsWrongIssuer(t *testing.T) {
	raw := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	mw := JWTMiddleware(JWTConfig{SigningKey: testKey, Issuer: "riskboard-idp"})
	err, _ := runMiddleware(t, mw, "Bearer "+raw)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong issuer, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(roles []string, required ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		chain := DevAuthMiddleware()
		if roles != nil {
			chain = func(next echo.HandlerFunc) echo.HandlerFunc {
				return func(c echo.Context) error {
					ctx := c.Request().Context()
					c.SetRequest(c.Request().WithContext(withRoles(ctx, roles)))
					return next(c)
				}
			}
		}
		h := chain(RequireRole(required...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))
		return h(c)
	}

	if err := run([]string{"clinician"}, "clinician"); err != nil {
		t.Errorf("clinician should pass clinician check: %v", err)
	}
	if err := run([]string{"admin"}, "clinician"); err != nil {
		t.Errorf("admin should pass any check: %v", err)
	}
	if err := run([]string{"viewer"}, "clinician"); err == nil {
		t.Error("viewer should not pass clinician check")
	}
	if err := run(nil, "clinician"); err != nil {
		t.Errorf("dev auth should pass: %v", err)
	}
}
