package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestIDGenerated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		rid, _ := c.Get("request_id").(string)
		if rid == "" {
			t.Error("request_id not set on context")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set on response")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		if rid, _ := c.Get("request_id").(string); rid != "req-123" {
			t.Errorf("request_id = %q, want req-123", rid)
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatal(err)
	}
}

func TestLoggerLevelsFollowOutcome(t *testing.T) {
	e := echo.New()

	run := func(handler echo.HandlerFunc) string {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/hospitals?limit=5", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("request_id", "req-7")
		_ = Logger(logger)(handler)(c)
		return buf.String()
	}

	ok := run(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if !strings.Contains(ok, `"level":"info"`) {
		t.Errorf("successful request not logged at info: %s", ok)
	}
	for _, field := range []string{`"request_id":"req-7"`, `"path":"/api/v1/hospitals"`, `"query":"limit=5"`, `"bytes_out"`} {
		if !strings.Contains(ok, field) {
			t.Errorf("log line missing %s: %s", field, ok)
		}
	}

	clientErr := run(func(c echo.Context) error { return c.NoContent(http.StatusNotFound) })
	if !strings.Contains(clientErr, `"level":"warn"`) {
		t.Errorf("404 not logged at warn: %s", clientErr)
	}

	failed := run(func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })
	if !strings.Contains(failed, `"level":"error"`) {
		t.Errorf("failed handler not logged at error: %s", failed)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	h := Recovery(logger)(func(c echo.Context) error {
		panic("boom")
	})

	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", httpErr.Code)
	}
}
