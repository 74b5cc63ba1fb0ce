package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestHealthHandlerReportsDatabase(t *testing.T) {
	e := echo.New()

	probe := func(p pinger) (int, map[string]string) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := healthHandler(p)(c); err != nil {
			t.Fatal(err)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		return rec.Code, body
	}

	code, body := probe(&fakePinger{})
	if code != http.StatusOK {
		t.Errorf("healthy status = %d, want 200", code)
	}
	if body["status"] != "ok" || body["database"] != "ok" {
		t.Errorf("healthy body = %v", body)
	}

	code, body = probe(&fakePinger{err: errors.New("connection refused")})
	if code != http.StatusServiceUnavailable {
		t.Errorf("degraded status = %d, want 503", code)
	}
	if body["status"] != "degraded" || body["database"] != "unreachable" {
		t.Errorf("degraded body = %v", body)
	}
}

func TestCommandTree(t *testing.T) {
	if got := serveCmd().Use; got != "serve" {
		t.Errorf("serve command use = %q", got)
	}

	subs := map[string]bool{}
	for _, c := range migrateCmd().Commands() {
		subs[c.Name()] = true
	}
	if !subs["up"] || !subs["status"] {
		t.Errorf("migrate subcommands = %v", subs)
	}

	imp := importCmd()
	if imp.Flags().Lookup("hospital") == nil || imp.Flags().Lookup("file") == nil {
		t.Error("import command missing flags")
	}

	foundCreate := false
	for _, c := range hospitalCmd().Commands() {
		if c.Name() == "create" {
			foundCreate = true
		}
	}
	if !foundCreate {
		t.Error("hospital create subcommand missing")
	}
}
