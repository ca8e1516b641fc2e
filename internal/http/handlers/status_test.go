package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/taskcheck/api/internal/http/handlers"
)

type statusBody struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
	Checks      struct {
		Database string `json:"database"`
		Redis    string `json:"redis"`
	} `json:"checks"`
}

func getStatus(t *testing.T, h *handlers.StatusHandler) (int, statusBody) {
	t.Helper()
	r := gin.New()
	r.GET("/api/status", h.Status)

	w := doJSON(r, http.MethodGet, "/api/status", "")
	var body statusBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return w.Code, body
}

func okPing(ctx context.Context) error   { return nil }
func downPing(ctx context.Context) error { return errors.New("connection refused") }

func TestStatusHealthy(t *testing.T) {
	h := handlers.NewStatusHandler("test", okPing, okPing)
	code, body := getStatus(t, h)

	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Status != "healthy" {
		t.Fatalf("status field = %q", body.Status)
	}
	if body.Checks.Database != "connected" || body.Checks.Redis != "connected" {
		t.Fatalf("checks = %+v", body.Checks)
	}
	if body.Environment != "test" {
		t.Fatalf("environment = %q", body.Environment)
	}
	if body.Service == "" || body.Version == "" || body.Timestamp == "" {
		t.Fatalf("identity fields missing: %+v", body)
	}
}

func TestStatusDatabaseDown(t *testing.T) {
	h := handlers.NewStatusHandler("test", downPing, okPing)
	code, body := getStatus(t, h)

	if code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", code)
	}
	if body.Status != "unhealthy" || body.Checks.Database != "error" {
		t.Fatalf("body = %+v", body)
	}
}

func TestStatusRedisDownIsNotFatal(t *testing.T) {
	h := handlers.NewStatusHandler("test", okPing, downPing)
	code, body := getStatus(t, h)

	if code != http.StatusOK {
		t.Fatalf("status = %d, redis outage must not fail the service", code)
	}
	if body.Status != "healthy" || body.Checks.Redis != "error" {
		t.Fatalf("body = %+v", body)
	}
}

func TestStatusRedisDisabled(t *testing.T) {
	h := handlers.NewStatusHandler("test", okPing, nil)
	code, body := getStatus(t, h)

	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Checks.Redis != "disabled" {
		t.Fatalf("redis check = %q", body.Checks.Redis)
	}
}

func TestStatusReportIsCached(t *testing.T) {
	calls := 0
	counting := func(ctx context.Context) error {
		calls++
		return nil
	}
	h := handlers.NewStatusHandler("test", counting, nil)

	getStatus(t, h)
	getStatus(t, h)

	if calls != 1 {
		t.Fatalf("db pinged %d times, want 1 within the cache window", calls)
	}
}
