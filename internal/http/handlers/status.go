package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskcheck/api/internal/cache"
	"github.com/taskcheck/api/internal/config"
)

type PingFunc func(ctx context.Context) error

type statusChecks struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

type statusReport struct {
	Status      string       `json:"status"`
	Timestamp   string       `json:"timestamp"`
	Service     string       `json:"service"`
	Version     string       `json:"version"`
	Environment string       `json:"environment"`
	Checks      statusChecks `json:"checks"`
}

// StatusHandler reports downstream connectivity. A database outage is
// the service being unhealthy (503); a redis outage only degrades rate
// limiting and is reported without failing the check.
type StatusHandler struct {
	env       string
	dbPing    PingFunc
	redisPing PingFunc
	snap      *cache.Snapshot[statusReport]
}

func NewStatusHandler(env string, dbPing, redisPing PingFunc) *StatusHandler {
	return &StatusHandler{
		env:       env,
		dbPing:    dbPing,
		redisPing: redisPing,
		snap:      cache.NewSnapshot[statusReport](5 * time.Second),
	}
}

func (h *StatusHandler) Status(ctx *gin.Context) {
	report, ok := h.snap.Get()
	if !ok {
		report = h.probe()
		h.snap.Set(report)
	}

	code := http.StatusOK
	if report.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	ctx.JSON(code, report)
}

func (h *StatusHandler) probe() statusReport {
	report := statusReport{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Service:     config.ServiceName,
		Version:     config.ServiceVersion,
		Environment: h.env,
		Checks: statusChecks{
			Database: "connected",
			Redis:    "disabled",
		},
	}

	cctx, cancel := config.WithTimeout(1 * time.Second)
	defer cancel()

	if h.dbPing == nil || h.dbPing(cctx) != nil {
		report.Checks.Database = "error"
		report.Status = "unhealthy"
	}

	if h.redisPing != nil {
		report.Checks.Redis = "connected"
		if h.redisPing(cctx) != nil {
			report.Checks.Redis = "error"
		}
	}

	return report
}
