package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/tes-insurance/internal/infra/database"
	"github.com/xavierca1/tes-insurance/internal/infra/http/response"
)

const (
	statusHealthy       = "healthy"
	statusUnhealthy     = "unhealthy"
	statusDegraded      = "degraded"
	statusNotConfigured = "not configured"
)

// Broker is the part of *amqp091.Connection the health report needs.
type Broker interface {
	IsClosed() bool
}

type HealthHandler struct {
	DB        *sqlx.DB
	RabbitMQ  Broker
	Env       string
	StartTime time.Time
	now       func() time.Time
}

type HealthResponse struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
	Database    string  `json:"database"`
}

type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type MemoryStats struct {
	Alloc     uint64 `json:"alloc"`
	Sys       uint64 `json:"sys"`
	HeapInuse uint64 `json:"heap_inuse"`
	NumGC     uint32 `json:"num_gc"`
}

type SystemHealthResponse struct {
	Database   DependencyStatus `json:"database"`
	RabbitMQ   DependencyStatus `json:"rabbitmq"`
	Uptime     float64          `json:"uptime"`
	Memory     MemoryStats      `json:"memory"`
	Goroutines int              `json:"goroutines"`
	Timestamp  string           `json:"timestamp"`
}

// NewHealthHandler takes a nil broker when AMQP is not configured.
func NewHealthHandler(db *sqlx.DB, broker Broker, env string) *HealthHandler {
	now := func() time.Time { return time.Now().UTC() }
	return &HealthHandler{
		DB:        db,
		RabbitMQ:  broker,
		Env:       env,
		StartTime: now(),
		now:       now,
	}
}

func (h *HealthHandler) uptime() float64 {
	return h.now().Sub(h.StartTime).Seconds()
}

func (h *HealthHandler) dbStatus(r *http.Request) DependencyStatus {
	if h.DB == nil {
		return DependencyStatus{Status: statusNotConfigured}
	}
	if err := database.HealthCheck(r.Context(), h.DB); err != nil {
		return DependencyStatus{Status: statusUnhealthy, Error: err.Error()}
	}
	return DependencyStatus{Status: statusHealthy}
}

func (h *HealthHandler) brokerStatus() DependencyStatus {
	switch {
	case h.RabbitMQ == nil:
		return DependencyStatus{Status: statusNotConfigured}
	case h.RabbitMQ.IsClosed():
		return DependencyStatus{Status: statusUnhealthy, Error: "connection closed"}
	default:
		return DependencyStatus{Status: statusHealthy}
	}
}

// Handle is the public liveness probe; 503 when the store does not answer.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	db := h.dbStatus(r)

	res := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   h.now().Format(time.RFC3339),
		Uptime:      h.uptime(),
		Environment: h.Env,
		Database:    db.Status,
	}
	status := http.StatusOK
	if db.Status != statusHealthy {
		res.Status = statusDegraded
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, res)
}

// System is the admin view with dependency and runtime detail.
func (h *HealthHandler) System(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response.OK(w, SystemHealthResponse{
		Database: h.dbStatus(r),
		RabbitMQ: h.brokerStatus(),
		Uptime:   h.uptime(),
		Memory: MemoryStats{
			Alloc:     mem.Alloc,
			Sys:       mem.Sys,
			HeapInuse: mem.HeapInuse,
			NumGC:     mem.NumGC,
		},
		Goroutines: runtime.NumGoroutine(),
		Timestamp:  h.now().Format(time.RFC3339),
	})
}
