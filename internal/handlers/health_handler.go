package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Startup steps reported by /healthz
const (
	StepDatabase   = "Database connection"
	StepMigrations = "Running migrations"
	StepServices   = "Initializing services"
	StepServer     = "Server ready"
)

// StartupStatus tracks the initialization progress
type StartupStatus struct {
	mu       sync.RWMutex
	ready    bool
	current  string
	progress int
	steps    []StartupStep
}

type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// NewStartupStatus creates a status with the standard startup steps pending
func NewStartupStatus() *StartupStatus {
	return &StartupStatus{
		current: "Initializing...",
		steps: []StartupStep{
			{Name: StepDatabase},
			{Name: StepMigrations},
			{Name: StepServices},
			{Name: StepServer},
		},
	}
}

// SetCurrentStep updates the current initialization step
func (s *StartupStatus) SetCurrentStep(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = step
}

// CompleteStep marks a step as completed and updates progress
func (s *StartupStatus) CompleteStep(stepName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.steps {
		if s.steps[i].Name == stepName {
			s.steps[i].Completed = true
			break
		}
	}

	completed := 0
	for _, step := range s.steps {
		if step.Completed {
			completed++
		}
	}
	s.progress = (completed * 100) / len(s.steps)
}

// MarkReady marks the server as fully initialized
func (s *StartupStatus) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.steps {
		s.steps[i].Completed = true
	}
	s.ready = true
	s.current = StepServer
	s.progress = 100
}

// IsReady returns whether the server is fully initialized
func (s *StartupStatus) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

type healthResponse struct {
	Status   string        `json:"status"`
	Current  string        `json:"current"`
	Progress int           `json:"progress"`
	Steps    []StartupStep `json:"steps"`
	Database string        `json:"database,omitempty"`
}

// Pinger checks a backing store
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness endpoint
type HealthHandler struct {
	status *StartupStatus
	db     Pinger
	log    *zap.Logger
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(status *StartupStatus, db Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{status: status, db: db, log: log}
}

// Health reports 200 once startup finished and the database answers, 503 otherwise
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.status.mu.RLock()
	resp := healthResponse{
		Status:   "starting",
		Current:  h.status.current,
		Progress: h.status.progress,
		Steps:    append([]StartupStep(nil), h.status.steps...),
	}
	h.status.mu.RUnlock()
	ready := h.status.IsReady()

	code := http.StatusServiceUnavailable
	if ready {
		resp.Status = "ok"
		code = http.StatusOK
	}

	if ready && h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}

	respondJSON(w, h.log, code, resp)
}
