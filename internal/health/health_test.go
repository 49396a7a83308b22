package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func healthyCheck(ctx context.Context) Check {
	return Check{Status: StatusHealthy, Timestamp: time.Now()}
}

func unhealthyCheck(ctx context.Context) Check {
	return Check{
		Status:    StatusUnhealthy,
		Timestamp: time.Now(),
		Details:   map[string]string{"error": "connection refused"},
	}
}

func TestChecker_RunChecks(t *testing.T) {
	checker := NewChecker()
	checker.RegisterCheck("storage", healthyCheck)
	checker.RegisterCheck("cluster", unhealthyCheck)

	results := checker.RunChecks(context.Background())

	if len(results) != 2 {
		t.Fatalf("RunChecks() returned %d results, want 2", len(results))
	}
	if results["storage"].Status != StatusHealthy {
		t.Errorf("storage status = %v, want healthy", results["storage"].Status)
	}
	if results["cluster"].Status != StatusUnhealthy {
		t.Errorf("cluster status = %v, want unhealthy", results["cluster"].Status)
	}
}

func TestChecker_Handler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantCode   int
		wantStatus Status
	}{
		{
			name:       "no checks registered",
			checks:     map[string]CheckFunc{},
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name:       "all healthy",
			checks:     map[string]CheckFunc{"storage": healthyCheck},
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"storage": healthyCheck,
				"cluster": unhealthyCheck,
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker()
			for name, fn := range tt.checks {
				checker.RegisterCheck(name, fn)
			}

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			checker.Handler()(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}

			var response struct {
				Status Status `json:"status"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != tt.wantStatus {
				t.Errorf("overall status = %v, want %v", response.Status, tt.wantStatus)
			}
		})
	}
}

func TestReadinessAndLivenessHandlers(t *testing.T) {
	for _, tt := range []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "readiness", handler: ReadinessHandler()},
		{name: "liveness", handler: LivenessHandler()},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Errorf("status code = %d, want 200", rec.Code)
			}
		})
	}
}
