package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"vahanpulse/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	sources   config.SourcesConfig
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Sources   map[string]SourceHealth `json:"sources,omitempty"`
}

// SourceHealth reports the availability of one registration source table.
type SourceHealth struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, sources config.SourcesConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		sources:   sources,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check returns the current health status. The service is degraded, not
// down, when a source file is missing: the dashboard still serves whatever
// loads succeed.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Sources: map[string]SourceHealth{
			"yearly":  s.sourceHealth(s.sources.YearlyPath()),
			"monthly": s.sourceHealth(s.sources.MonthlyPath()),
		},
	}

	for name, src := range status.Sources {
		if src.Status != "available" {
			status.Status = "degraded"
			s.logger.WarnContext(ctx, "source unavailable",
				slog.String("source", name),
				slog.String("path", src.Path))
		}
	}

	return status
}

func (s *HealthService) sourceHealth(path string) SourceHealth {
	info, err := os.Stat(path)
	if err != nil {
		return SourceHealth{
			Status:  "missing",
			Path:    path,
			Message: err.Error(),
		}
	}
	return SourceHealth{
		Status: "available",
		Path:   path,
		Message: fmt.Sprintf("%d bytes, modified %s",
			info.Size(), info.ModTime().Format(time.RFC3339)),
	}
}
