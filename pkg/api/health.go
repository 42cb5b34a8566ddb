package api

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthService reports process-level liveness details (uptime, goroutine
// count, CPU/memory usage) for the /health endpoint's optional details mode.
// It carries no dependency on the retrieval pipeline, so a failure building
// SystemInfo never affects the cache-reachability check that gates liveness.
type HealthService struct{}

type HealthResponse struct {
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Uptime      string      `json:"uptime"`
	Environment string      `json:"environment"`
	System      *SystemInfo `json:"system,omitempty"`
}

type SystemInfo struct {
	CPUUsage    float64 `json:"cpu_usage"`
	MemoryUsage float64 `json:"memory_usage"`
	MemoryTotal uint64  `json:"memory_total"`
	MemoryUsed  uint64  `json:"memory_used"`
	Goroutines  int     `json:"goroutines"`
	GoVersion   string  `json:"go_version"`
}

var startTime = time.Now()

func NewHealthService() *HealthService {
	return &HealthService{}
}

func (h *HealthService) GetHealth(ctx context.Context, environment string, includeDetails bool) (*HealthResponse, error) {
	response := &HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now(),
		Uptime:      time.Since(startTime).String(),
		Environment: environment,
	}

	if includeDetails {
		if systemInfo, err := h.getSystemInfo(ctx); err == nil {
			response.System = systemInfo
		}
	}

	return response, nil
}

func (h *HealthService) getSystemInfo(ctx context.Context) (*SystemInfo, error) {
	// Get CPU usage
	cpuPercent, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return nil, err
	}

	// Get memory usage
	memInfo, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	return &SystemInfo{
		CPUUsage:    cpuPercent[0],
		MemoryUsage: memInfo.UsedPercent,
		MemoryTotal: memInfo.Total,
		MemoryUsed:  memInfo.Used,
		Goroutines:  runtime.NumGoroutine(),
		GoVersion:   runtime.Version(),
	}, nil
}
