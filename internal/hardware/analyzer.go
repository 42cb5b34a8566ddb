// Package hardware detects CPU, memory, and load information so
// internal/config can size the reasoner's inflight cap and the scheduler's
// fetch concurrency without a hard-coded guess.
package hardware

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Analysis represents comprehensive hardware analysis results.
type Analysis struct {
	CPU    CPUInfo    `json:"cpu"`
	Memory MemoryInfo `json:"memory"`
	System SystemInfo `json:"system"`
}

// CPUInfo contains CPU specifications.
type CPUInfo struct {
	Cores    int    `json:"cores"`
	Model    string `json:"model"`
	SpeedMHz int    `json:"speed_mhz"`
}

// MemoryInfo contains memory specifications.
type MemoryInfo struct {
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`
	UsedPercent float64 `json:"used_percent"`
}

// SystemInfo contains system load information.
type SystemInfo struct {
	LoadAvg1  float64 `json:"load_avg_1"`
	LoadAvg5  float64 `json:"load_avg_5"`
	LoadAvg15 float64 `json:"load_avg_15"`
}

// Analyzer provides hardware analysis capabilities.
type Analyzer struct{}

// NewAnalyzer creates a new hardware analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze performs comprehensive hardware analysis. Load-average detection
// is best-effort — unsupported platforms fall back to a zeroed SystemInfo
// rather than failing the whole analysis.
func (a *Analyzer) Analyze(ctx context.Context) (*Analysis, error) {
	cpuInfo, err := a.analyzeCPU(ctx)
	if err != nil {
		return nil, fmt.Errorf("CPU analysis failed: %w", err)
	}

	memInfo, err := a.analyzeMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory analysis failed: %w", err)
	}

	system := a.analyzeSystem()

	return &Analysis{
		CPU:    *cpuInfo,
		Memory: *memInfo,
		System: *system,
	}, nil
}

func (a *Analyzer) analyzeCPU(ctx context.Context) (*CPUInfo, error) {
	cores := runtime.NumCPU()

	info := &CPUInfo{Cores: cores}
	if infoStats, err := cpu.InfoWithContext(ctx); err == nil && len(infoStats) > 0 {
		info.Model = infoStats[0].ModelName
		info.SpeedMHz = int(infoStats[0].Mhz)
	}
	return info, nil
}

func (a *Analyzer) analyzeMemory(ctx context.Context) (*MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	totalGB := float64(vm.Total) / (1024 * 1024 * 1024)
	availableGB := float64(vm.Available) / (1024 * 1024 * 1024)

	return &MemoryInfo{
		TotalGB:     totalGB,
		AvailableGB: availableGB,
		UsedPercent: vm.UsedPercent,
	}, nil
}

func (a *Analyzer) analyzeSystem() *SystemInfo {
	avg, err := load.Avg()
	if err != nil {
		return &SystemInfo{}
	}
	return &SystemInfo{
		LoadAvg1:  avg.Load1,
		LoadAvg5:  avg.Load5,
		LoadAvg15: avg.Load15,
	}
}

// AnalyzeWithTimeout is a convenience wrapper for callers (e.g. cmd/server
// startup) that don't want hardware probing to block boot indefinitely.
func (a *Analyzer) AnalyzeWithTimeout(timeout time.Duration) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return a.Analyze(ctx)
}
