package config

import (
	"fmt"

	"casesearch/internal/hardware"
)

// PerformanceConfig holds hardware-sized defaults for the reasoner's inflight
// cap and the scheduler's retrieval concurrency and budget. They replace
// LLM_REASONER_MAX_INFLIGHT and DEFAULT_GLOBAL_BUDGET only when the loaded
// value is 0 or below; an unset env var already defaults to 4 and 20 in Load.
type PerformanceConfig struct {
	CPUCores          int `json:"cpu_cores"`
	AvailableMemoryGB int `json:"available_memory_gb"`

	ReasonerMaxInflight int `json:"reasoner_max_inflight"`
	FetchWorkers        int `json:"fetch_workers"`
	DefaultGlobalBudget int `json:"default_global_budget"`
	VerifyLimit         int `json:"verify_limit"`
}

// OptimizeForHardware derives conservative worker/budget defaults from a
// hardware analysis, the same way the teacher sizes its extraction/indexing
// worker pools off detected CPU and memory.
func OptimizeForHardware(analysis *hardware.Analysis) *PerformanceConfig {
	cfg := &PerformanceConfig{
		CPUCores:          analysis.CPU.Cores,
		AvailableMemoryGB: int(analysis.Memory.AvailableGB),
	}

	cfg.ReasonerMaxInflight = clampInt(analysis.CPU.Cores/2, 2, 8)
	cfg.FetchWorkers = clampInt(analysis.CPU.Cores*2, 4, 40)

	cfg.DefaultGlobalBudget = 20
	if analysis.Memory.AvailableGB < 2 {
		cfg.DefaultGlobalBudget = 12
	}

	cfg.VerifyLimit = clampInt(analysis.CPU.Cores, 3, 10)

	return cfg
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// GetSummary returns a human-readable summary of the performance configuration.
func (c *PerformanceConfig) GetSummary() string {
	return fmt.Sprintf(
		"Hardware: %d CPU cores, %d GB available memory\nReasoner max inflight: %d\nFetch workers: %d\nDefault global budget: %d\nVerify limit: %d",
		c.CPUCores, c.AvailableMemoryGB, c.ReasonerMaxInflight, c.FetchWorkers, c.DefaultGlobalBudget, c.VerifyLimit)
}

// ValidateConfiguration ensures the derived configuration is reasonable.
func (c *PerformanceConfig) ValidateConfiguration() error {
	if c.CPUCores <= 0 {
		return fmt.Errorf("invalid CPU cores count: %d", c.CPUCores)
	}
	if c.ReasonerMaxInflight <= 0 {
		return fmt.Errorf("invalid reasoner max inflight: %d", c.ReasonerMaxInflight)
	}
	if c.DefaultGlobalBudget <= 0 {
		return fmt.Errorf("invalid default global budget: %d", c.DefaultGlobalBudget)
	}
	return nil
}
