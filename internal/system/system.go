// Package system samples host resource usage for run summaries.
package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Usage is a point-in-time resource sample.
type Usage struct {
	CPUPercent     float64 `json:"cpu_percent"`
	MemUsedPercent float64 `json:"mem_used_percent"`
	MemUsedMB      uint64  `json:"mem_used_mb"`
	MemTotalMB     uint64  `json:"mem_total_mb"`
	Goroutines     int     `json:"goroutines"`
}

// Sample reads current CPU and memory usage. Metrics that cannot be read on
// the host report zero rather than failing the run.
func Sample() Usage {
	u := Usage{Goroutines: runtime.NumGoroutine()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		u.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		u.MemUsedPercent = vm.UsedPercent
		u.MemUsedMB = vm.Used / 1024 / 1024
		u.MemTotalMB = vm.Total / 1024 / 1024
	}
	return u
}
