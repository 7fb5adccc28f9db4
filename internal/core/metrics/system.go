package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

// SystemCollector produces SystemSnapshots from the host via gopsutil
type SystemCollector struct {
	diskPath string
	logger   *logrus.Logger
}

// NewSystemCollector creates a system resource collector. diskPath is the
// mount point whose usage is reported (typically "/").
func NewSystemCollector(diskPath string, logger *logrus.Logger) *SystemCollector {
	if diskPath == "" {
		diskPath = "/"
	}
	return &SystemCollector{
		diskPath: diskPath,
		logger:   logger,
	}
}

// Snapshot collects current CPU, memory, and disk usage
func (s *SystemCollector) Snapshot(ctx context.Context) (SystemSnapshot, error) {
	snap := SystemSnapshot{Timestamp: time.Now()}

	// interval 0 reports usage since the previous call
	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return snap, fmt.Errorf("failed to collect CPU usage: %w", err)
	}
	if len(cpuPercents) > 0 {
		snap.CPU.UsagePercent = cpuPercents[0]
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		snap.CPU.Cores = cores
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return snap, fmt.Errorf("failed to collect memory usage: %w", err)
	}
	snap.Memory = MemoryUsage{
		Total:        vm.Total,
		Used:         vm.Used,
		UsagePercent: vm.UsedPercent,
	}

	du, err := disk.UsageWithContext(ctx, s.diskPath)
	if err != nil {
		return snap, fmt.Errorf("failed to collect disk usage for %s: %w", s.diskPath, err)
	}
	snap.Disk = DiskUsage{
		Path:         s.diskPath,
		Total:        du.Total,
		Used:         du.Used,
		UsagePercent: du.UsedPercent,
	}

	return snap, nil
}
