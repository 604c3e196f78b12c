package utils

import (
	"context"
	"log/slog"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage returns CPU usage since the previous call as a percentage. It
// does not block.
func GetCPUUsage(ctx context.Context) float64 {
	percentage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		slog.WarnContext(ctx, "cpu usage unavailable", Err(err))
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}
