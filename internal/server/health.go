package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

const gb = 1024 * 1024 * 1024

// healthHandler reports the pool statistics plus host resource usage. A
// down database turns the response into a 503.
func (s *Server) healthHandler(c echo.Context) error {
	dbHealth := s.db.Health()

	status := http.StatusOK
	if dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]interface{}{
		"database": dbHealth,
		"system":   s.systemStats(),
	})
}

// systemStats collects what gopsutil can read; sections it cannot read are
// left out.
func (s *Server) systemStats() map[string]interface{} {
	stats := map[string]interface{}{
		"uptime":     time.Since(s.startTime).Round(time.Second).String(),
		"start_time": s.startTime.Format(time.RFC3339),
	}

	if v, err := mem.VirtualMemory(); err == nil {
		stats["memory"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/gb),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/gb),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
		}
	}

	// Percent(0) compares against the previous call instead of blocking.
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		stats["cpu"] = map[string]interface{}{
			"usage_percent": fmt.Sprintf("%.2f%%", pct[0]),
		}
	}

	if d, err := disk.Usage("/"); err == nil {
		stats["disk"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(d.Total)/gb),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		}
	}

	if h, err := host.Info(); err == nil {
		stats["host"] = map[string]interface{}{
			"os":       h.OS,
			"platform": h.Platform,
			"arch":     h.KernelArch,
			"hostname": h.Hostname,
			"procs":    h.Procs,
		}
	}

	return stats
}
