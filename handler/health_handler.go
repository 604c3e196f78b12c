package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/dododo1295/quicknotes/utils"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

type healthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	CPUPercent float64           `json:"cpu_percent"`
}

// Check pings every dependency concurrently. Any failure makes the service
// unavailable.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]string, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			if err := h.checks[name].Ping(ctx); err != nil {
				results[i] = "down"
				return err
			}
			results[i] = "up"
			return nil
		})
	}
	err := g.Wait()

	report := healthReport{
		Status:     "ok",
		Components: make(map[string]string, len(names)),
		CPUPercent: utils.GetCPUUsage(ctx),
	}
	for i, name := range names {
		report.Components[name] = results[i]
	}

	if err != nil {
		report.Status = "unavailable"
		c.JSON(http.StatusServiceUnavailable, &utils.Response{
			Error: "Service unavailable",
			Data:  report,
		})
		return
	}

	utils.Success(c, "Service healthy", report)
}
