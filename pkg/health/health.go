// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

type CheckResult struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	Message   string `json:"message,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type Report struct {
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// Registry runs a fixed set of checkers.
type Registry struct {
	checkers []Checker
}

func NewRegistry(checkers ...Checker) *Registry {
	return &Registry{checkers: checkers}
}

// CheckAll runs every checker concurrently. The report is down as soon as
// one check is down; results keep registration order.
func (r *Registry) CheckAll(ctx context.Context) Report {
	results := make([]CheckResult, len(r.checkers))

	var g errgroup.Group
	for i, c := range r.checkers {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			res := c.Check(ctx)
			results[i] = CheckResult{
				Name:      c.Name(),
				Status:    res.Status,
				Message:   res.Message,
				ElapsedMs: time.Since(start).Milliseconds(),
			}
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Status: StatusUp, Checks: results}
	for _, res := range results {
		if res.Status == StatusDown {
			report.Status = StatusDown
			break
		}
	}
	return report
}

// LivenessHandler answers 200 while the process is serving.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Result{Status: StatusUp})
	}
}

// ReadinessHandler answers 503 when any check is down.
func ReadinessHandler(r *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		report := r.CheckAll(ctx)

		status := http.StatusOK
		if report.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(status, report)
	}
}
