package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Result is the outcome of a single component check
type Result struct {
	Component    string                 `json:"component"`
	Status       Status                 `json:"status"`
	Message      string                 `json:"message"`
	ResponseTime time.Duration          `json:"response_time"`
	Details      map[string]interface{} `json:"details,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}

// CheckFunc performs a health check for one component. Implementations fill
// Status, Message, and optionally Details; the runner stamps Component,
// ResponseTime, and Timestamp.
type CheckFunc func(ctx context.Context) Result

// Runner executes registered component checks
type Runner struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
	logger *logrus.Logger
}

// NewRunner creates an empty health check runner
func NewRunner(logger *logrus.Logger) *Runner {
	return &Runner{
		checks: make(map[string]CheckFunc),
		logger: logger,
	}
}

// Register adds a named component check, replacing any previous check with
// the same name.
func (r *Runner) Register(component string, check CheckFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[component] = check
}

// RunAll executes every registered check and returns the results ordered by
// component name. A check that panics is reported as unhealthy rather than
// taking the runner down.
func (r *Runner) RunAll(ctx context.Context) []Result {
	r.mu.RLock()
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	checks := make(map[string]CheckFunc, len(r.checks))
	for name, check := range r.checks {
		checks[name] = check
	}
	r.mu.RUnlock()

	sort.Strings(names)

	results := make([]Result, 0, len(names))
	for _, name := range names {
		results = append(results, r.run(ctx, name, checks[name]))
	}
	return results
}

func (r *Runner) run(ctx context.Context, component string, check CheckFunc) (result Result) {
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(logrus.Fields{
				"component": component,
				"panic":     rec,
			}).Error("Health check panicked")
			result = Result{
				Status:  StatusUnhealthy,
				Message: fmt.Sprintf("health check panicked: %v", rec),
			}
		}
		result.Component = component
		result.ResponseTime = time.Since(start)
		result.Timestamp = time.Now()
	}()

	result = check(ctx)
	return result
}

// Overall reduces a set of results to a single status and summary message
func Overall(results []Result) (Status, string) {
	healthy, degraded, unhealthy := 0, 0, 0
	for _, res := range results {
		switch res.Status {
		case StatusUnhealthy:
			unhealthy++
		case StatusDegraded:
			degraded++
		default:
			healthy++
		}
	}

	total := len(results)
	switch {
	case unhealthy > 0:
		return StatusUnhealthy, fmt.Sprintf("%d/%d components unhealthy", unhealthy, total)
	case degraded > 0:
		return StatusDegraded, fmt.Sprintf("%d/%d components degraded", degraded, total)
	default:
		return StatusHealthy, fmt.Sprintf("All %d components healthy", total)
	}
}
