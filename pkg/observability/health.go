package observability

import (
	"context"
	"sort"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is the result of one check.
type HealthCheckResult struct {
	Name     string        `json:"name"`
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// PingFunc reports a dependency failure as an error.
type PingFunc func(ctx context.Context) error

// HealthRegistry runs named dependency checks.
type HealthRegistry struct {
	mu      sync.RWMutex
	checks  map[string]PingFunc
	timeout time.Duration
}

// NewHealthRegistry creates a registry. Each check gets timeout.
func NewHealthRegistry(timeout time.Duration) *HealthRegistry {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthRegistry{checks: make(map[string]PingFunc), timeout: timeout}
}

// Register adds a check for a component.
func (r *HealthRegistry) Register(name string, ping PingFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = ping
}

// Check runs all checks concurrently. The results are sorted by name and
// the overall status is unhealthy if any check failed.
func (r *HealthRegistry) Check(ctx context.Context) (HealthStatus, []HealthCheckResult) {
	r.mu.RLock()
	checks := make(map[string]PingFunc, len(r.checks))
	for name, ping := range r.checks {
		checks[name] = ping
	}
	r.mu.RUnlock()

	results := make([]HealthCheckResult, 0, len(checks))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, ping := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			start := time.Now()
			res := HealthCheckResult{Name: name, Status: HealthStatusHealthy}
			if err := ping(cctx); err != nil {
				res.Status = HealthStatusUnhealthy
				res.Message = err.Error()
			}
			res.Duration = time.Since(start)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	overall := HealthStatusHealthy
	for _, res := range results {
		if res.Status != HealthStatusHealthy {
			overall = HealthStatusUnhealthy
		}
	}
	return overall, results
}
