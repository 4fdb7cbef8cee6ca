// Package resilience bounds calls to external collaborators with a timeout
// and a circuit breaker.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned without calling the collaborator while its
// breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker open")

// Config configures a Guard.
type Config struct {
	// CallTimeout bounds every call. Zero disables the timeout.
	CallTimeout time.Duration

	// BreakerEnabled turns the circuit breaker on.
	BreakerEnabled bool

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state after which
	// failure counts are cleared.
	Interval time.Duration

	// OpenTimeout is how long the breaker stays open.
	OpenTimeout time.Duration

	// FailureThreshold trips the breaker after that many consecutive
	// failures.
	FailureThreshold uint32
}

// DefaultConfig returns the settings used for calendar and advisor calls.
func DefaultConfig() Config {
	return Config{
		CallTimeout:      5 * time.Second,
		BreakerEnabled:   true,
		MaxRequests:      1,
		Interval:         time.Minute,
		OpenTimeout:      30 * time.Second,
		FailureThreshold: 5,
	}
}

// Observer is told about breaker transitions.
type Observer interface {
	BreakerStateChanged(name, state string)
}

// Guard protects one named collaborator.
type Guard struct {
	name    string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewGuard creates a guard. observer may be nil.
func NewGuard(name string, config Config, observer Observer, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Guard{name: name, timeout: config.CallTimeout, logger: logger}
	if !config.BreakerEnabled {
		return g
	}

	threshold := config.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	g.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up is not the collaborator's fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"collaborator", name,
				"from", from.String(),
				"to", to.String(),
			)
			if observer != nil {
				observer.BreakerStateChanged(name, to.String())
			}
		},
	})
	return g
}

// Name returns the collaborator name.
func (g *Guard) Name() string {
	return g.name
}

// State reports the breaker state, or "disabled".
func (g *Guard) State() string {
	if g.breaker == nil {
		return "disabled"
	}
	return g.breaker.State().String()
}

// Call runs fn under g's timeout and breaker. A nil guard calls fn directly.
func Call[T any](ctx context.Context, g *Guard, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if g == nil {
		return fn(ctx)
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if g.breaker == nil {
		return fn(ctx)
	}

	v, err := g.breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%s: %w", g.name, ErrCircuitOpen)
	}
	if err != nil {
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}
