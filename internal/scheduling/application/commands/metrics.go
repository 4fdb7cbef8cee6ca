package commands

import (
	"time"

	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
)

// Metrics receives scheduling measurements.
type Metrics interface {
	ScheduleBuilt(result *schedulingDomain.ScheduleResult, elapsed time.Duration)
	CollaboratorFallback(collaborator string)
}

type noopMetrics struct{}

func (noopMetrics) ScheduleBuilt(*schedulingDomain.ScheduleResult, time.Duration) {}
func (noopMetrics) CollaboratorFallback(string)                                 {}
