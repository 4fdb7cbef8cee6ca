package commands

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/productivity/domain/task"
	"github.com/felixgeelhaar/cadence/internal/scheduling/application/services"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"golang.org/x/sync/errgroup"
)

// CollaboratorAdvisor names the advisor in logs, metrics and degraded lists.
const CollaboratorAdvisor = "advisor"

// adviceCollector asks the advisor about every task concurrently and merges
// the answers. A failed call yields the identity advisory for that task.
type adviceCollector struct {
	advisor schedulingDomain.Advisor
	guard   *resilience.Guard
	merger  *services.SuggestionMerger
	limit   int
	logger  *slog.Logger
}

// collect annotates tasks in place and reports how many advisor calls failed.
func (c *adviceCollector) collect(ctx context.Context, tasks []*task.Task, ac schedulingDomain.AdvisorContext) ([]services.AnnotatedTask, int) {
	suggestions := make([]*schedulingDomain.Suggestion, len(tasks))
	failures := make([]bool, len(tasks))

	var g errgroup.Group
	g.SetLimit(max(c.limit, 1))
	for i, t := range tasks {
		g.Go(func() error {
			s, err := resilience.Call(ctx, c.guard, func(ctx context.Context) (*schedulingDomain.Suggestion, error) {
				return c.advisor.Suggest(ctx, t, ac)
			})
			if err != nil {
				c.logger.Warn("advisor unavailable, using identity advisory",
					"task_id", t.ID(),
					"error", schedulingDomain.NewExternalServiceError(CollaboratorAdvisor, err),
				)
				failures[i] = true
				return nil
			}
			suggestions[i] = s
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	annotated := make([]services.AnnotatedTask, len(tasks))
	for i, t := range tasks {
		annotated[i] = c.merger.Merge(t, suggestions[i])
		if failures[i] {
			failed++
		}
	}
	return annotated, failed
}
