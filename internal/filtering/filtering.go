// Package filtering removes candidates and requesters from a dataset before
// matching: explicit ID lists from the configuration and entries recorded in
// an exclude file by previous runs.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/dataset"
)

// Filter represents a single filtering step applied to a dataset.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, Step, error)
	Status() Status
}

// Status summarises the configuration of a filter for logs and menus.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// Step describes the result of executing a filtering step. Counts cover
// candidates and requesters together.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Filtering{
		steps:  steps,
		logger: logger,
	}
}

// RunFilters validates every enabled step, then applies them in order.
func (f *Filtering) RunFilters(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range f.steps {
		if !step.IsEnabled() {
			st := step.Status()
			f.logger.Info("filter disabled", zap.String("name", st.Name), zap.String("reason", st.Reason))
			continue
		}

		next, info, err := step.Apply(ctx, ds)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		ds = next
	}

	return ds, nil
}

// Statuses returns the status of every configured step in order.
func (f *Filtering) Statuses() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
		statuses = append(statuses, step.Status())
	}
	return statuses
}

func size(ds *dataset.Dataset) int {
	return len(ds.Candidates) + len(ds.Requesters)
}
