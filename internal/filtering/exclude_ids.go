package filtering

import (
	"context"
	"strconv"
	"strings"

	"github.com/spigell/skillmatch/internal/dataset"
	"github.com/spigell/skillmatch/internal/matching"
)

type excludeIDsFilter struct {
	name       string
	candidates map[string]struct{}
	requesters map[string]struct{}
	enabled    bool
	reason     string
}

// NewExcludedCandidates creates a filter that drops candidates by ID.
func NewExcludedCandidates(ids []string) Filter {
	return &excludeIDsFilter{name: "exclude_candidates", candidates: idSet(ids), enabled: true}
}

// NewExcludedRequesters creates a filter that drops requesters by ID.
func NewExcludedRequesters(ids []string) Filter {
	return &excludeIDsFilter{name: "exclude_requesters", requesters: idSet(ids), enabled: true}
}

func (f *excludeIDsFilter) Name() string { return f.name }

func (f *excludeIDsFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *excludeIDsFilter) IsEnabled() bool { return f.enabled }

func (f *excludeIDsFilter) Validate() error { return nil }

func (f *excludeIDsFilter) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, Step, error) {
	initial := size(ds)
	out := excludeByID(ds, f.candidates, f.requesters)
	return out, Step{Initial: initial, Dropped: initial - size(out), Left: size(out)}, nil
}

func (f *excludeIDsFilter) Status() Status {
	n := len(f.candidates) + len(f.requesters)
	return Status{
		Name:    f.name,
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"ids": strconv.Itoa(n)},
	}
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// excludeByID returns a new dataset; the input is left untouched.
func excludeByID(ds *dataset.Dataset, candidates, requesters map[string]struct{}) *dataset.Dataset {
	out := &dataset.Dataset{
		Candidates: make([]matching.Candidate, 0, len(ds.Candidates)),
		Requesters: make([]matching.Requester, 0, len(ds.Requesters)),
	}

	for _, c := range ds.Candidates {
		if _, drop := candidates[c.ID]; !drop {
			out.Candidates = append(out.Candidates, c)
		}
	}
	for _, r := range ds.Requesters {
		if _, drop := requesters[r.ID]; !drop {
			out.Requesters = append(out.Requesters, r)
		}
	}

	return out
}
