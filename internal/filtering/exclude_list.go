package filtering

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	KindCandidate = "candidate"
	KindRequester = "requester"
)

// ExcludeList is the on-disk record of entities removed from future runs.
type ExcludeList struct {
	Items []*Excluded `yaml:"items"`
}

type Excluded struct {
	Kind        string    `yaml:"kind"`
	ID          string    `yaml:"id"`
	Counterpart string    `yaml:"counterpart,omitempty"`
	ExcludedAt  time.Time `yaml:"excluded_at"`
}

// AssignmentsToExcluded records both sides of every assignment, sorted by
// requester ID so the file diffs cleanly between runs.
func AssignmentsToExcluded(assignments map[string]string) *ExcludeList {
	list := &ExcludeList{}
	now := time.Now().UTC()

	for _, requesterID := range slices.Sorted(maps.Keys(assignments)) {
		candidateID := assignments[requesterID]
		list.Items = append(list.Items,
			&Excluded{Kind: KindRequester, ID: requesterID, Counterpart: candidateID, ExcludedAt: now},
			&Excluded{Kind: KindCandidate, ID: candidateID, Counterpart: requesterID, ExcludedAt: now},
		)
	}

	return list
}

// LoadExcludeList reads path. A missing or empty file yields an empty list.
func LoadExcludeList(path string) (*ExcludeList, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludeList{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list ExcludeList
	if len(data) == 0 {
		return &list, nil
	}
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding exclude file %s: %w", path, err)
	}

	for i, item := range list.Items {
		if item == nil || item.ID == "" {
			return nil, fmt.Errorf("exclude file %s: item #%d has no id", path, i)
		}
		if item.Kind != KindCandidate && item.Kind != KindRequester {
			return nil, fmt.Errorf("exclude file %s: item %s has unknown kind %q", path, item.ID, item.Kind)
		}
	}

	return &list, nil
}

func (l *ExcludeList) Append(other *ExcludeList) {
	l.Items = append(l.Items, other.Items...)
}

// IDs returns the IDs of the given kind in file order.
func (l *ExcludeList) IDs(kind string) []string {
	ids := make([]string, 0)
	for _, item := range l.Items {
		if item.Kind == kind {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (l *ExcludeList) Len() int {
	return len(l.Items)
}

func (l *ExcludeList) ToFile(path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
