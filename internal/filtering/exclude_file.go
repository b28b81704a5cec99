package filtering

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/skillmatch/internal/dataset"
)

type excludeFileFilter struct {
	path    string
	enabled bool
	reason  string
}

// NewExcludeFile creates a filter that removes entities listed in the exclude
// file at path. An empty path disables it.
func NewExcludeFile(path string) Filter {
	f := &excludeFileFilter{path: strings.TrimSpace(path), enabled: true}
	if f.path == "" {
		f.Disable("no exclude file configured")
	}
	return f
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return f.enabled }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, Step, error) {
	initial := size(ds)

	excluded, err := LoadExcludeList(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting excluded entities from file: %w", err)
	}

	out := excludeByID(ds, idSet(excluded.IDs(KindCandidate)), idSet(excluded.IDs(KindRequester)))

	return out, Step{Initial: initial, Dropped: initial - size(out), Left: size(out)}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
