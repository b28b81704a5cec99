// Package dataset loads candidates and requesters from YAML or JSON files and
// validates them before they reach the matching engine.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/spigell/skillmatch/internal/matching"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrMissingFields     = errors.New("missing required fields")
)

// Dataset is a validated set of entities ready for an engine.
type Dataset struct {
	Candidates []matching.Candidate
	Requesters []matching.Requester
}

type rawDataset struct {
	Candidates []map[string]any `yaml:"candidates"`
	Requesters []map[string]any `yaml:"requesters"`
	// Jobs is accepted as an alias of Requesters.
	Jobs []map[string]any `yaml:"jobs"`
}

type fileDataset struct {
	Candidates []candidateRecord `yaml:"candidates"`
	Requesters []requesterRecord `yaml:"requesters"`
}

// Load reads a dataset from a .yaml, .yml or .json file.
func Load(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// Read parses a dataset document. JSON is accepted as a YAML subset.
func Read(r io.Reader) (*Dataset, error) {
	var raw rawDataset
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{}, nil
		}
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	return FromRecords(raw.Candidates, append(raw.Requesters, raw.Jobs...))
}

// FromRecords decodes loosely typed records. The first invalid record aborts
// the load with its position in the error.
func FromRecords(candidates, requesters []map[string]any) (*Dataset, error) {
	ds := &Dataset{
		Candidates: make([]matching.Candidate, 0, len(candidates)),
		Requesters: make([]matching.Requester, 0, len(requesters)),
	}

	for i, raw := range candidates {
		c, err := DecodeCandidate(raw)
		if err != nil {
			return nil, fmt.Errorf("candidate #%d: %w", i+1, err)
		}
		ds.Candidates = append(ds.Candidates, c)
	}

	for i, raw := range requesters {
		r, err := DecodeRequester(raw)
		if err != nil {
			return nil, fmt.Errorf("requester #%d: %w", i+1, err)
		}
		ds.Requesters = append(ds.Requesters, r)
	}

	return ds, nil
}

// Write encodes the dataset as YAML in the layout Load reads.
func (d *Dataset) Write(w io.Writer) error {
	out := fileDataset{
		Candidates: make([]candidateRecord, 0, len(d.Candidates)),
		Requesters: make([]requesterRecord, 0, len(d.Requesters)),
	}
	for _, c := range d.Candidates {
		out.Candidates = append(out.Candidates, candidateToRecord(c))
	}
	for _, r := range d.Requesters {
		out.Requesters = append(out.Requesters, requesterToRecord(r))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	return enc.Close()
}

// Engine loads every entity into a new engine, preserving file order.
func (d *Dataset) Engine(cfg matching.Config, logger *zap.Logger) *matching.Engine {
	engine := matching.New(cfg, logger)
	for _, c := range d.Candidates {
		engine.AddCandidate(c)
	}
	for _, r := range d.Requesters {
		engine.AddRequester(r)
	}
	return engine
}
