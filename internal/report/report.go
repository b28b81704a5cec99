// Package report turns a matching result into something people read: named
// entries, per-requester shortlists and exports.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/matching"
)

const unknownLocation = "unknown"

// Lookup resolves IDs to entities and explains pair scores.
// *matching.Engine satisfies it.
type Lookup interface {
	Candidate(id string) (*matching.Candidate, bool)
	Requester(id string) (*matching.Requester, bool)
	Breakdown(requesterID, candidateID string) (matching.ScoreBreakdown, bool)
}

type Report struct {
	RunID                string         `yaml:"run_id,omitempty"`
	Entries              []*Entry       `yaml:"entries"`
	Shortlists           []*Shortlist   `yaml:"shortlists"`
	UnfilledRequesters   []string       `yaml:"unfilled_requesters"`
	UnassignedCandidates []string       `yaml:"unassigned_candidates"`
	Stats                matching.Stats `yaml:"stats"`
}

// Entry is one committed match. Breakdown is nil when either side of the
// pair is unknown.
type Entry struct {
	Rank           int                      `yaml:"rank"`
	Score          float64                  `yaml:"score"`
	RequesterID    string                   `yaml:"requester_id"`
	RequesterTitle string                   `yaml:"requester_title"`
	CandidateID    string                   `yaml:"candidate_id"`
	CandidateName  string                   `yaml:"candidate_name"`
	Location       string                   `yaml:"location"`
	Breakdown      *matching.ScoreBreakdown `yaml:"breakdown,omitempty"`
	Review         *ai.Review               `yaml:"review,omitempty"`
	ReviewError    string                   `yaml:"review_error,omitempty"`
}

// Shortlist is a requester's top-k candidates regardless of assignment.
type Shortlist struct {
	RequesterID    string         `yaml:"requester_id"`
	RequesterTitle string         `yaml:"requester_title"`
	Candidates     []*Shortlisted `yaml:"candidates"`
}

type Shortlisted struct {
	CandidateID   string  `yaml:"candidate_id"`
	CandidateName string  `yaml:"candidate_name"`
	Score         float64 `yaml:"score"`
	Assigned      bool    `yaml:"assigned"`
}

// Build resolves names through lookup. Unknown IDs keep empty names.
// Shortlists follow requester ID order.
func Build(runID string, res *matching.Result, lookup Lookup) *Report {
	r := &Report{
		RunID:                runID,
		UnfilledRequesters:   slices.Clone(res.UnfilledRequesters),
		UnassignedCandidates: slices.Clone(res.UnassignedCandidates),
		Stats:                res.Stats,
	}

	for i, m := range res.Ranking {
		entry := &Entry{
			Rank:        i + 1,
			Score:       m.Score,
			RequesterID: m.RequesterID,
			CandidateID: m.CandidateID,
			Location:    unknownLocation,
		}
		if req, ok := lookup.Requester(m.RequesterID); ok {
			entry.RequesterTitle = req.Title
			if loc := strings.TrimSpace(req.Location); loc != "" {
				entry.Location = loc
			}
		}
		if c, ok := lookup.Candidate(m.CandidateID); ok {
			entry.CandidateName = c.Name
		}
		if b, ok := lookup.Breakdown(m.RequesterID, m.CandidateID); ok {
			entry.Breakdown = &b
		}
		r.Entries = append(r.Entries, entry)
	}

	ids := make([]string, 0, len(res.TopK))
	for id := range res.TopK {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		list := &Shortlist{RequesterID: id}
		if req, ok := lookup.Requester(id); ok {
			list.RequesterTitle = req.Title
		}
		for _, sc := range res.TopK[id] {
			item := &Shortlisted{
				CandidateID: sc.CandidateID,
				Score:       sc.Score,
				Assigned:    res.Assignments[id] == sc.CandidateID,
			}
			if c, ok := lookup.Candidate(sc.CandidateID); ok {
				item.CandidateName = c.Name
			}
			list.Candidates = append(list.Candidates, item)
		}
		r.Shortlists = append(r.Shortlists, list)
	}

	return r
}

// Annotate asks reviewer about the first limit entries, at most parallel at
// a time. A failed review is recorded on its entry and does not stop the
// others; only context cancellation is returned.
func (r *Report) Annotate(ctx context.Context, reviewer ai.Reviewer, lookup Lookup, limit, parallel int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 || limit > len(r.Entries) {
		limit = len(r.Entries)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))

	for _, entry := range r.Entries[:limit] {
		g.Go(func() error {
			req, okReq := lookup.Requester(entry.RequesterID)
			c, okCand := lookup.Candidate(entry.CandidateID)
			if !okReq || !okCand {
				entry.ReviewError = "entity not found"
				return nil
			}

			review, err := reviewer.Review(ctx, req, c, entry.Score)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("ai review failed",
					zap.String("requester_id", entry.RequesterID),
					zap.String("candidate_id", entry.CandidateID),
					zap.Error(err),
				)
				entry.ReviewError = err.Error()
				return nil
			}

			entry.Review = review
			return nil
		})
	}

	return g.Wait()
}

// ByLocation groups entries by the requester's location.
func (r *Report) ByLocation() map[string][]*Entry {
	groups := make(map[string][]*Entry)
	for _, e := range r.Entries {
		groups[e.Location] = append(groups[e.Location], e)
	}
	return groups
}

var csvHeader = []string{
	"rank", "score", "requester_id", "requester_title", "candidate_id", "candidate_name",
	"skills_match", "exp_candidate", "exp_min", "location_match",
	"ai_fit", "ai_summary",
}

// WriteCSV writes one record per entry. Factor columns stay empty for entries
// without a breakdown.

func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range r.Entries {
		fit, summary := "", ""
		if e.Review != nil {
			fit = strconv.FormatBool(e.Review.Fit)
			summary = e.Review.Summary
		}
		skills, expCandidate, expMin, located := "", "", "", ""
		if b := e.Breakdown; b != nil {
			skills = fmt.Sprintf("%d/%d", b.SkillsMatched, b.SkillsRequired)
			expCandidate = strconv.Itoa(b.Experience)
			expMin = strconv.Itoa(b.MinExperience)
			located = strconv.FormatBool(b.LocationMatch)
		}
		record := []string{
			strconv.Itoa(e.Rank),
			strconv.FormatFloat(e.Score, 'f', 4, 64),
			e.RequesterID,
			e.RequesterTitle,
			e.CandidateID,
			e.CandidateName,
			skills,
			expCandidate,
			expMin,
			located,
			fit,
			summary,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the CSV export to path, replacing any existing file.
func (r *Report) ExportCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := r.WriteCSV(file); err != nil {
		return fmt.Errorf("writing csv to %s: %w", path, err)
	}
	return file.Close()
}

func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "skillmatch_report_*.yaml")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return file.Name(), nil
}
