// Package ai defines optional model-backed reviews of committed matches.
// Reviews annotate reports only; they never change an assignment.
package ai

import (
	"context"

	"github.com/spigell/skillmatch/internal/matching"
)

type Review struct {
	Fit        bool    `json:"fit" yaml:"fit"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Summary    string  `json:"summary" yaml:"summary"`
	Raw        string  `json:"-" yaml:"-"`
}

type Reviewer interface {
	Review(ctx context.Context, requester *matching.Requester, candidate *matching.Candidate, score float64) (*Review, error)
}
