package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/matching"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

var (
	testRequester = &matching.Requester{ID: "J001", Title: "Python Developer", RequiredSkills: []string{"Python", "Django"}, MinExperience: 3, Location: "São Paulo"}
	testCandidate = &matching.Candidate{ID: "C001", Name: "Ana Silva", Skills: []string{"Python", "Django", "SQL"}, Experience: 5, Location: "São Paulo"}
)

func TestReviewerReview(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": true, "confidence": 0.8, "summary": "Strong Python background"}`}
	reviewer := NewReviewer(stub, zap.NewNop(), 0)

	review, err := reviewer.Review(context.Background(), testRequester, testCandidate, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !review.Fit {
		t.Fatalf("expected fit to be true")
	}

	if review.Confidence != 0.8 {
		t.Fatalf("expected confidence 0.8, got %v", review.Confidence)
	}

	if review.Summary != "Strong Python background" {
		t.Fatalf("unexpected summary: %s", review.Summary)
	}

	if review.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}

	for _, want := range []string{`"id": "J001"`, `"id": "C001"`, "Engine score: 0.950"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q, got: %s", want, stub.lastPrompt)
		}
	}

	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("expected every placeholder to be replaced")
	}
}

func TestReviewerErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	reviewer := NewReviewer(&stubGenerator{err: boom}, nil, 0)

	if _, err := reviewer.Review(context.Background(), testRequester, testCandidate, 0.5); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}

	if _, err := reviewer.Review(context.Background(), nil, testCandidate, 0.5); err == nil {
		t.Fatalf("expected error for nil requester")
	}

	if _, err := reviewer.Review(context.Background(), testRequester, nil, 0.5); err == nil {
		t.Fatalf("expected error for nil candidate")
	}

	bad := NewReviewer(&stubGenerator{response: "not json"}, nil, 0)
	if _, err := bad.Review(context.Background(), testRequester, testCandidate, 0.5); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		raw        string
		fit        bool
		confidence float64
		summary    string
	}{
		{
			name:       "fenced",
			raw:        "```json\n{\"fit\": \"yes\", \"confidence\": \"0.6\", \"summary\": \" ok \"}\n```",
			fit:        true,
			confidence: 0.6,
			summary:    "ok",
		},
		{
			name:       "clamped confidence",
			raw:        `{"fit": false, "confidence": 7, "summary": "no"}`,
			confidence: 1,
			summary:    "no",
		},
		{
			name:       "missing fields",
			raw:        `{}`,
			confidence: 0,
		},
		{
			name:       "non string summary",
			raw:        `{"fit": 1, "confidence": -2, "summary": ["a", "b"]}`,
			fit:        true,
			confidence: 0,
			summary:    `["a","b"]`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			review, err := parseResponse(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if review.Fit != tc.fit {
				t.Fatalf("expected fit %v, got %v", tc.fit, review.Fit)
			}
			if review.Confidence != tc.confidence {
				t.Fatalf("expected confidence %v, got %v", tc.confidence, review.Confidence)
			}
			if review.Summary != tc.summary {
				t.Fatalf("expected summary %q, got %q", tc.summary, review.Summary)
			}
		})
	}
}
