package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Reviewer asks a Gemini model for a second opinion on a committed match.
type Reviewer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Reviewer = (*Reviewer)(nil)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewReviewer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reviewer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (r *Reviewer) Review(ctx context.Context, requester *matching.Requester, candidate *matching.Candidate, score float64) (*ai.Review, error) {
	if requester == nil {
		return nil, errors.New("requester is required")
	}
	if candidate == nil {
		return nil, errors.New("candidate is required")
	}

	requesterJSON, err := json.MarshalIndent(requester, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal requester payload: %w", err)
	}

	candidateJSON, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal candidate payload: %w", err)
	}

	prompt := buildPrompt(string(requesterJSON), string(candidateJSON), score)

	r.logger.Debug("gemini generate content request",
		zap.String("requester_id", requester.ID),
		zap.String("candidate_id", candidate.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.PreviewForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini generate content response",
		zap.String("requester_id", requester.ID),
		zap.String("candidate_id", candidate.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.PreviewForLog(raw, r.maxLogLen)),
	)

	review, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	review.Raw = raw
	return review, nil
}

func buildPrompt(requesterJSON, candidateJSON string, score float64) string {
	prompt := strings.ReplaceAll(promptTemplate, "{{REQUESTER_JSON}}", requesterJSON)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_JSON}}", candidateJSON)
	prompt = strings.ReplaceAll(prompt, "{{SCORE}}", strconv.FormatFloat(score, 'f', 3, 64))
	return prompt
}

func parseResponse(raw string) (*ai.Review, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	confidence := coerceFloat(data["confidence"])
	if math.IsNaN(confidence) {
		confidence = 0
	}
	confidence = min(max(confidence, 0), 1)

	return &ai.Review{
		Fit:        coerceBool(data["fit"]),
		Confidence: confidence,
		Summary:    coerceString(data["summary"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
