package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreFullSkillAndLocationMatch(t *testing.T) {
	c := &Candidate{ID: "C001", Skills: []string{"Python", "Django", "PostgreSQL"}, Experience: 5, Location: "São Paulo"}
	r := &Requester{ID: "J001", RequiredSkills: []string{"Python", "Django", "PostgreSQL"}, MinExperience: 3, Location: "São Paulo"}

	// 5/3 years is below the 2x saturation point: 0.6 + 0.3*(5/3)/2 + 0.1
	assert.InDelta(t, 0.95, Score(c, r, DefaultWeights()), 1e-9)

	c.Experience = 6
	assert.InDelta(t, 1.0, Score(c, r, DefaultWeights()), 1e-9)
}

func TestScoreComponents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		candidate Candidate
		requester Requester
		expect    float64
	}{
		{
			name:      "skills compared case-insensitively",
			candidate: Candidate{Skills: []string{"python", "DJANGO"}, Experience: 0, Location: "RJ"},
			requester: Requester{RequiredSkills: []string{"Python", "Django"}, MinExperience: 4, Location: "SP"},
			expect:    0.6,
		},
		{
			name:      "partial skill overlap",
			candidate: Candidate{Skills: []string{"Go"}, Experience: 0},
			requester: Requester{RequiredSkills: []string{"Go", "Kafka", "Redis", "SQL"}, MinExperience: 1, Location: "x"},
			expect:    0.6 * 0.25,
		},
		{
			name:      "experience saturates at twice the minimum",
			candidate: Candidate{Experience: 40},
			requester: Requester{RequiredSkills: []string{"Rust"}, MinExperience: 2, Location: "x"},
			expect:    0.3,
		},
		{
			name:      "experience ratio below saturation",
			candidate: Candidate{Experience: 3},
			requester: Requester{RequiredSkills: []string{"Rust"}, MinExperience: 3, Location: "x"},
			expect:    0.15,
		},
		{
			name:      "zero minimum experience floors the denominator at one",
			candidate: Candidate{Experience: 1},
			requester: Requester{MinExperience: 0, Location: "x"},
			expect:    0.15,
		},
		{
			name:      "negative experience contributes nothing",
			candidate: Candidate{Experience: -5},
			requester: Requester{MinExperience: 2, Location: "x"},
			expect:    0,
		},
		{
			name:      "location bonus ignores case",
			candidate: Candidate{Location: "são paulo"},
			requester: Requester{Location: "São Paulo", MinExperience: 1},
			expect:    0.1,
		},
		{
			name:      "location bonus ignores surrounding whitespace",
			candidate: Candidate{Location: "  São Paulo\t"},
			requester: Requester{Location: "são paulo ", MinExperience: 1},
			expect:    0.1,
		},
		{
			name:      "different locations get no bonus",
			candidate: Candidate{Location: "São Paulo"},
			requester: Requester{Location: "São Paulo - SP", MinExperience: 1},
			expect:    0,
		},
		{
			name:      "empty skill sets",
			candidate: Candidate{},
			requester: Requester{Location: "Remote"},
			expect:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expect, Score(&tt.candidate, &tt.requester, DefaultWeights()), 1e-9)
		})
	}
}

func TestScoreDuplicateRequiredSkills(t *testing.T) {
	c := &Candidate{Skills: []string{"Go"}}
	r := &Requester{RequiredSkills: []string{"Go", "go"}, Location: "x"}

	// the overlap is counted on distinct skills, the denominator on the raw list
	assert.InDelta(t, 0.6*0.5, Score(c, r, DefaultWeights()), 1e-9)
}

func TestScoreBoundWithDefaultWeights(t *testing.T) {
	candidates := []Candidate{
		{Skills: nil, Experience: -3, Location: ""},
		{Skills: []string{"a", "b", "c"}, Experience: 100, Location: "here"},
		{Skills: []string{"A"}, Experience: 0, Location: "HERE"},
		{Skills: []string{"a", "b", "c", "d", "e"}, Experience: 2, Location: "there"},
	}
	requesters := []Requester{
		{RequiredSkills: nil, MinExperience: 0, Location: "here"},
		{RequiredSkills: []string{"a"}, MinExperience: 50, Location: "there"},
		{RequiredSkills: []string{"a", "b", "c"}, MinExperience: 1, Location: "here"},
	}

	for i := range candidates {
		for j := range requesters {
			score := Score(&candidates[i], &requesters[j], DefaultWeights())
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.1+1e-12)
		}
	}
}

func TestBreakdownFactorProfiles(t *testing.T) {
	t.Parallel()

	requester := &Requester{
		ID:             "V1",
		Title:          "Python Developer",
		RequiredSkills: []string{"Python", "Django", "PostgreSQL"},
		MinExperience:  3,
		Location:       "São Paulo",
	}

	tests := []struct {
		name      string
		candidate Candidate
		matched   int
		ratio     float64
		located   bool
		score     float64
	}{
		{
			name:      "perfect match",
			candidate: Candidate{ID: "C1", Skills: []string{"Python", "Django", "PostgreSQL"}, Experience: 5, Location: "São Paulo"},
			matched:   3,
			ratio:     5.0 / 3.0,
			located:   true,
			score:     0.95,
		},
		{
			name:      "other location",
			candidate: Candidate{ID: "C2", Skills: []string{"Python", "Django", "PostgreSQL"}, Experience: 5, Location: "Rio de Janeiro"},
			matched:   3,
			ratio:     5.0 / 3.0,
			score:     0.85,
		},
		{
			name:      "junior",
			candidate: Candidate{ID: "C3", Skills: []string{"Python", "Django", "PostgreSQL"}, Experience: 1, Location: "São Paulo"},
			matched:   3,
			ratio:     1.0 / 3.0,
			located:   true,
			score:     0.75,
		},
		{
			name:      "partial skills",
			candidate: Candidate{ID: "C4", Skills: []string{"Python", "Django"}, Experience: 5, Location: "São Paulo"},
			matched:   2,
			ratio:     5.0 / 3.0,
			located:   true,
			score:     0.75,
		},
		{
			name:      "single skill",
			candidate: Candidate{ID: "C5", Skills: []string{"Python"}, Experience: 5, Location: "São Paulo"},
			matched:   1,
			ratio:     5.0 / 3.0,
			located:   true,
			score:     0.55,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := Breakdown(&tt.candidate, requester, DefaultWeights())
			assert.Equal(t, tt.matched, b.SkillsMatched)
			assert.Equal(t, 3, b.SkillsRequired)
			assert.Equal(t, tt.candidate.Experience, b.Experience)
			assert.Equal(t, 3, b.MinExperience)
			assert.InDelta(t, tt.ratio, b.ExperienceRatio, 1e-9)
			assert.Equal(t, tt.located, b.LocationMatch)
			assert.InDelta(t, tt.score, b.Score, 1e-9)
			assert.InDelta(t, b.Score, b.SkillPart+b.ExperiencePart+b.LocationPart, 1e-12)
			assert.Equal(t, Score(&tt.candidate, requester, DefaultWeights()), b.Score)
		})
	}
}

func TestBreakdownUsesWeights(t *testing.T) {
	c := &Candidate{Skills: []string{"Go"}, Experience: 10, Location: "Lisbon"}
	r := &Requester{RequiredSkills: []string{"Go", "SQL"}, MinExperience: 2, Location: "lisbon"}

	b := Breakdown(c, r, Weights{Skill: 1, Experience: 0.5, Location: 0.25})
	assert.InDelta(t, 0.5, b.SkillPart, 1e-9)
	assert.InDelta(t, 0.5, b.ExperiencePart, 1e-9)
	assert.InDelta(t, 0.25, b.LocationPart, 1e-9)
	assert.InDelta(t, maxExperienceRatio, b.ExperienceRatio, 1e-9)
}
