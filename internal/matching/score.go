package matching

import "strings"

const maxExperienceRatio = 2.0

// Weights controls how the three sub-scores contribute to the final score.
type Weights struct {
	Skill      float64 `mapstructure:"skill" json:"skill" yaml:"skill"`
	Experience float64 `mapstructure:"experience" json:"experience" yaml:"experience"`
	Location   float64 `mapstructure:"location" json:"location" yaml:"location"`
}

// DefaultWeights returns 60% skills, 30% experience and a flat 0.1 location bonus.
func DefaultWeights() Weights {
	return Weights{Skill: 0.6, Experience: 0.3, Location: 0.1}
}

// ScoreBreakdown explains a score factor by factor.
type ScoreBreakdown struct {
	SkillsMatched   int     `json:"skills_matched" yaml:"skills_matched"`
	SkillsRequired  int     `json:"skills_required" yaml:"skills_required"`
	Experience      int     `json:"experience" yaml:"experience"`
	MinExperience   int     `json:"min_experience" yaml:"min_experience"`
	ExperienceRatio float64 `json:"experience_ratio" yaml:"experience_ratio"`
	LocationMatch   bool    `json:"location_match" yaml:"location_match"`

	// Weighted parts; they sum to Score.
	SkillPart      float64 `json:"skill_part" yaml:"skill_part"`
	ExperiencePart float64 `json:"experience_part" yaml:"experience_part"`
	LocationPart   float64 `json:"location_part" yaml:"location_part"`
	Score          float64 `json:"score" yaml:"score"`
}

// Score computes the compatibility of candidate c with requester r.
// With default weights the result lies in [0, 1.1]; it is not renormalized.
func Score(c *Candidate, r *Requester, w Weights) float64 {
	return Breakdown(c, r, w).Score
}

// Breakdown computes the score of c for r together with its factors.
func Breakdown(c *Candidate, r *Requester, w Weights) ScoreBreakdown {
	matched := skillOverlap(c.Skills, r.RequiredSkills)
	ratio := experienceRatio(c.Experience, r.MinExperience)
	located := sameLocation(c.Location, r.Location)

	b := ScoreBreakdown{
		SkillsMatched:   matched,
		SkillsRequired:  len(r.RequiredSkills),
		Experience:      c.Experience,
		MinExperience:   r.MinExperience,
		ExperienceRatio: ratio,
		LocationMatch:   located,
		SkillPart:       w.Skill * (float64(matched) / float64(max(1, len(r.RequiredSkills)))),
		ExperiencePart:  w.Experience * (ratio / maxExperienceRatio),
	}
	if located {
		b.LocationPart = w.Location
	}
	b.Score = b.SkillPart + b.ExperiencePart + b.LocationPart

	return b
}

// skillOverlap counts the distinct required skills, compared
// case-insensitively, that the candidate has.
func skillOverlap(have, required []string) int {
	owned := make(map[string]struct{}, len(have))
	for _, s := range have {
		owned[strings.ToLower(s)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(required))
	overlap := 0
	for _, s := range required {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := owned[key]; ok {
			overlap++
		}
	}

	return overlap
}

// experienceRatio is years over the requirement, clamped to [0, 2].
func experienceRatio(years, minimum int) float64 {
	ratio := float64(years) / float64(max(1, minimum))
	return min(max(ratio, 0), maxExperienceRatio)
}

// sameLocation ignores case and surrounding whitespace.
func sameLocation(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
