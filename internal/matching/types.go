// Package matching assigns candidates to requesters one-to-one with a greedy,
// tie-randomized allocation over a weighted compatibility score.
package matching

// Candidate is a person eligible for assignment.
type Candidate struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Skills     []string `json:"skills" yaml:"skills"`
	Experience int      `json:"exp_years" yaml:"exp_years"`
	Location   string   `json:"location" yaml:"location"`
}

// Requester is a job opening seeking exactly one candidate.
type Requester struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	RequiredSkills []string `json:"req_skills" yaml:"req_skills"`
	MinExperience  int      `json:"min_exp" yaml:"min_exp"`
	Location       string   `json:"location" yaml:"location"`
}

// Edge is a scored requester/candidate pair.
type Edge struct {
	RequesterID string
	CandidateID string
	Score       float64
}

// ScoredCandidate is one entry of a requester's adjacency list.
type ScoredCandidate struct {
	CandidateID string  `json:"candidate_id" yaml:"candidate_id"`
	Score       float64 `json:"score" yaml:"score"`
}

// RankedMatch is a committed assignment as replayed by the ranked index.
type RankedMatch struct {
	Score       float64 `json:"score" yaml:"score"`
	RequesterID string  `json:"requester_id" yaml:"requester_id"`
	CandidateID string  `json:"candidate_id" yaml:"candidate_id"`
}

// Stats counts what happened during a run.
type Stats struct {
	EdgesCreated   int `json:"edges_created" yaml:"edges_created"`
	EdgesProcessed int `json:"edges_processed" yaml:"edges_processed"`
	MatchesMade    int `json:"matches_made" yaml:"matches_made"`
	TiesBroken     int `json:"ties_broken" yaml:"ties_broken"`
}
