package matching

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// DefaultTopK is the size of per-requester rankings.
const DefaultTopK = 3

// Config holds the engine's tunables. Every field is optional: zero values
// select the defaults of DefaultConfig.
type Config struct {
	// Seed fixes tie-break choices. Nil means unseeded.
	Seed         *int64  `mapstructure:"seed"`
	MinScore     float64 `mapstructure:"min-score"`
	TieEpsilon   float64 `mapstructure:"tie-epsilon"`
	IndexEpsilon float64 `mapstructure:"index-epsilon"`
	TopK         int     `mapstructure:"top-k"`
	Weights      Weights `mapstructure:"weights"`
}

func DefaultConfig() Config {
	return Config{
		MinScore:     0.0,
		TieEpsilon:   DefaultTieEpsilon,
		IndexEpsilon: DefaultIndexEpsilon,
		TopK:         DefaultTopK,
		Weights:      DefaultWeights(),
	}
}

// normalized replaces unset fields with their defaults, so a zero Config
// behaves like DefaultConfig. MinScore keeps its value: zero is the default.
func (c Config) normalized() Config {
	if c.TieEpsilon <= 0 {
		c.TieEpsilon = DefaultTieEpsilon
	}
	if c.IndexEpsilon <= 0 {
		c.IndexEpsilon = DefaultIndexEpsilon
	}
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
	return c
}

// Result is what a run exposes to reporting code.
type Result struct {
	Assignments          map[string]string            `json:"assignments" yaml:"assignments"`
	Ranking              []RankedMatch                `json:"ranking" yaml:"ranking"`
	TopK                 map[string][]ScoredCandidate `json:"top_k" yaml:"top_k"`
	Stats                Stats                        `json:"stats" yaml:"stats"`
	UnfilledRequesters   []string                     `json:"unfilled_requesters" yaml:"unfilled_requesters"`
	UnassignedCandidates []string                     `json:"unassigned_candidates" yaml:"unassigned_candidates"`
}

// registry keeps entities by ID in first-insertion order; a repeated ID
// replaces the stored value in place.
type registry[T any] struct {
	index map[string]int
	items []*T
}

func newRegistry[T any]() registry[T] {
	return registry[T]{index: make(map[string]int)}
}

func (r *registry[T]) put(id string, v *T) {
	if i, ok := r.index[id]; ok {
		r.items[i] = v
		return
	}
	r.index[id] = len(r.items)
	r.items = append(r.items, v)
}

func (r *registry[T]) get(id string) (*T, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.items[i], true
}

// Engine owns one matching run. It is not safe for concurrent use; run
// independent engines for independent runs.
type Engine struct {
	cfg    Config
	logger *zap.Logger

	candidates registry[Candidate]
	requesters registry[Requester]

	graph     *Graph
	index     *RankedIndex
	allocator *Allocator
	result    *Result
}

func New(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		cfg:        cfg.normalized(),
		logger:     logger,
		candidates: newRegistry[Candidate](),
		requesters: newRegistry[Requester](),
	}
}

// AddCandidate stores a copy of c. Entities added after Run are ignored.
func (e *Engine) AddCandidate(c Candidate) {
	e.candidates.put(c.ID, &c)
}

// AddRequester stores a copy of r. Entities added after Run are ignored.
func (e *Engine) AddRequester(r Requester) {
	e.requesters.put(r.ID, &r)
}

func (e *Engine) Candidate(id string) (*Candidate, bool) { return e.candidates.get(id) }

func (e *Engine) Requester(id string) (*Requester, bool) { return e.requesters.get(id) }

// Candidates returns the loaded candidates in insertion order.
func (e *Engine) Candidates() []*Candidate { return slices.Clone(e.candidates.items) }

// Requesters returns the loaded requesters in insertion order.
func (e *Engine) Requesters() []*Requester { return slices.Clone(e.requesters.items) }

// Run builds the graph, drains the queue and returns the result. Later calls
// return the result of the first one. The context is only consulted before
// the run starts: allocation itself is synchronous.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if e.result != nil {
		return e.copyResult(), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("starting matching run: %w", err)
	}

	e.logger.Info("building compatibility graph",
		zap.Int("candidates", len(e.candidates.items)),
		zap.Int("requesters", len(e.requesters.items)),
		zap.Float64("min_score", e.cfg.MinScore),
	)

	e.graph = BuildGraph(e.candidates.items, e.requesters.items, e.cfg.MinScore, e.cfg.Weights)

	e.logger.Info("compatibility graph built",
		zap.Int("edges_created", e.graph.EdgesCreated()),
		zap.Int("connected_requesters", len(e.graph.Requesters())),
	)

	e.index = NewRankedIndex(e.cfg.IndexEpsilon)
	e.allocator = NewAllocator(
		NewQueue(e.graph.Edges()),
		e.index,
		e.cfg.TieEpsilon,
		NewRand(e.cfg.Seed),
		e.logger,
	)
	e.allocator.Run()

	stats := e.allocator.Stats()
	stats.EdgesCreated = e.graph.EdgesCreated()

	e.logger.Info("greedy allocation finished",
		zap.Int("matches_made", stats.MatchesMade),
		zap.Int("edges_processed", stats.EdgesProcessed),
		zap.Int("ties_broken", stats.TiesBroken),
		zap.Int("index_nodes", e.index.Nodes()),
		zap.Int("index_depth", e.index.Depth()),
	)

	assignments := e.allocator.Assignments()
	byCandidate := e.allocator.CandidateAssignments()

	result := &Result{
		Assignments: assignments,
		Ranking:     e.index.All(),
		TopK:        e.graph.TopK(e.cfg.TopK),
		Stats:       stats,
	}
	for _, r := range e.requesters.items {
		if _, ok := assignments[r.ID]; !ok {
			result.UnfilledRequesters = append(result.UnfilledRequesters, r.ID)
		}
	}
	for _, c := range e.candidates.items {
		if _, ok := byCandidate[c.ID]; !ok {
			result.UnassignedCandidates = append(result.UnassignedCandidates, c.ID)
		}
	}

	e.result = result
	return e.copyResult(), nil
}

// Graph returns the graph built by Run, or nil before it.
func (e *Engine) Graph() *Graph { return e.graph }

// Breakdown explains the score of a loaded requester/candidate pair with the
// engine's weights. It reports false when either ID is unknown.
func (e *Engine) Breakdown(requesterID, candidateID string) (ScoreBreakdown, bool) {
	r, ok := e.requesters.get(requesterID)
	if !ok {
		return ScoreBreakdown{}, false
	}
	c, ok := e.candidates.get(candidateID)
	if !ok {
		return ScoreBreakdown{}, false
	}
	return Breakdown(c, r, e.cfg.Weights), true
}

// copyResult hands out a deep copy so callers cannot mutate the cached run.
func (e *Engine) copyResult() *Result {
	r := e.result
	topK := make(map[string][]ScoredCandidate, len(r.TopK))
	for id, list := range r.TopK {
		topK[id] = slices.Clone(list)
	}

	return &Result{
		Assignments:          maps.Clone(r.Assignments),
		Ranking:              slices.Clone(r.Ranking),
		TopK:                 topK,
		Stats:                r.Stats,
		UnfilledRequesters:   slices.Clone(r.UnfilledRequesters),
		UnassignedCandidates: slices.Clone(r.UnassignedCandidates),
	}
}
