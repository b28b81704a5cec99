package matching

import (
	"maps"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
)

// DefaultTieEpsilon is the score distance under which queued edges are
// grouped into one tie. It is coarser than DefaultIndexEpsilon.
const DefaultTieEpsilon = 1e-6

// Allocator drains a queue greedily, committing at most one edge per
// requester and per candidate.
type Allocator struct {
	queue   *Queue
	index   *RankedIndex
	epsilon float64
	rng     *rand.Rand
	logger  *zap.Logger

	byRequester map[string]string
	byCandidate map[string]string
	stats       Stats
}

// NewAllocator wires an allocator over queue and index. rng is the only
// source of randomness; NewRand builds one from an optional seed.
func NewAllocator(queue *Queue, index *RankedIndex, epsilon float64, rng *rand.Rand, logger *zap.Logger) *Allocator {
	if epsilon < 0 {
		epsilon = DefaultTieEpsilon
	}
	if rng == nil {
		rng = NewRand(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Allocator{
		queue:       queue,
		index:       index,
		epsilon:     epsilon,
		rng:         rng,
		logger:      logger,
		byRequester: make(map[string]string),
		byCandidate: make(map[string]string),
	}
}

// NewRand returns a PCG-backed source. A nil seed draws the state from the
// runtime's entropy, so unseeded runs may differ in tie-break choices.
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := uint64(*seed)
	return rand.New(rand.NewPCG(s, s))
}

// Run drains the queue. Each iteration pops a seed edge, gathers every edge
// within epsilon of it, picks one free edge (at random when several are
// free), commits it and pushes the other still-free edges back.
func (a *Allocator) Run() {
	for a.queue.Len() > 0 {
		seed, _ := a.queue.Pop()
		a.stats.EdgesProcessed++

		if a.committed(seed) {
			continue
		}

		group := []Edge{seed}
		for {
			next, ok := a.queue.Peek()
			if !ok || math.Abs(next.Score-seed.Score) > a.epsilon {
				break
			}
			a.queue.Pop()
			a.stats.EdgesProcessed++
			group = append(group, next)
		}

		valid := make([]Edge, 0, len(group))
		for _, e := range group {
			if !a.committed(e) {
				valid = append(valid, e)
			}
		}
		if len(valid) == 0 {
			continue
		}

		chosen := 0
		if len(valid) > 1 {
			chosen = a.rng.IntN(len(valid))
			a.stats.TiesBroken++
			a.logger.Debug("tie broken",
				zap.Float64("score", seed.Score),
				zap.Int("tied_edges", len(valid)),
				zap.String("requester_id", valid[chosen].RequesterID),
				zap.String("candidate_id", valid[chosen].CandidateID),
			)
		}

		a.commit(valid[chosen])

		for i, e := range valid {
			if i == chosen || a.committed(e) {
				continue
			}
			a.queue.Push(e)
		}
	}
}

func (a *Allocator) committed(e Edge) bool {
	if _, ok := a.byRequester[e.RequesterID]; ok {
		return true
	}
	_, ok := a.byCandidate[e.CandidateID]
	return ok
}

func (a *Allocator) commit(e Edge) {
	a.byRequester[e.RequesterID] = e.CandidateID
	a.byCandidate[e.CandidateID] = e.RequesterID
	a.index.Insert(e.Score, e.RequesterID, e.CandidateID)
	a.stats.MatchesMade++
}

// Assignments returns a copy of the requester -> candidate mapping.
func (a *Allocator) Assignments() map[string]string {
	return maps.Clone(a.byRequester)
}

// CandidateAssignments returns a copy of the candidate -> requester mapping.
func (a *Allocator) CandidateAssignments() map[string]string {
	return maps.Clone(a.byCandidate)
}

// Stats returns the allocation counters. EdgesCreated is owned by the graph
// and left at zero here.
func (a *Allocator) Stats() Stats { return a.stats }
