package matching

import "sort"

// Graph is the bipartite compatibility graph: for each requester, the
// candidates scoring strictly above the build threshold.
type Graph struct {
	adjacency    map[string][]ScoredCandidate
	order        []string
	edges        []Edge
	edgesCreated int
}

// BuildGraph scores every requester/candidate pair and keeps those with
// score > minScore. Requesters and candidates are visited in slice order,
// which fixes the order of Edges and of each adjacency list.
func BuildGraph(candidates []*Candidate, requesters []*Requester, minScore float64, w Weights) *Graph {
	g := &Graph{adjacency: make(map[string][]ScoredCandidate)}

	for _, r := range requesters {
		for _, c := range candidates {
			score := Score(c, r, w)
			if score <= minScore {
				continue
			}

			if _, ok := g.adjacency[r.ID]; !ok {
				g.order = append(g.order, r.ID)
			}
			g.adjacency[r.ID] = append(g.adjacency[r.ID], ScoredCandidate{CandidateID: c.ID, Score: score})
			g.edges = append(g.edges, Edge{RequesterID: r.ID, CandidateID: c.ID, Score: score})
			g.edgesCreated++
		}
	}

	return g
}

// Edges returns every edge in build order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Neighbours returns the adjacency list of a requester in build order.
func (g *Graph) Neighbours(requesterID string) []ScoredCandidate {
	return append([]ScoredCandidate(nil), g.adjacency[requesterID]...)
}

// Requesters returns the IDs of requesters having at least one edge.
func (g *Graph) Requesters() []string {
	return append([]string(nil), g.order...)
}

func (g *Graph) EdgesCreated() int { return g.edgesCreated }

// TopK returns, per requester, its k best candidates by score. Equal scores
// keep build order. Commitments made by the allocator are not considered.
func (g *Graph) TopK(k int) map[string][]ScoredCandidate {
	result := make(map[string][]ScoredCandidate, len(g.adjacency))
	if k <= 0 {
		return result
	}

	for id, list := range g.adjacency {
		sorted := append([]ScoredCandidate(nil), list...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Score > sorted[j].Score
		})
		if len(sorted) > k {
			sorted = sorted[:k]
		}
		result[id] = sorted
	}

	return result
}
