package matching

import "container/heap"

var _ heap.Interface = (*edgeHeap)(nil)

// edgeHeap orders edges by score descending, then by requester and candidate
// ID ascending, so equal scores pop in the same order on every run.
type edgeHeap []Edge

func (h edgeHeap) Len() int { return len(h) }

func (h edgeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score > h[j].Score
	}
	if h[i].RequesterID != h[j].RequesterID {
		return h[i].RequesterID < h[j].RequesterID
	}
	return h[i].CandidateID < h[j].CandidateID
}

func (h edgeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *edgeHeap) Push(x any) {
	*h = append(*h, x.(Edge))
}

func (h *edgeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue is a max-priority queue of edges.
type Queue struct {
	items edgeHeap
}

// NewQueue returns a queue holding a copy of edges.
func NewQueue(edges []Edge) *Queue {
	q := &Queue{items: append(edgeHeap(nil), edges...)}
	heap.Init(&q.items)
	return q
}

func (q *Queue) Len() int { return q.items.Len() }

// Push inserts an edge. It may be called after the queue has been drained.
func (q *Queue) Push(e Edge) {
	heap.Push(&q.items, e)
}

// Pop removes and returns the highest-scoring edge.
func (q *Queue) Pop() (Edge, bool) {
	if q.items.Len() == 0 {
		return Edge{}, false
	}
	return heap.Pop(&q.items).(Edge), true
}

// Peek returns the highest-scoring edge without removing it.
func (q *Queue) Peek() (Edge, bool) {
	if q.items.Len() == 0 {
		return Edge{}, false
	}
	return q.items[0], true
}
