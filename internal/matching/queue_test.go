package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePopsInDescendingScore(t *testing.T) {
	q := NewQueue([]Edge{
		{RequesterID: "R1", CandidateID: "C1", Score: 0.2},
		{RequesterID: "R2", CandidateID: "C2", Score: 0.9},
		{RequesterID: "R3", CandidateID: "C3", Score: 0.5},
	})

	require.Equal(t, 3, q.Len())

	top, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 0.9, top.Score)
	assert.Equal(t, 3, q.Len(), "peek must not remove")

	var scores []float64
	for q.Len() > 0 {
		e, _ := q.Pop()
		scores = append(scores, e.Score)
	}
	assert.Equal(t, []float64{0.9, 0.5, 0.2}, scores)
}

func TestQueueEqualScoresOrderedByIDs(t *testing.T) {
	q := NewQueue([]Edge{
		{RequesterID: "R2", CandidateID: "C1", Score: 0.7},
		{RequesterID: "R1", CandidateID: "C2", Score: 0.7},
		{RequesterID: "R1", CandidateID: "C1", Score: 0.7},
	})

	var got []string
	for q.Len() > 0 {
		e, _ := q.Pop()
		got = append(got, e.RequesterID+"-"+e.CandidateID)
	}
	assert.Equal(t, []string{"R1-C1", "R1-C2", "R2-C1"}, got)
}

func TestQueueEmptyAndReinsert(t *testing.T) {
	q := NewQueue(nil)

	_, ok := q.Pop()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)

	q.Push(Edge{RequesterID: "R1", CandidateID: "C1", Score: 0.1})
	q.Push(Edge{RequesterID: "R2", CandidateID: "C2", Score: 0.3})

	e, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "R2", e.RequesterID)
	assert.Equal(t, 1, q.Len())
}

func TestNewQueueCopiesInput(t *testing.T) {
	edges := []Edge{{RequesterID: "R1", CandidateID: "C1", Score: 0.4}}
	q := NewQueue(edges)
	edges[0].Score = 99

	e, _ := q.Pop()
	assert.Equal(t, 0.4, e.Score)
}
