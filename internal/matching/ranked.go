package matching

import "math"

// DefaultIndexEpsilon is the tolerance under which two scores share a node.
const DefaultIndexEpsilon = 1e-9

const nilNode = -1

type rankedPair struct {
	requesterID string
	candidateID string
}

type rankedNode struct {
	score       float64
	pairs       []rankedPair
	left, right int
}

// RankedIndex is an unbalanced binary search tree keyed by score. Nodes live
// in an arena and reference children by index; insert and traversal are
// iterative, so a degenerate score distribution cannot exhaust the stack.
type RankedIndex struct {
	nodes   []rankedNode
	root    int
	epsilon float64
	total   int
}

// NewRankedIndex returns an empty index. A negative epsilon selects
// DefaultIndexEpsilon.
func NewRankedIndex(epsilon float64) *RankedIndex {
	if epsilon < 0 {
		epsilon = DefaultIndexEpsilon
	}
	return &RankedIndex{root: nilNode, epsilon: epsilon}
}

// Insert records a match. A score within epsilon of an existing node is
// appended to that node's bucket instead of creating a new node.
func (x *RankedIndex) Insert(score float64, requesterID, candidateID string) {
	pair := rankedPair{requesterID: requesterID, candidateID: candidateID}
	x.total++

	if x.root == nilNode {
		x.root = x.newNode(score, pair)
		return
	}

	cur := x.root
	for {
		node := &x.nodes[cur]
		if math.Abs(score-node.score) < x.epsilon {
			node.pairs = append(node.pairs, pair)
			return
		}

		if score < node.score {
			if node.left == nilNode {
				idx := x.newNode(score, pair)
				x.nodes[cur].left = idx
				return
			}
			cur = node.left
			continue
		}

		if node.right == nilNode {
			idx := x.newNode(score, pair)
			x.nodes[cur].right = idx
			return
		}
		cur = node.right
	}
}

// newNode appends to the arena; pointers into x.nodes are invalid afterwards.
func (x *RankedIndex) newNode(score float64, pair rankedPair) int {
	x.nodes = append(x.nodes, rankedNode{
		score: score,
		pairs: []rankedPair{pair},
		left:  nilNode,
		right: nilNode,
	})
	return len(x.nodes) - 1
}

// All returns every match in descending score order: right subtree, the
// node's bucket in insertion order, then left subtree.
func (x *RankedIndex) All() []RankedMatch {
	result := make([]RankedMatch, 0, x.total)
	stack := make([]int, 0, len(x.nodes))

	cur := x.root
	for cur != nilNode || len(stack) > 0 {
		for cur != nilNode {
			stack = append(stack, cur)
			cur = x.nodes[cur].right
		}

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := x.nodes[top]
		for _, p := range node.pairs {
			result = append(result, RankedMatch{
				Score:       node.score,
				RequesterID: p.requesterID,
				CandidateID: p.candidateID,
			})
		}
		cur = node.left
	}

	return result
}

// Len is the number of matches inserted.
func (x *RankedIndex) Len() int { return x.total }

// Nodes is the number of distinct score buckets.
func (x *RankedIndex) Nodes() int { return len(x.nodes) }

// Depth is the height of the tree; zero when empty.
func (x *RankedIndex) Depth() int {
	if x.root == nilNode {
		return 0
	}

	type frame struct{ node, depth int }
	deepest := 0
	stack := []frame{{x.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		deepest = max(deepest, f.depth)

		node := x.nodes[f.node]
		if node.left != nilNode {
			stack = append(stack, frame{node.left, f.depth + 1})
		}
		if node.right != nilNode {
			stack = append(stack, frame{node.right, f.depth + 1})
		}
	}

	return deepest
}
