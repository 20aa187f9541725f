package scoring

import "math/rand"

// node is one split or leaf of an isolation tree.
type node struct {
	feature     int
	threshold   float64
	left, right *node
	size        int // training rows that reached a leaf
}

func (n *node) leaf() bool { return n.left == nil }

// grow builds a subtree over rows[idx]. A node becomes a leaf when it holds
// at most one row, reaches the height limit, or every feature is constant.
func grow(rows [][]float64, idx []int, depth, limit int, rng *rand.Rand) *node {
	if len(idx) <= 1 || depth >= limit {
		return &node{size: len(idx)}
	}

	width := len(rows[idx[0]])
	lows := make([]float64, width)
	highs := make([]float64, width)
	copy(lows, rows[idx[0]])
	copy(highs, rows[idx[0]])
	for _, i := range idx[1:] {
		for j, v := range rows[i] {
			if v < lows[j] {
				lows[j] = v
			}
			if v > highs[j] {
				highs[j] = v
			}
		}
	}
	var candidates []int
	for j := 0; j < width; j++ {
		if highs[j] > lows[j] {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return &node{size: len(idx)}
	}

	feat := candidates[rng.Intn(len(candidates))]
	lo, hi := lows[feat], highs[feat]
	threshold := lo + rng.Float64()*(hi-lo)
	if threshold >= hi {
		threshold = lo
	}

	// Partition in place; rows at or below the threshold go left. Both sides
	// are non-empty because lo <= threshold < hi.
	k := 0
	for i := range idx {
		if rows[idx[i]][feat] <= threshold {
			idx[i], idx[k] = idx[k], idx[i]
			k++
		}
	}
	return &node{
		feature:   feat,
		threshold: threshold,
		left:      grow(rows, idx[:k], depth+1, limit, rng),
		right:     grow(rows, idx[k:], depth+1, limit, rng),
	}
}

// pathLength returns the depth at which x lands in the tree, adjusted by the
// expected depth of the unbuilt subtree below its leaf.
func (n *node) pathLength(x []float64, depth int) float64 {
	for !n.leaf() {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(n.size)
}
