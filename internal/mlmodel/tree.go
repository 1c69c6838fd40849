// Package mlmodel implements the trainable classifiers behind the
// probabilistic scorer: a bagged-tree ensemble and a boosted-tree ensemble,
// serialized as JSON artifacts with a feature-schema sidecar.
package mlmodel

import (
	"math/rand"
	"sort"
)

// Node is one node of a decision tree, stored in a flat slice so trees
// serialize cleanly. Leaves have Left == -1.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a single decision tree. For classification trees Value is the
// weighted positive fraction at the leaf; for regression trees it is the
// fitted leaf output.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks the tree for one feature row.
func (t *Tree) Predict(row []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left == -1 {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// treeParams controls tree growth.
type treeParams struct {
	maxDepth    int
	minLeaf     int
	featuresPer int // features sampled per split; 0 means all
}

// fitClassificationTree grows a weighted-gini CART tree on binary labels.
func fitClassificationTree(x [][]float64, y []int, w []float64, p treeParams, rng *rand.Rand) Tree {
	t := &Tree{}
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	growClassification(t, x, y, w, idx, 0, p, rng)
	return *t
}

func growClassification(t *Tree, x [][]float64, y []int, w []float64, idx []int, depth int, p treeParams, rng *rand.Rand) int {
	var wPos, wTot float64
	for _, i := range idx {
		wTot += w[i]
		if y[i] == 1 {
			wPos += w[i]
		}
	}
	leafValue := 0.0
	if wTot > 0 {
		leafValue = wPos / wTot
	}

	if depth >= p.maxDepth || len(idx) <= p.minLeaf || wPos == 0 || wPos == wTot {
		return appendLeaf(t, leafValue)
	}

	feat, thresh, ok := bestGiniSplit(x, y, w, idx, p, rng)
	if !ok {
		return appendLeaf(t, leafValue)
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feat] <= thresh {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return appendLeaf(t, leafValue)
	}

	node := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Feature: feat, Threshold: thresh})
	l := growClassification(t, x, y, w, left, depth+1, p, rng)
	r := growClassification(t, x, y, w, right, depth+1, p, rng)
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

func appendLeaf(t *Tree, value float64) int {
	t.Nodes = append(t.Nodes, Node{Feature: -1, Left: -1, Right: -1, Value: value})
	return len(t.Nodes) - 1
}

// bestGiniSplit scans a random feature subset for the split minimizing
// weighted gini impurity.
func bestGiniSplit(x [][]float64, y []int, w []float64, idx []int, p treeParams, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(x[idx[0]])
	features := sampleFeatures(numFeatures, p.featuresPer, rng)

	bestScore := 1e18
	bestFeat, bestThresh, found := 0, 0.0, false

	for _, f := range features {
		order := make([]int, len(idx))
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		var rightW, rightPos float64
		for _, i := range order {
			rightW += w[i]
			if y[i] == 1 {
				rightPos += w[i]
			}
		}
		var leftW, leftPos float64

		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftW += w[i]
			rightW -= w[i]
			if y[i] == 1 {
				leftPos += w[i]
				rightPos -= w[i]
			}
			if x[order[k]][f] == x[order[k+1]][f] {
				continue
			}
			score := giniSide(leftPos, leftW) + giniSide(rightPos, rightW)
			if score < bestScore {
				bestScore = score
				bestFeat = f
				bestThresh = (x[order[k]][f] + x[order[k+1]][f]) / 2
				found = true
			}
		}
	}
	return bestFeat, bestThresh, found
}

// giniSide is the weighted gini impurity contribution of one partition.
func giniSide(pos, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := pos / total
	return total * 2 * p * (1 - p)
}

// fitRegressionTree grows a Newton-step tree on gradients/hessians: splits
// maximize gain in sum(g)^2/sum(h), leaves output sum(g)/(sum(h)+lambda).
func fitRegressionTree(x [][]float64, grad, hess []float64, idx []int, p treeParams, lambda float64, rng *rand.Rand) Tree {
	t := &Tree{}
	growRegression(t, x, grad, hess, idx, 0, p, lambda, rng)
	return *t
}

func growRegression(t *Tree, x [][]float64, grad, hess []float64, idx []int, depth int, p treeParams, lambda float64, rng *rand.Rand) int {
	var g, h float64
	for _, i := range idx {
		g += grad[i]
		h += hess[i]
	}
	leafValue := g / (h + lambda)

	if depth >= p.maxDepth || len(idx) <= p.minLeaf {
		return appendLeaf(t, leafValue)
	}

	feat, thresh, ok := bestGainSplit(x, grad, hess, idx, p, lambda, rng)
	if !ok {
		return appendLeaf(t, leafValue)
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feat] <= thresh {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return appendLeaf(t, leafValue)
	}

	node := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Feature: feat, Threshold: thresh})
	l := growRegression(t, x, grad, hess, left, depth+1, p, lambda, rng)
	r := growRegression(t, x, grad, hess, right, depth+1, p, lambda, rng)
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

func bestGainSplit(x [][]float64, grad, hess []float64, idx []int, p treeParams, lambda float64, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(x[idx[0]])
	features := sampleFeatures(numFeatures, p.featuresPer, rng)

	var gTot, hTot float64
	for _, i := range idx {
		gTot += grad[i]
		hTot += hess[i]
	}
	parent := gTot * gTot / (hTot + lambda)

	bestGain := 1e-9
	bestFeat, bestThresh, found := 0, 0.0, false

	for _, f := range features {
		order := make([]int, len(idx))
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		var gL, hL float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			gL += grad[i]
			hL += hess[i]
			if x[order[k]][f] == x[order[k+1]][f] {
				continue
			}
			gR := gTot - gL
			hR := hTot - hL
			gain := gL*gL/(hL+lambda) + gR*gR/(hR+lambda) - parent
			if gain > bestGain {
				bestGain = gain
				bestFeat = f
				bestThresh = (x[order[k]][f] + x[order[k+1]][f]) / 2
				found = true
			}
		}
	}
	return bestFeat, bestThresh, found
}

// sampleFeatures picks k distinct feature indices, or all when k is 0 or
// exceeds the feature count.
func sampleFeatures(total, k int, rng *rand.Rand) []int {
	if k <= 0 || k >= total {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := rng.Perm(total)
	return perm[:k]
}
