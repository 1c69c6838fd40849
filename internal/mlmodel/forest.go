package mlmodel

import (
	"math"
	"math/rand"
)

// Forest family and training parameters, mirroring the settings the weak
// labels were originally tuned against.
const (
	FamilyForest = "forest"

	// ForestTrees is the ensemble size; exported so callers can size
	// progress reporting.
	ForestTrees = 600

	forestMaxDepth = 25
	forestMinLeaf  = 1
)

// Forest is a bagged ensemble of classification trees. Its probability is
// the mean of per-tree leaf positive fractions.
type Forest struct {
	Trees       []Tree `json:"trees"`
	NumFeatures int    `json:"num_features"`
}

// Family identifies the algorithm family of the artifact.
func (f *Forest) Family() string { return FamilyForest }

// PredictProba returns the ensemble's positive-class probability for one row.
func (f *Forest) PredictProba(row []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].Predict(row)
	}
	return sum / float64(len(f.Trees))
}

// TrainForest fits a bagged-tree ensemble on binary labels. Class imbalance
// is handled with balanced sample weights; each split considers a sqrt-sized
// random feature subset. Deterministic for a fixed seed. The progress
// callback, if non-nil, is invoked once per tree.
func TrainForest(x [][]float64, y []int, seed int64, progress func()) *Forest {
	n := len(x)
	numFeatures := len(x[0])

	// Balanced class weights: n / (2 * class count).
	var pos int
	for _, label := range y {
		if label == 1 {
			pos++
		}
	}
	neg := n - pos
	w := make([]float64, n)
	for i, label := range y {
		if label == 1 {
			w[i] = float64(n) / (2 * float64(pos))
		} else {
			w[i] = float64(n) / (2 * float64(neg))
		}
	}

	params := treeParams{
		maxDepth:    forestMaxDepth,
		minLeaf:     forestMinLeaf,
		featuresPer: int(math.Ceil(math.Sqrt(float64(numFeatures)))),
	}

	rng := rand.New(rand.NewSource(seed))
	forest := &Forest{NumFeatures: numFeatures, Trees: make([]Tree, 0, ForestTrees)}

	for t := 0; t < ForestTrees; t++ {
		bootX := make([][]float64, n)
		bootY := make([]int, n)
		bootW := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			bootX[i] = x[j]
			bootY[i] = y[j]
			bootW[i] = w[j]
		}
		forest.Trees = append(forest.Trees, fitClassificationTree(bootX, bootY, bootW, params, rng))
		if progress != nil {
			progress()
		}
	}
	return forest
}
