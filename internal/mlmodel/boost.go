package mlmodel

import (
	"math"
	"math/rand"
)

// Boost family and training parameters.
const (
	FamilyBoost = "boost"

	BoostRounds    = 800
	boostMaxDepth  = 4
	boostLearnRate = 0.05
	boostSubsample = 0.9
	boostColsample = 0.9
	boostLambda    = 1.0
)

// Boost is a gradient-boosted tree ensemble with logistic loss. Trees are
// Newton-step regression trees over the running margin.
type Boost struct {
	Trees        []Tree  `json:"trees"`
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	NumFeatures  int     `json:"num_features"`
}

// Family identifies the algorithm family of the artifact.
func (b *Boost) Family() string { return FamilyBoost }

// PredictProba returns the boosted ensemble's positive-class probability.
func (b *Boost) PredictProba(row []float64) float64 {
	margin := b.BaseScore
	for i := range b.Trees {
		margin += b.LearningRate * b.Trees[i].Predict(row)
	}
	return sigmoid(margin)
}

// TrainBoost fits a boosted-tree ensemble on binary labels. Positive samples
// are up-weighted by neg/pos to counter imbalance; each round subsamples
// rows and features. Deterministic for a fixed seed. The progress callback,
// if non-nil, is invoked once per boosting round.
func TrainBoost(x [][]float64, y []int, seed int64, progress func()) *Boost {
	n := len(x)
	numFeatures := len(x[0])

	var pos int
	for _, label := range y {
		if label == 1 {
			pos++
		}
	}
	neg := n - pos

	scalePosWeight := 1.0
	if pos > 0 {
		scalePosWeight = float64(neg) / float64(pos)
	}
	w := make([]float64, n)
	for i, label := range y {
		if label == 1 {
			w[i] = scalePosWeight
		} else {
			w[i] = 1.0
		}
	}

	// Base margin from the weighted prior odds.
	var wPos, wTot float64
	for i := range y {
		wTot += w[i]
		if y[i] == 1 {
			wPos += w[i]
		}
	}
	prior := wPos / wTot
	base := math.Log(prior / (1 - prior))

	b := &Boost{
		BaseScore:    base,
		LearningRate: boostLearnRate,
		NumFeatures:  numFeatures,
		Trees:        make([]Tree, 0, BoostRounds),
	}

	params := treeParams{
		maxDepth:    boostMaxDepth,
		minLeaf:     1,
		featuresPer: int(math.Ceil(boostColsample * float64(numFeatures))),
	}

	rng := rand.New(rand.NewSource(seed))
	margin := make([]float64, n)
	for i := range margin {
		margin[i] = base
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	sampleSize := int(boostSubsample * float64(n))
	if sampleSize < 1 {
		sampleSize = 1
	}

	for round := 0; round < BoostRounds; round++ {
		for i := range x {
			p := sigmoid(margin[i])
			grad[i] = w[i] * (float64(y[i]) - p)
			hess[i] = w[i] * p * (1 - p)
		}

		idx := rng.Perm(n)[:sampleSize]
		tree := fitRegressionTree(x, grad, hess, idx, params, boostLambda, rng)
		b.Trees = append(b.Trees, tree)

		for i := range x {
			margin[i] += boostLearnRate * tree.Predict(x[i])
		}
		if progress != nil {
			progress()
		}
	}
	return b
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
