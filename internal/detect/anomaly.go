package detect

import (
	"math"
	"math/rand"

	"github.com/subscout/subscout/internal/config"
	"github.com/subscout/subscout/internal/feature"
	"github.com/subscout/subscout/internal/model"
)

// Anomaly detector tuning. The forest parameters and seed are fixed so the
// same amounts always produce the same flags.
const (
	forestTrees     = 200
	forestSampleCap = 256
	forestSeed      = 42
	forestCutoff    = 0.6

	methodZScore    = "zscore"
	methodIsoForest = "isoforest"
)

// Flagger marks transactions whose absolute amount is an outlier within
// their own merchant group. Groups with enough history use a seeded 1-D
// isolation forest; small groups fall back to a z-score test, because
// forest estimators are unreliable on very small samples.
type Flagger struct {
	cfg config.Detection
}

// NewFlagger creates an anomaly flagger with the given thresholds.
func NewFlagger(cfg config.Detection) *Flagger {
	return &Flagger{cfg: cfg}
}

// Flag returns the outlier transactions of one merchant group.
func (f *Flagger) Flag(g feature.Group) []model.AnomalyFlag {
	amounts := make([]float64, len(g.Transactions))
	for i, tx := range g.Transactions {
		amounts[i] = tx.AbsAmount()
	}

	var flags []model.AnomalyFlag
	if len(amounts) >= f.cfg.ForestMinSamples {
		scores := isoForestScores(amounts)
		for i, s := range scores {
			if s >= forestCutoff {
				flags = append(flags, model.AnomalyFlag{
					Transaction: g.Transactions[i],
					MerchantKey: g.Key,
					Score:       s,
					Method:      methodIsoForest,
				})
			}
		}
		return flags
	}

	mu := mean(amounts)
	sd := popStddev(amounts)
	if sd <= 0 {
		sd = 1.0
	}
	for i, a := range amounts {
		z := math.Abs(a-mu) / sd
		if z >= f.cfg.ZScoreCutoff {
			flags = append(flags, model.AnomalyFlag{
				Transaction: g.Transactions[i],
				MerchantKey: g.Key,
				Score:       z,
				Method:      methodZScore,
			})
		}
	}
	return flags
}

// isoTreeNode is a node of a 1-D isolation tree. Leaves keep the subset
// size for the average-path-length adjustment.
type isoTreeNode struct {
	left, right *isoTreeNode
	split       float64
	size        int
}

// isoForestScores computes isolation anomaly scores in [0,1] for each value,
// higher meaning more isolated.
func isoForestScores(values []float64) []float64 {
	n := len(values)
	sampleSize := n
	if sampleSize > forestSampleCap {
		sampleSize = forestSampleCap
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSize))))

	rng := rand.New(rand.NewSource(forestSeed))
	trees := make([]*isoTreeNode, forestTrees)
	for t := range trees {
		sample := make([]float64, sampleSize)
		for i := range sample {
			sample[i] = values[rng.Intn(n)]
		}
		trees[t] = buildIsoTree(sample, 0, maxDepth, rng)
	}

	denom := avgPathLength(sampleSize)
	scores := make([]float64, n)
	for i, v := range values {
		sum := 0.0
		for _, tree := range trees {
			sum += pathLength(tree, v, 0)
		}
		avg := sum / float64(forestTrees)
		scores[i] = math.Pow(2, -avg/denom)
	}
	return scores
}

func buildIsoTree(sample []float64, depth, maxDepth int, rng *rand.Rand) *isoTreeNode {
	lo, hi := sample[0], sample[0]
	for _, v := range sample {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if len(sample) <= 1 || depth >= maxDepth || lo == hi {
		return &isoTreeNode{size: len(sample)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, v := range sample {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isoTreeNode{size: len(sample)}
	}
	return &isoTreeNode{
		split: split,
		left:  buildIsoTree(left, depth+1, maxDepth, rng),
		right: buildIsoTree(right, depth+1, maxDepth, rng),
	}
}

func pathLength(node *isoTreeNode, v float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if v < node.split {
		return pathLength(node.left, v, depth+1)
	}
	return pathLength(node.right, v, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649 // Euler-Mascheroni
	return 2*h - 2*float64(n-1)/float64(n)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func popStddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
