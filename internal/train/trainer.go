package train

import (
	"log/slog"
	"math/rand"
	"path/filepath"

	"github.com/subscout/subscout/internal/config"
	"github.com/subscout/subscout/internal/feature"
	"github.com/subscout/subscout/internal/merchant"
	"github.com/subscout/subscout/internal/mlmodel"
	"github.com/subscout/subscout/internal/model"
)

// trainSeed fixes every random decision during training so repeated runs on
// the same batch produce identical artifacts.
const trainSeed = 42

// holdoutFraction of merchant groups reserved for evaluation, split
// stratified by label.
const holdoutFraction = 0.25

// ProgressFunc is called once per training stage with the number of steps;
// the returned tick function is invoked after each step. May be nil.
type ProgressFunc func(stage string, total int) func()

// Result describes the artifacts produced by one training run.
type Result struct {
	ForestPath   string
	BoostPath    string
	MetadataPath string
	Metadata     mlmodel.Metadata
	ForestReport Report
	BoostReport  Report
}

// Trainer fits both classifier families from a raw transaction batch.
type Trainer struct {
	resolver *merchant.Resolver
	cfg      config.Detection
	progress ProgressFunc
}

// NewTrainer creates a trainer. progress may be nil.
func NewTrainer(resolver *merchant.Resolver, cfg config.Detection, progress ProgressFunc) *Trainer {
	return &Trainer{resolver: resolver, cfg: cfg, progress: progress}
}

// Train derives weak labels from the batch, fits the bagged-tree and
// boosted-tree ensembles on a stratified split, evaluates both on the
// holdout, and writes all artifacts plus the metadata sidecar to outDir.
// Fails fast when the weak labels are single-class.
func (t *Trainer) Train(txns []model.Transaction, outDir string) (*Result, error) {
	resolved := t.resolver.Resolve(txns)
	groups := feature.GroupByMerchant(resolved)
	feats := feature.BuildTable(groups)

	labels, err := Labels(t.cfg, feats)
	if err != nil {
		return nil, err
	}

	x := make([][]float64, len(feats))
	for i := range feats {
		x[i] = feats[i].Row()
	}

	trainIdx, testIdx := stratifiedSplit(labels, holdoutFraction, trainSeed)
	xTr, yTr := subset(x, labels, trainIdx)
	xTe, yTe := subset(x, labels, testIdx)

	slog.Info("training subscription classifiers",
		"groups", len(feats),
		"train", len(trainIdx),
		"holdout", len(testIdx))

	forest := mlmodel.TrainForest(xTr, yTr, trainSeed, t.tick("forest", mlmodel.ForestTrees))
	boost := mlmodel.TrainBoost(xTr, yTr, trainSeed, t.tick("boost", mlmodel.BoostRounds))

	var pos int
	for _, l := range labels {
		pos += l
	}
	meta := mlmodel.Metadata{
		Version:  mlmodel.MetadataVersion,
		Features: model.FeatureNames,
		NSamples: len(labels),
		ClassBalance: mlmodel.ClassBalance{
			Pos: pos,
			Neg: len(labels) - pos,
		},
	}

	res := &Result{
		ForestPath:   filepath.Join(outDir, mlmodel.ForestArtifact),
		BoostPath:    filepath.Join(outDir, mlmodel.BoostArtifact),
		MetadataPath: filepath.Join(outDir, mlmodel.MetadataArtifact),
		Metadata:     meta,
		ForestReport: Evaluate("forest_subscription", forest, xTe, yTe),
		BoostReport:  Evaluate("boost_subscription", boost, xTe, yTe),
	}

	if err := mlmodel.SaveModel(res.ForestPath, forest); err != nil {
		return nil, err
	}
	if err := mlmodel.SaveModel(res.BoostPath, boost); err != nil {
		return nil, err
	}
	if err := mlmodel.SaveMetadata(res.MetadataPath, meta); err != nil {
		return nil, err
	}
	if err := res.ForestReport.Write(filepath.Join(outDir, "forest_metrics.json")); err != nil {
		return nil, err
	}
	if err := res.BoostReport.Write(filepath.Join(outDir, "boost_metrics.json")); err != nil {
		return nil, err
	}

	return res, nil
}

func (t *Trainer) tick(stage string, total int) func() {
	if t.progress == nil {
		return nil
	}
	return t.progress(stage, total)
}

// stratifiedSplit reserves roughly frac of each class for the holdout,
// keeping at least one sample of each class on both sides when possible.
func stratifiedSplit(labels []int, frac float64, seed int64) (trainIdx, testIdx []int) {
	var posIdx, negIdx []int
	for i, l := range labels {
		if l == 1 {
			posIdx = append(posIdx, i)
		} else {
			negIdx = append(negIdx, i)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	split := func(idx []int) (tr, te []int) {
		shuffled := make([]int, len(idx))
		copy(shuffled, idx)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		nTest := int(frac * float64(len(shuffled)))
		if nTest < 1 && len(shuffled) > 1 {
			nTest = 1
		}
		return shuffled[nTest:], shuffled[:nTest]
	}

	posTr, posTe := split(posIdx)
	negTr, negTe := split(negIdx)
	trainIdx = append(append(trainIdx, posTr...), negTr...)
	testIdx = append(append(testIdx, posTe...), negTe...)
	return trainIdx, testIdx
}

func subset(x [][]float64, y []int, idx []int) ([][]float64, []int) {
	xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
