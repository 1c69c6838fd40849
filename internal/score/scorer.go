// Package score wraps a trained classifier with feature-schema alignment
// and a rule-based safety post-filter.
package score

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/subscout/subscout/internal/common"
	"github.com/subscout/subscout/internal/config"
	"github.com/subscout/subscout/internal/feature"
	"github.com/subscout/subscout/internal/merchant"
	"github.com/subscout/subscout/internal/mlmodel"
	"github.com/subscout/subscout/internal/model"
)

// Scorer scores merchant groups with a trained model. The feature schema
// comes from the model's metadata sidecar; every feature vector is aligned
// to it before scoring so a model is never fed columns in the wrong order.
type Scorer struct {
	model     mlmodel.Model
	resolver  *merchant.Resolver
	schema    []string
	cfg       config.Detection
	threshold float64
}

// NewScorer loads a model artifact and its metadata sidecar. A missing
// model file surfaces common.ErrModelUnavailable so the caller can fall
// back to the heuristic path. An unusable (missing or empty) feature schema
// falls back to the built-in feature order; that is only safe when the
// model was trained against the same list, so it is logged as a warning.
func NewScorer(modelPath, metaPath string, resolver *merchant.Resolver, cfg config.Detection, threshold float64) (*Scorer, error) {
	m, err := mlmodel.LoadModel(modelPath)
	if err != nil {
		return nil, err
	}

	schema := model.FeatureNames
	meta, err := mlmodel.LoadMetadata(metaPath)
	switch {
	case err != nil:
		slog.Warn("model metadata unusable; falling back to built-in feature order (less safe)",
			"path", metaPath, "error", err)
	case len(meta.Features) == 0:
		slog.Warn("model metadata has an empty feature list; falling back to built-in feature order (less safe)",
			"path", metaPath)
	default:
		schema = meta.Features
	}

	return &Scorer{
		model:     m,
		resolver:  resolver,
		schema:    schema,
		cfg:       cfg,
		threshold: threshold,
	}, nil
}

// Align materializes a feature vector in the model's schema order. Columns
// the schema names but the vector lacks are synthesized as zero; columns
// the vector has but the schema omits are dropped.
func (s *Scorer) Align(fv model.FeatureVector) []float64 {
	cols := fv.Columns()
	row := make([]float64, len(s.schema))
	for i, name := range s.schema {
		row[i] = cols[name]
	}
	return row
}

// Score runs merchant resolution and feature extraction on the batch,
// scores every merchant group, and applies the retail safety filter.
// Candidates come back ranked by post-filter probability.
//
// The safety filter exists because trained models demonstrably drift into
// false positives on retail and grocery merchants. Any merchant key on the
// recurring-but-not-subscription list without positive evidence (brand or
// hint) has its probability damped and its subscription flag forced off.
func (s *Scorer) Score(txns []model.Transaction) ([]model.ScoredCandidate, error) {
	resolved := s.resolver.Resolve(txns)
	groups := feature.GroupByMerchant(resolved)
	feats := feature.BuildTable(groups)

	out := make([]model.ScoredCandidate, 0, len(feats))
	for i, fv := range feats {
		prob := s.model.PredictProba(s.Align(fv))

		c := model.ScoredCandidate{
			MerchantKey:    fv.MerchantKey,
			Count:          fv.Count,
			MeanAmount:     fv.MeanAmount,
			RawProbability: prob,
			Probability:    prob,
			IsSubscription: prob >= s.threshold,
		}
		for _, tx := range groups[i].Transactions {
			if tx.Brand != "" {
				c.Brand = tx.Brand
				c.Category = tx.Category
				break
			}
		}

		if feature.HasRetailToken(fv.MerchantKey) && !fv.BrandHit && !fv.HintFlag {
			c.Probability = prob * s.cfg.DampingFactor
			c.IsSubscription = false
			c.Filtered = true
		}

		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].MerchantKey < out[j].MerchantKey
	})
	return out, nil
}

// IsModelUnavailable reports whether the error means no trained model could
// be loaded, the condition callers handle by using the heuristic path.
func IsModelUnavailable(err error) bool {
	return errors.Is(err, common.ErrModelUnavailable)
}
