// Package engine orchestrates a full scan: merchant resolution, feature
// extraction, classification (heuristic or model-backed), and anomaly
// flagging over one transaction batch.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/subscout/subscout/internal/config"
	"github.com/subscout/subscout/internal/detect"
	"github.com/subscout/subscout/internal/feature"
	"github.com/subscout/subscout/internal/merchant"
	"github.com/subscout/subscout/internal/model"
	"github.com/subscout/subscout/internal/score"
	"github.com/subscout/subscout/internal/storage"
)

// Mode selects the classification path.
type Mode string

// Scan modes. ModeAuto prefers the trained model and degrades to the
// heuristic path with a logged notice when no model is available.
const (
	ModeHeuristic Mode = "heuristic"
	ModeModel     Mode = "model"
	ModeAuto      Mode = "auto"
)

// Options configures one scan invocation.
type Options struct {
	AsOf      time.Time // reference time for missed-cycle checks; zero means now
	Mode      Mode
	ModelPath string
	MetaPath  string
	Threshold float64 // probability cutoff for the model path; 0 means the configured default
	Workers   int     // per-group parallelism; 0 means GOMAXPROCS
}

// Result holds every table a scan produces. On the heuristic path
// Candidates is populated; on the model path Scored is. Features and
// Anomalies are always computed.
type Result struct {
	Mode       Mode // the path actually taken
	Candidates []model.SubscriptionCandidate
	Scored     []model.ScoredCandidate
	Features   []model.FeatureVector
	Anomalies  []model.AnomalyFlag

	TransactionCount int
}

// Engine runs scans. Construct once and reuse; it is safe for concurrent
// use because all loaded rules are read-only.
type Engine struct {
	resolver *merchant.Resolver
	cfg      config.Detection
}

// New creates an engine over the given merchant resolver and thresholds.
func New(resolver *merchant.Resolver, cfg config.Detection) *Engine {
	return &Engine{resolver: resolver, cfg: cfg}
}

// Scan processes one batch. An empty batch yields an empty, well-typed
// result rather than an error.
//
// Merchant resolution and fuzzy grouping are sequential: the grouper's
// first-representative-wins contract depends on stable input order.
// Per-group feature extraction and anomaly flagging have no cross-group
// dependency and fan out across a bounded worker pool.
func (e *Engine) Scan(ctx context.Context, txns []model.Transaction, opts Options) (*Result, error) {
	if opts.Mode == "" {
		opts.Mode = ModeHeuristic
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	result := &Result{Mode: opts.Mode, TransactionCount: len(txns)}
	if len(txns) == 0 {
		result.Candidates = []model.SubscriptionCandidate{}
		result.Features = []model.FeatureVector{}
		result.Anomalies = []model.AnomalyFlag{}
		if result.Mode != ModeHeuristic {
			result.Mode = ModeHeuristic
		}
		return result, nil
	}

	resolved := e.resolver.Resolve(txns)
	groups := feature.GroupByMerchant(resolved)

	feats := make([]model.FeatureVector, len(groups))
	anomalies := make([][]model.AnomalyFlag, len(groups))
	flagger := detect.NewFlagger(e.cfg)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range groups {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			feats[i] = feature.Extract(groups[i])
			anomalies[i] = flagger.Flag(groups[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	result.Features = feats
	for _, flags := range anomalies {
		result.Anomalies = append(result.Anomalies, flags...)
	}

	switch opts.Mode {
	case ModeModel, ModeAuto:
		scored, err := e.scoreWithModel(txns, opts)
		switch {
		case err == nil:
			result.Mode = opts.Mode
			if opts.Mode == ModeAuto {
				result.Mode = ModeModel
			}
			result.Scored = scored
			return result, nil
		case score.IsModelUnavailable(err) && opts.Mode == ModeAuto:
			slog.Info("trained model unavailable; falling back to heuristic path",
				"model_path", opts.ModelPath, "reason", err)
		default:
			return nil, err
		}
		fallthrough
	default:
		heuristic := detect.NewHeuristic(e.cfg)
		cands := make([]model.SubscriptionCandidate, len(groups))
		for i := range groups {
			cands[i] = heuristic.Classify(groups[i], feats[i], asOf)
		}
		detect.Rank(cands)
		result.Mode = ModeHeuristic
		result.Candidates = cands
		return result, nil
	}
}

func (e *Engine) scoreWithModel(txns []model.Transaction, opts Options) ([]model.ScoredCandidate, error) {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = e.cfg.ScoreThreshold
	}
	scorer, err := score.NewScorer(opts.ModelPath, opts.MetaPath, e.resolver, e.cfg, threshold)
	if err != nil {
		return nil, err
	}
	return scorer.Score(txns)
}

// ToScanRun converts a result into its storable form.
func (r *Result) ToScanRun(asOf time.Time) *storage.ScanRun {
	run := &storage.ScanRun{
		AsOf:             asOf,
		Mode:             string(r.Mode),
		TransactionCount: r.TransactionCount,
		Anomalies:        r.Anomalies,
	}
	for _, c := range r.Candidates {
		run.Candidates = append(run.Candidates, storage.RunCandidate{
			MerchantKey:    c.MerchantKey,
			Brand:          c.Brand,
			Category:       c.Category,
			Cadence:        string(c.Cadence),
			Count:          c.Count,
			MeanAmount:     c.MeanAmount,
			CV:             c.CV,
			IsRecurring:    c.IsRecurring,
			IsSubscription: c.IsSubscription,
			MissedCycle:    c.MissedCycle,
			LastDate:       c.LastDate,
			NextExpected:   c.NextExpected,
		})
	}
	for _, c := range r.Scored {
		prob := c.Probability
		run.Candidates = append(run.Candidates, storage.RunCandidate{
			MerchantKey:    c.MerchantKey,
			Brand:          c.Brand,
			Category:       c.Category,
			Count:          c.Count,
			MeanAmount:     c.MeanAmount,
			Probability:    &prob,
			IsSubscription: c.IsSubscription,
		})
	}
	return run
}
