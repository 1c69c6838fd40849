package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subscout/subscout/internal/common"
	"github.com/subscout/subscout/internal/engine"
	"github.com/subscout/subscout/internal/mlmodel"
	"github.com/subscout/subscout/internal/model"
	"github.com/subscout/subscout/internal/score"
	"github.com/subscout/subscout/internal/storage"
)

func scanCmd() *cobra.Command {
	var (
		mode      string
		modelName string
		threshold float64
		asOfStr   string
		fromDB    bool
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "scan [statement files...]",
		Short: "Detect subscriptions and anomalies in a statement batch",
		Long: `Scan parses the given statement files (plain text, OFX, or QFX), resolves
merchant identities, and classifies repeated charges.

With --mode=auto the trained model is preferred and the rule-based detector
is used when no model artifact exists. --mode=model requires a model and
fails without one; --mode=heuristic never touches a model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadDetection()
			if err != nil {
				return err
			}
			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}

			var txns []model.Transaction
			switch {
			case fromDB:
				dbPath, err := defaultDBPath()
				if err != nil {
					return err
				}
				store, err := storage.NewSQLiteStorage(dbPath)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				txns, err = store.ListTransactions(ctx)
				if err != nil {
					return err
				}
			case len(args) > 0:
				txns, err = loadStatementFiles(ctx, args)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("provide statement files or --from-db")
			}

			asOf := time.Now()
			if asOfStr != "" {
				asOf, err = time.Parse("2006-01-02", asOfStr)
				if err != nil {
					return fmt.Errorf("invalid --as-of date %q: %w", asOfStr, err)
				}
			}

			modelsDir := viper.GetString("models.dir")
			opts := engine.Options{
				Mode:      engine.Mode(mode),
				AsOf:      asOf,
				ModelPath: filepath.Join(modelsDir, modelArtifact(modelName)),
				MetaPath:  filepath.Join(modelsDir, mlmodel.MetadataArtifact),
				Threshold: threshold,
			}

			result, err := engine.New(resolver, cfg).Scan(ctx, txns, opts)
			if err != nil {
				if score.IsModelUnavailable(err) {
					return common.NewUserError(
						"no trained model found; run 'subscout train' first or use --mode=heuristic", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Subscription candidates (%s)", result.Mode)))

			subCount := 0
			meanSum := 0.0
			if result.Mode == engine.ModeModel {
				printScored(out, result.Scored)
				for _, c := range result.Scored {
					if c.IsSubscription {
						subCount++
						meanSum += c.MeanAmount
					}
				}
			} else {
				printCandidates(out, result.Candidates)
				for _, c := range result.Candidates {
					if c.IsSubscription {
						subCount++
						meanSum += c.MeanAmount
					}
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, titleStyle.Render("Amount anomalies"))
			printAnomalies(out, result.Anomalies)

			meanAmount := 0.0
			if subCount > 0 {
				meanAmount = meanSum / float64(subCount)
			}
			fmt.Fprintln(out)
			printSummary(out, subCount, meanAmount)

			if save {
				dbPath, err := defaultDBPath()
				if err != nil {
					return err
				}
				store, err := storage.NewSQLiteStorage(dbPath)
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				run := result.ToScanRun(asOf)
				if err := store.SaveScanRun(ctx, run); err != nil {
					return err
				}
				fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf("Saved scan run %s", run.ID)))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "auto", "detection mode (auto, model, heuristic)")
	cmd.Flags().StringVar(&modelName, "model", "boost", "model family to prefer (forest, boost)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "subscription probability cutoff (default: configured score_threshold)")
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "reference date for missed-cycle checks (YYYY-MM-DD, default: today)")
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "scan transactions previously imported into the database")
	cmd.Flags().BoolVar(&save, "save", false, "persist the scan run to the database")

	return cmd
}

func modelArtifact(name string) string {
	if name == "forest" {
		return mlmodel.ForestArtifact
	}
	return mlmodel.BoostArtifact
}
