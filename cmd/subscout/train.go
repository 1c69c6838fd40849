package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subscout/subscout/internal/train"
)

func trainCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "train <statement files...>",
		Short: "Train the subscription classifiers on a statement batch",
		Long: `Train derives weak labels from the batch's recurrence features and fits
two classifier families: a bagged-tree ensemble and a boosted-tree
ensemble. Both artifacts plus a feature-schema sidecar and holdout metrics
are written to the output directory.

Training fails when the weak labels are single-class; that means the batch
has no signal to learn from and needs more months or more variety.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if outDir == "" {
				outDir = viper.GetString("models.dir")
			}

			cfg, err := loadDetection()
			if err != nil {
				return err
			}
			resolver, err := newResolver(cfg)
			if err != nil {
				return err
			}

			txns, err := loadStatementFiles(ctx, args)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				return fmt.Errorf("parser produced 0 transactions; check the input format")
			}

			progress := func(stage string, total int) func() {
				bar := progressbar.NewOptions(total,
					progressbar.OptionSetDescription(fmt.Sprintf("training %s", stage)),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionClearOnFinish(),
				)
				return func() { _ = bar.Add(1) }
			}

			trainer := train.NewTrainer(resolver, cfg, progress)
			res, err := trainer.Train(txns, outDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Training complete"))
			for _, r := range []train.Report{res.ForestReport, res.BoostReport} {
				fmt.Fprintf(out, "%s: precision=%.3f recall=%.3f f1=%.3f accuracy=%.3f (n=%d)\n",
					r.Model, r.Precision, r.Recall, r.F1, r.Accuracy, r.NTest)
			}
			fmt.Fprintf(out, "Artifacts: %s, %s, %s\n", res.ForestPath, res.BoostPath, res.MetadataPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for model artifacts (default: configured models.dir)")
	return cmd
}
