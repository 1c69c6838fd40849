package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subscout/subscout/internal/feature"
)

// exportLabelsCmd writes a merchant-level CSV for human labeling: features
// plus sample descriptions and an empty human_label column to fill with
// 1 (subscription) or 0 (not).
func exportLabelsCmd() *cobra.Command {
	var outCSV string

	cmd := &cobra.Command{
		Use:   "export-labels <statement files...>",
		Short: "Export a merchant-level CSV for manual labeling",
		Args:  cobra.MinimumNArgs(1),
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

			txns, err := loadStatementFiles(ctx, args)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				return fmt.Errorf("parser produced 0 transactions; check the input format")
			}

			resolved := resolver.Resolve(txns)
			groups := feature.GroupByMerchant(resolved)
			feats := feature.BuildTable(groups)

			if err := os.MkdirAll(filepath.Dir(outCSV), 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(outCSV)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outCSV, err)
			}
			defer func() { _ = f.Close() }()

			w := csv.NewWriter(f)
			header := []string{
				"merchant_key", "sample_descriptions", "brand", "category",
				"count", "span_days", "mean_amt", "cv",
				"cadence", "brand_hit", "hint_flag", "human_label",
			}
			if err := w.Write(header); err != nil {
				return fmt.Errorf("failed to write CSV header: %w", err)
			}

			for i, fv := range feats {
				rec := []string{
					fv.MerchantKey,
					sampleDescriptions(groups[i], 3),
					firstBrand(groups[i]),
					firstCategory(groups[i]),
					strconv.Itoa(fv.Count),
					strconv.Itoa(fv.SpanDays),
					strconv.FormatFloat(fv.MeanAmount, 'f', 2, 64),
					strconv.FormatFloat(fv.CV, 'f', 3, 64),
					string(fv.Cadence),
					boolCol(fv.BrandHit),
					boolCol(fv.HintFlag),
					"", // human_label, to be filled in
				}
				if err := w.Write(rec); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return fmt.Errorf("failed to flush CSV: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote labeling CSV with %d merchants -> %s\n", len(feats), outCSV)
			return nil
		},
	}

	cmd.Flags().StringVar(&outCSV, "out-csv", "data/merchants_for_labeling.csv", "where to write the CSV")
	return cmd
}

func sampleDescriptions(g feature.Group, n int) string {
	var samples []string
	for _, tx := range g.Transactions {
		samples = append(samples, tx.Description)
		if len(samples) == n {
			break
		}
	}
	return strings.Join(samples, "; ")
}

func firstBrand(g feature.Group) string {
	for _, tx := range g.Transactions {
		if tx.Brand != "" {
			return tx.Brand
		}
	}
	return ""
}

func firstCategory(g feature.Group) string {
	for _, tx := range g.Transactions {
		if tx.Category != "" {
			return tx.Category
		}
	}
	return ""
}

func boolCol(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

