package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/viper"

	"github.com/subscout/subscout/internal/brand"
	"github.com/subscout/subscout/internal/common"
	"github.com/subscout/subscout/internal/config"
	"github.com/subscout/subscout/internal/merchant"
	"github.com/subscout/subscout/internal/model"
	"github.com/subscout/subscout/internal/statement"
)

// loadDetection reads the detection thresholds out of the active config.
func loadDetection() (config.Detection, error) {
	return config.Load(viper.GetViper())
}

// newResolver wires the default brand lexicon into a merchant resolver.
func newResolver(cfg config.Detection) (*merchant.Resolver, error) {
	brands, err := brand.NewResolver(brand.DefaultRules())
	if err != nil {
		return nil, err
	}
	return merchant.NewResolver(brands, cfg.FuzzyThreshold), nil
}

// loadStatementFile parses one input file by extension: .ofx/.qfx via the
// OFX parser, anything else as plain statement text.
func loadStatementFile(ctx context.Context, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot open statement file %s", path), err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		txns, err := statement.NewOFXParser().ParseFile(ctx, f)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("cannot parse %s as OFX", path), err)
		}
		return txns, nil
	default:
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("cannot read statement file %s", path), err)
		}
		return statement.ParseText(string(data)), nil
	}
}

// loadStatementFiles concatenates the transactions of several input files.
func loadStatementFiles(ctx context.Context, paths []string) ([]model.Transaction, error) {
	var all []model.Transaction
	for _, p := range paths {
		txns, err := loadStatementFile(ctx, p)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return all, nil
}

// printCandidates renders the heuristic candidate table.
func printCandidates(w io.Writer, cands []model.SubscriptionCandidate) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("MERCHANT\tBRAND\tCATEGORY\tCOUNT\tMEAN\tCADENCE\tNEXT EXPECTED\tSUBSCRIPTION\tMISSED"))
	for _, c := range cands {
		next := ""
		if !c.NextExpected.IsZero() {
			next = c.NextExpected.Format("2006-01-02")
		}
		missed := ""
		if c.MissedCycle {
			missed = warningStyle.Render("yes")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t$%.2f\t%s\t%s\t%v\t%s\n",
			c.MerchantKey, c.Brand, c.Category, c.Count, c.MeanAmount,
			c.Cadence, next, c.IsSubscription, missed)
	}
	_ = tw.Flush()
}

// printScored renders the model-path candidate table.
func printScored(w io.Writer, cands []model.ScoredCandidate) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("MERCHANT\tBRAND\tCATEGORY\tCOUNT\tMEAN\tPROBABILITY\tSUBSCRIPTION"))
	for _, c := range cands {
		prob := fmt.Sprintf("%.3f", c.Probability)
		if c.Filtered {
			prob = subtleStyle.Render(prob + " (filtered)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t$%.2f\t%s\t%v\n",
			c.MerchantKey, c.Brand, c.Category, c.Count, c.MeanAmount, prob, c.IsSubscription)
	}
	_ = tw.Flush()
}

// printAnomalies renders flagged transactions.
func printAnomalies(w io.Writer, flags []model.AnomalyFlag) {
	if len(flags) == 0 {
		fmt.Fprintln(w, subtleStyle.Render("No amount anomalies."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, headerStyle.Render("DATE\tDESCRIPTION\tAMOUNT\tMERCHANT\tSCORE\tMETHOD"))
	for _, a := range flags {
		fmt.Fprintf(tw, "%s\t%s\t$%.2f\t%s\t%.2f\t%s\n",
			a.Transaction.Date.Format("2006-01-02"), a.Transaction.Description,
			a.Transaction.Amount, a.MerchantKey, a.Score, a.Method)
	}
	_ = tw.Flush()
}

// printSummary renders the dashboard KPIs: subscription count, mean amount,
// estimated monthly and yearly cost, and a rough potential-savings figure.
func printSummary(w io.Writer, subCount int, meanAmount float64) {
	monthly := meanAmount * float64(subCount)
	fmt.Fprintln(w, titleStyle.Render("Summary"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total subscriptions:\t%s\n", highlightStyle.Render(fmt.Sprintf("%d", subCount)))
	fmt.Fprintf(tw, "Mean amount:\t$%.2f\n", meanAmount)
	fmt.Fprintf(tw, "Est. monthly cost:\t$%.2f\n", monthly)
	fmt.Fprintf(tw, "Est. yearly cost:\t$%.2f\n", monthly*12)
	fmt.Fprintf(tw, "Potential savings:\t$%.2f\n", monthly*0.4)
	_ = tw.Flush()
}
