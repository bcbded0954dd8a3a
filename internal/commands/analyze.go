package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spendlens/spendlens/internal/classifier"
	"github.com/spendlens/spendlens/internal/completion"
	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/importer"
	"github.com/spendlens/spendlens/internal/logger"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/results"
	"github.com/spendlens/spendlens/internal/stats"
)

type analyzeOptions struct {
	backend     string
	concurrency int
	format      string
	noReport    bool
	details     bool
}

func newAnalyzeCommand(global *globalOptions) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <csv-or-dir>...",
		Short: "Classify statement transactions and print spending totals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := config.Resolve(global.configPath, global.configRequired(cmd), func(c *config.Config) {
				if flags.Changed("backend") {
					c.Backend.Type = opts.backend
				}
				if flags.Changed("concurrency") {
					c.Classify.Concurrency = opts.concurrency
				}
				if flags.Changed("format") {
					c.Input.Format = opts.format
				}
				if opts.noReport {
					c.Report.Enabled = false
				}
				if global.logLevel != "" {
					c.Log.Level = global.logLevel
				}
			})
			if err != nil {
				return err
			}

			log := logger.New(cfg.Log.Level).With().Str("run_id", uuid.NewString()).Logger()
			ctx := logger.WithContext(cmd.Context(), log)

			return runAnalyze(ctx, cmd.OutOrStdout(), cfg, args, opts.details)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", "", "completion backend: remote or local")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 1, "classification requests in flight")
	cmd.Flags().StringVar(&opts.format, "format", "", "statement format")
	cmd.Flags().BoolVar(&opts.noReport, "no-report", false, "skip the trend report")
	cmd.Flags().BoolVar(&opts.details, "details", false, "list every classified transaction as CSV before the totals")

	return cmd
}

func runAnalyze(ctx context.Context, out io.Writer, cfg *config.Config, paths []string, details bool) error {
	log := logger.FromContext(ctx)

	txns, err := loadStatements(ctx, cfg.Input.Format, paths)
	if err != nil {
		return err
	}
	log.Info().Int("transactions", len(txns)).Msg("statements loaded")

	backend, err := completion.New(ctx, cfg.CompletionOptions())
	if err != nil {
		return fmt.Errorf("creating backend: %w", err)
	}

	cl := classifier.New(backend, classifier.WithConcurrency(cfg.Classify.Concurrency))
	if err := cl.ClassifyAll(ctx, txns); err != nil {
		var be *classifier.BatchError
		if !errors.As(err, &be) {
			return fmt.Errorf("classifying: %w", err)
		}
		for _, item := range be.Items {
			log.Warn().
				Err(item.Err).
				Int("index", item.Index).
				Str("description", txns[item.Index].Description).
				Msg("transaction not classified")
		}
		log.Warn().Int("failed", len(be.Items)).Int("total", be.Total).Msg("classification incomplete")
	}

	if details {
		if err := results.Write(out, txns); err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}
		fmt.Fprintln(out)
	}

	if err := printSummary(out, stats.Summarize(txns), cfg.Report.Currency); err != nil {
		return err
	}

	if !cfg.Report.Enabled {
		return nil
	}

	report, err := stats.TrendReport(ctx, backend, txns, cfg.Report.Currency)
	if err != nil {
		log.Error().Err(err).Msg("trend report unavailable")
		fmt.Fprintln(out, "\nTrend report unavailable.")
		return nil
	}
	fmt.Fprintf(out, "\nTrend report\n\n%s\n", report)
	return nil
}

func loadStatements(ctx context.Context, format string, paths []string) ([]model.Transaction, error) {
	log := logger.FromContext(ctx)

	files, err := importer.Expand(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no statement files found in %v", paths)
	}

	reg := importer.DefaultRegistry()
	var txns []model.Transaction
	for _, f := range files {
		loaded, err := reg.LoadFile(f, format)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("file", f).Int("transactions", len(loaded)).Msg("loaded statement")
		txns = append(txns, loaded...)
	}
	return txns, nil
}

func printSummary(out io.Writer, s stats.Summary, currency string) error {
	fmt.Fprintf(out, "Transactions: %d (%d unclassified)\n\n", s.Count, s.Unclassified)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Paid out\t%s%s\n", currency, s.Totals.PaidOut.StringFixed(2))
	fmt.Fprintf(w, "Paid in\t%s%s\n", currency, s.Totals.PaidIn.StringFixed(2))
	fmt.Fprintf(w, "Reimbursements\t%s%s\n", currency, s.Totals.Reimbursements.StringFixed(2))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nBy category")
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, ct := range s.Categories.Ordered() {
		fmt.Fprintf(w, "%s\t%s%s\n", ct.Category.Name(), currency, ct.Total.StringFixed(2))
	}
	return w.Flush()
}
