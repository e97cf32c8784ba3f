package commands

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexuscheck-dev/nexuscheck/internal/engine"
	"github.com/nexuscheck-dev/nexuscheck/internal/importer"
	"github.com/nexuscheck-dev/nexuscheck/internal/model"
	"github.com/nexuscheck-dev/nexuscheck/internal/nexus"
	"github.com/nexuscheck-dev/nexuscheck/internal/report"
	"github.com/nexuscheck-dev/nexuscheck/internal/rules"
	"github.com/nexuscheck-dev/nexuscheck/internal/runlog"
)

const topStates = 10

func newAnalyzeCommand() *cobra.Command {
	var (
		output           string
		year             int
		yearStart        int
		yearEnd          int
		mode             string
		rulesPath        string
		ratesPath        string
		ignoreMkt        bool
		includeNegatives bool
		parallel         bool
		logDir           string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a sales export for economic nexus obligations",
		Long: `Analyze reads transactions from a CSV or XLSX export, cleans them,
and determines which states have crossed their economic nexus
thresholds.

Required columns: date, state, amount. Optional columns such as
transaction id, revenue type and transaction count are used when the
header detection can find them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(mode, year, yearStart, yearEnd)
			if err != nil {
				return err
			}
			opts.IgnoreMarketplace = ignoreMkt
			opts.IncludeNegativeAmounts = includeNegatives

			table, err := loadRules(rulesPath, ratesPath)
			if err != nil {
				return err
			}

			return runAnalyze(cmd, args[0], output, logDir, parallel, table, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "nexus_report.xlsx", "output Excel file path")
	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "analysis year (singleYear mode)")
	cmd.Flags().IntVar(&yearStart, "year-start", 0, "first year of the range (multi-year modes)")
	cmd.Flags().IntVar(&yearEnd, "year-end", 0, "last year of the range (multi-year modes)")
	cmd.Flags().StringVar(&mode, "mode", string(model.ModeSingleYear), "analysis mode: singleYear, multiYearEstimate or multiYearExact")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "state rules YAML (default: embedded)")
	cmd.Flags().StringVar(&ratesPath, "rates", "", "tax rates YAML (default: embedded)")
	cmd.Flags().BoolVar(&ignoreMkt, "ignore-marketplace", false, "drop marketplace facilitator transactions")
	cmd.Flags().BoolVar(&includeNegatives, "include-negatives", false, "include negative amounts (returns/refunds)")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "clean large files on a worker pool")
	cmd.Flags().StringVar(&logDir, "log-dir", ".", "directory for the run log")

	return cmd
}

func buildOptions(mode string, year, yearStart, yearEnd int) (nexus.Options, error) {
	opts := nexus.Options{Mode: model.Mode(mode)}
	switch opts.Mode {
	case model.ModeSingleYear:
		opts.AnalysisYear = year
	case model.ModeMultiYearEstimate, model.ModeMultiYearExact:
		if yearStart == 0 || yearEnd == 0 {
			return opts, fmt.Errorf("mode %s requires --year-start and --year-end", mode)
		}
		opts.YearStart = yearStart
		opts.YearEnd = yearEnd
	default:
		return opts, fmt.Errorf("unknown mode %q", mode)
	}
	return opts, nil
}

func loadRules(rulesPath, ratesPath string) (*rules.Table, error) {
	if rulesPath == "" {
		return rules.LoadDefault()
	}
	return rules.Load(rulesPath, ratesPath)
}

func runAnalyze(cmd *cobra.Command, file, output, logDir string, parallel bool, table *rules.Table, opts nexus.Options) error {
	headers, rows, err := importer.DefaultRegistry().Load(file)
	if err != nil {
		return err
	}
	cmd.Printf("Loaded %d rows from %s\n", len(rows), file)

	a := engine.New(table)
	a.Parallel = parallel

	result, cleanReport, err := a.Run(cmd.Context(), headers, rows, opts)
	if err != nil {
		return err
	}

	if cleanReport.RowsDropped > 0 {
		cmd.Printf("Dropped %d of %d rows during cleaning\n", cleanReport.RowsDropped, cleanReport.RowsIn)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	if err := report.WriteExcel(result, analysisYear(result, opts), output); err != nil {
		return err
	}

	printSummary(cmd, result, output)
	writeRunLog(cmd, logDir, file, result, opts)
	return nil
}

func analysisYear(result *model.AnalysisResult, opts nexus.Options) int {
	if len(result.NexusResults) > 0 {
		return result.NexusResults[0].AnalysisYear
	}
	if opts.Mode == model.ModeSingleYear {
		return opts.AnalysisYear
	}
	return opts.YearEnd
}

func printSummary(cmd *cobra.Command, result *model.AnalysisResult, output string) {
	var breached []model.NexusResult
	for _, r := range result.NexusResults {
		if r.HasNexus {
			breached = append(breached, r)
		}
	}

	cmd.Printf("\nStates with nexus: %d of %d\n", len(breached), len(result.NexusResults))
	cmd.Printf("Total potential liability: $%s\n", result.TotalLiability.StringFixed(2))
	cmd.Printf("Report saved to: %s\n", output)

	if len(breached) == 0 {
		return
	}

	sort.Slice(breached, func(i, j int) bool {
		return breached[i].TotalRevenue.GreaterThan(breached[j].TotalRevenue)
	})
	if len(breached) > topStates {
		breached = breached[:topStates]
	}

	cmd.Printf("\n%-6s %14s %14s %-13s %s\n", "State", "Revenue", "Threshold", "Breach Type", "Breach Date")
	for _, s := range breached {
		cmd.Printf("%-6s %14s %14s %-13s %s\n",
			s.StateCode,
			"$"+s.TotalRevenue.StringFixed(0),
			"$"+s.ThresholdRevenue.StringFixed(0),
			s.BreachType,
			s.BreachDate.Format("2006-01-02"))
	}
}

func writeRunLog(cmd *cobra.Command, logDir, file string, result *model.AnalysisResult, opts nexus.Options) {
	nexusCount := 0
	for _, r := range result.NexusResults {
		if r.HasNexus {
			nexusCount++
		}
	}

	entry := runlog.Entry{
		Timestamp:  time.Now().UTC(),
		File:       file,
		Mode:       string(opts.Mode),
		Rows:       result.RowsProcessed,
		NexusCount: nexusCount,
		RunID:      runlog.NewRunID(),
	}
	if err := runlog.Append(logDir, []runlog.Entry{entry}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write run log: %v\n", err)
	}
}
