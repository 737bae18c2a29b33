package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mcs-mcp/internal/logging"
	"mcs-mcp/internal/orchestrator"
	"mcs-mcp/internal/parser/csvparser"
	"mcs-mcp/internal/parser/parquetparser"
	"mcs-mcp/internal/parser/xlsxparser"
	"mcs-mcp/internal/report"
	"mcs-mcp/internal/sampler"
	"mcs-mcp/pkg/rowsource"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	outPath       string
	noHeader      bool
	sheet         string
	autoSample    bool
	sampleRows    int64
	samplePercent float64
	sampleMethod  string
	stratifyBy    string
	sampleSeed    uint32
	enableMulti   bool
	renderMermaid bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Run the streaming EDA engine over a CSV, XLSX, or Parquet file",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report JSON here instead of stdout")
	scanCmd.Flags().BoolVar(&noHeader, "no-header", false, "treat the first row as data, not a header")
	scanCmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name for XLSX input (defaults to the first sheet)")
	scanCmd.Flags().BoolVar(&autoSample, "auto-sample", false, "subsample automatically for files over 1GiB")
	scanCmd.Flags().Int64Var(&sampleRows, "sample-rows", 0, "target row count for an explicit sample")
	scanCmd.Flags().Float64Var(&samplePercent, "sample-percent", 0, "target sample size as a percentage of estimated rows")
	scanCmd.Flags().StringVar(&sampleMethod, "sample-method", "", "sampling strategy: random, stratified, systematic, or head (defaults to random)")
	scanCmd.Flags().StringVar(&stratifyBy, "stratify-by", "", "column name to stratify on (requires --sample-method=stratified)")
	scanCmd.Flags().Uint32Var(&sampleSeed, "seed", 0, "seed for the sampler's random draws (0 uses the sampler's own default)")
	scanCmd.Flags().BoolVar(&enableMulti, "enable-multivariate", false, "buffer a bounded row sample for downstream multivariate analysis")
	scanCmd.Flags().BoolVar(&renderMermaid, "mermaid", false, "append Mermaid chart blocks to stderr for numeric columns and the strongest correlation")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := args[0]
	runLog := logging.ForRun(uuid.NewString())

	source, err := openSource(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	samplingApplied := false
	var sampled *sampler.SampledRowSource
	if sampleCfg := resolveSamplerConfig(info.Size()); sampleCfg.Enabled() {
		estimated := estimateRowCount(info.Size())
		target := sampleCfg.ResolveTargetSize(estimated)
		sampled = sampler.NewSampledRowSource(source, sampleCfg, target, estimated)
		source = sampled
		samplingApplied = true
		runLog.Info().Int64("target", target).Msg("sampling enabled for this run")
		for _, w := range sampled.Warnings() {
			runLog.Warn().Msg(w)
		}
	}

	orchCfg := orchestrator.Config{
		MaxRowsAnalyzed:    cfg.MaxRowsAnalyzed,
		MemoryThresholdMB:  cfg.MemoryThresholdMB,
		EnableMultivariate: enableMulti || cfg.EnableMultivariate,
	}

	o := orchestrator.New(source, orchCfg, runLog, func(ev orchestrator.ProgressEvent) {
		runLog.Debug().Str("stage", ev.Stage).Float64("pct", ev.Percentage).Msg(ev.Message)
	})

	run, err := o.Run(context.Background())
	if err != nil {
		return fmt.Errorf("running analysis: %w", err)
	}
	if sampled != nil {
		for _, w := range sampled.Warnings() {
			run.Warnings = append(run.Warnings, orchestrator.Warning{Severity: orchestrator.SeverityMedium, Message: w})
		}
	}

	doc := report.Assemble(run, samplingApplied)
	if err := report.Validate(doc); err != nil {
		runLog.Warn().Err(err).Msg("assembled report failed schema validation")
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	} else {
		fmt.Println(string(out))
	}

	if renderMermaid {
		for _, col := range run.Columns {
			if chart := report.GenerateHistogramChart(col); chart != "" {
				fmt.Fprintln(os.Stderr, chart)
			}
		}
		if chart := report.GenerateTopPairChart(run.Bivariate.NumericNumeric); chart != "" {
			fmt.Fprintln(os.Stderr, chart)
		}
	}

	return nil
}

func openSource(path string) (rowsource.RowSource, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv":
		delim := rune(',')
		if ext == ".tsv" {
			delim = '\t'
		}
		return csvparser.New(path, csvparser.Config{Delimiter: delim, NoHeader: noHeader})
	case ".xlsx", ".xlsm":
		return xlsxparser.New(path, xlsxparser.Config{Sheet: sheet, NoHeader: noHeader})
	case ".parquet":
		return parquetparser.New(path)
	default:
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}
}

func resolveSamplerConfig(fileSize int64) sampler.Config {
	c := sampler.Config{AutoSample: autoSample, FileSizeBytes: fileSize}
	if sampleRows > 0 {
		c.SampleRowCount = &sampleRows
	}
	if samplePercent > 0 {
		c.SamplePercent = &samplePercent
	}
	c.Method = parseSampleMethod(sampleMethod)
	c.StratifyColumn = stratifyBy
	if sampleSeed != 0 {
		c.Seed = &sampleSeed
	}
	return c
}

func parseSampleMethod(name string) sampler.Method {
	switch strings.ToLower(name) {
	case "random":
		return sampler.MethodRandom
	case "stratified":
		return sampler.MethodStratified
	case "systematic":
		return sampler.MethodSystematic
	case "head":
		return sampler.MethodHead
	default:
		return sampler.MethodNone
	}
}

// estimateRowCount approximates the population size from file size using a
// conservative average-row-width assumption; the orchestrator's pass 1
// prefix scan is the source of truth for type detection, this estimate
// only feeds the sampler's target-size resolution.
func estimateRowCount(fileSize int64) int64 {
	const assumedAvgRowBytes = 100
	n := fileSize / assumedAvgRowBytes
	if n < 1 {
		n = 1
	}
	return n
}
