// Package orchestrator drives the two-pass streaming engine: pass 1
// detects column types from a bounded prefix, pass 2 streams the rest of
// the rows through the per-column and bivariate analyzers under an
// adaptive memory budget.
package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"mcs-mcp/internal/analyzers"
	"mcs-mcp/internal/bivariate"
	"mcs-mcp/pkg/rowsource"
)

// Config carries every tunable the orchestrator needs. Zero values fall
// back to the documented defaults in applyDefaults.
type Config struct {
	MaxRowsAnalyzed int64

	InitialChunkSize int
	MinChunkSize     int
	MaxChunkSize     int

	MemoryThresholdMB   float64
	ReductionFactor     float64
	ExpansionFactor     float64
	EmergencyMultiplier float64

	ProgressEveryNChunks int

	MaxPairs int

	EnableMultivariate  bool
	MultivariateMaxRows int

	// DetectionSampleRows bounds pass 1's prefix pull (spec: up to 1000).
	DetectionSampleRows int
	// DetectionSampleValues bounds the per-column slice handed to the
	// type detector (spec: up to 500).
	DetectionSampleValues int
}

func (c *Config) applyDefaults() {
	if c.InitialChunkSize == 0 {
		c.InitialChunkSize = 5000
	}
	if c.MinChunkSize == 0 {
		c.MinChunkSize = 500
	}
	if c.MaxChunkSize == 0 {
		c.MaxChunkSize = 50000
	}
	if c.MemoryThresholdMB == 0 {
		c.MemoryThresholdMB = 512
	}
	if c.ReductionFactor == 0 {
		c.ReductionFactor = 0.5
	}
	if c.ExpansionFactor == 0 {
		c.ExpansionFactor = 1.5
	}
	if c.EmergencyMultiplier == 0 {
		c.EmergencyMultiplier = 1.5
	}
	if c.ProgressEveryNChunks == 0 {
		c.ProgressEveryNChunks = 5
	}
	if c.MaxPairs == 0 {
		c.MaxPairs = 50
	}
	if c.MultivariateMaxRows == 0 {
		c.MultivariateMaxRows = 1000
	}
	if c.DetectionSampleRows == 0 {
		c.DetectionSampleRows = 1000
	}
	if c.DetectionSampleValues == 0 {
		c.DetectionSampleValues = 500
	}
	if c.MaxRowsAnalyzed == 0 {
		c.MaxRowsAnalyzed = 10_000_000
	}
}

// Severity buckets a warning by how much it should alarm the caller.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning is one non-fatal issue surfaced during the run.
type Warning struct {
	Severity Severity
	Message  string
}

// ProgressEvent is the single shape emitted at phase boundaries and every
// N chunks during pass 2.
type ProgressEvent struct {
	Stage       string
	Percentage  float64
	Message     string
	CurrentStep int
	TotalSteps  int
}

// ProgressFunc receives progress events; callers that don't care pass nil.
type ProgressFunc func(ProgressEvent)

// PerformanceCounters records run statistics attached to the final report.
type PerformanceCounters struct {
	AnalysisTime     time.Duration
	RowsAnalyzed     int64
	ChunksProcessed  int
	PeakMemoryMB     float64
	AverageChunkSize float64
}

// Report is the composite result of a full run.
type Report struct {
	Columns      []analyzers.ColumnReport
	Bivariate    bivariate.Report
	Insights     []string
	Warnings     []Warning
	Performance  PerformanceCounters
	Degraded     bool
	Multivariate []rowsource.ParsedRow
}

// Orchestrator owns one run's lifecycle over a single RowSource.
type Orchestrator struct {
	cfg      Config
	source   rowsource.RowSource
	progress ProgressFunc
	logger   zerolog.Logger

	header  []string
	columns []analyzers.ColumnAnalyzer
	bv      *bivariate.Analyzer

	chunkSize  int
	rowsSeen   int64
	chunksDone int
	peakMemMB  float64
	chunkSizes []int
	warnings   []Warning
	multivar   []rowsource.ParsedRow
	startedAt  time.Time
}

// New constructs an Orchestrator over source with the given config and
// logger (the zero zerolog.Logger discards output, matching zerolog's own
// convention for an unconfigured logger).
func New(source rowsource.RowSource, cfg Config, logger zerolog.Logger, progress ProgressFunc) *Orchestrator {
	cfg.applyDefaults()
	return &Orchestrator{cfg: cfg, source: source, progress: progress, logger: logger}
}

func (o *Orchestrator) emit(stage string, pct float64, msg string, step, total int) {
	if o.progress != nil {
		o.progress(ProgressEvent{Stage: stage, Percentage: pct, Message: msg, CurrentStep: step, TotalSteps: total})
	}
}

// Run executes pass 1 (detection) followed by pass 2 (streaming analysis)
// and returns the assembled report. Cancellation is cooperative: the next
// row-batch boundary after ctx is canceled aborts pass 2 and the result is
// tagged degraded.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	o.startedAt = time.Now()
	o.chunkSize = o.cfg.InitialChunkSize
	o.logger.Info().Int("initialChunkSize", o.chunkSize).Msg("starting eda run")

	o.emit("detection", 0, "scanning sample for type detection", 0, 2)
	if err := o.runPass1(ctx); err != nil {
		return nil, err
	}
	o.logger.Info().Int("columns", len(o.header)).Msg("pass 1 detection complete")
	o.emit("detection", 100, "type detection complete", 1, 2)

	degraded, err := o.runPass2(ctx)
	if err != nil {
		return nil, err
	}
	o.emit("analysis", 100, "streaming analysis complete", 2, 2)

	report := o.finalize(degraded)
	o.logger.Info().Int64("rows", o.rowsSeen).Int("chunks", o.chunksDone).Bool("degraded", degraded).Msg("eda run complete")
	return report, nil
}
