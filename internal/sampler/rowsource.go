package sampler

import (
	"context"
	"fmt"

	"mcs-mcp/pkg/rowsource"
)

// SampledRowSource wraps an upstream RowSource, running the configured
// sampling strategy once over the full underlying stream and serving the
// resulting bounded row set to every subsequent CreateStream call. This is
// how the orchestrator consumes sampling: it is handed a SampledRowSource
// in place of the raw source and never knows sampling occurred.
type SampledRowSource struct {
	upstream    rowsource.RowSource
	cfg         Config
	sampler     *Sampler
	stratifyIdx int
	metrics     QualityMetrics
	rows        []rowsource.ParsedRow
	drawn       bool
	warnings    []string
}

// NewSampledRowSource constructs a sampler-backed RowSource. target and
// estimatedN should come from Config.ResolveTargetSize and an upstream
// row-count estimate (e.g. from a cheap line count or the pass-1 prefix).
//
// If cfg.Method is MethodStratified but cfg.StratifyColumn does not match
// any column in the upstream header, the method is downgraded to
// MethodRandom and a warning is recorded, rather than silently treating
// every row as a single degenerate stratum.
func NewSampledRowSource(upstream rowsource.RowSource, cfg Config, target, estimatedN int64) *SampledRowSource {
	s := &SampledRowSource{upstream: upstream, cfg: cfg, stratifyIdx: -1}

	if cfg.StratifyColumn != "" {
		for i, name := range upstream.Header() {
			if name == cfg.StratifyColumn {
				s.stratifyIdx = i
				break
			}
		}
	}

	if cfg.Method == MethodStratified && s.stratifyIdx < 0 {
		s.cfg.Method = MethodRandom
		s.warnings = append(s.warnings, fmt.Sprintf(
			"stratify column %q not found in header; downgraded to random sampling", cfg.StratifyColumn))
	}

	s.sampler = New(s.cfg, target, estimatedN)
	return s
}

func (s *SampledRowSource) HasHeader() bool  { return s.upstream.HasHeader() }
func (s *SampledRowSource) Header() []string { return s.upstream.Header() }

// Metrics returns the quality metrics for the drawn sample. Valid only
// after the first CreateStream call has been fully drained.
func (s *SampledRowSource) Metrics() QualityMetrics { return s.metrics }

// Warnings returns any warnings raised while resolving the sampling
// configuration, such as a stratify-column downgrade.
func (s *SampledRowSource) Warnings() []string { return s.warnings }

// CreateStream draws the sample on first call (fully draining upstream),
// then replays the cached sampled rows on every call thereafter.
func (s *SampledRowSource) CreateStream(ctx context.Context) (<-chan rowsource.ParsedRow, <-chan error) {
	out := make(chan rowsource.ParsedRow)
	errs := make(chan error, 1)

	if !s.drawn {
		s.draw(ctx)
	}

	go func() {
		defer close(out)
		for _, row := range s.rows {
			select {
			case out <- row:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errs
}

func (s *SampledRowSource) draw(ctx context.Context) {
	rows, errs := s.upstream.CreateStream(ctx)
	headerSkipped := !s.upstream.HasHeader() || len(s.upstream.Header()) > 0

loop:
	for {
		select {
		case row, ok := <-rows:
			if !ok {
				break loop
			}
			if !headerSkipped {
				headerSkipped = true
				continue
			}
			stratum := ""
			if s.stratifyIdx >= 0 && s.stratifyIdx < len(row.Data) {
				stratum = row.Data[s.stratifyIdx].Text
			}
			s.sampler.Offer(row, stratum)
		case err := <-errs:
			if err != nil {
				break loop
			}
		case <-ctx.Done():
			break loop
		}
	}

	s.rows = s.sampler.Sample()
	s.metrics = s.sampler.Metrics(int64(len(s.rows)))
	s.drawn = true
}
