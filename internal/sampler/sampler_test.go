package sampler

import (
	"strings"
	"testing"

	"mcs-mcp/pkg/rowsource"
)

func rowAt(i uint64) rowsource.ParsedRow {
	return rowsource.ParsedRow{Index: i, Data: []rowsource.Cell{rowsource.TextCell("v")}}
}

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"nothing set", Config{}, false},
		{"auto-sample small file", Config{AutoSample: true, FileSizeBytes: 1024}, false},
		{"auto-sample large file", Config{AutoSample: true, FileSizeBytes: 2 << 30}, true},
		{"explicit method", Config{Method: MethodHead}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveTargetSizePriority(t *testing.T) {
	rows := int64(100)
	pct := 50.0
	cfg := Config{SampleRowCount: int64Ptr(10), SamplePercent: &pct}
	if got := cfg.ResolveTargetSize(1000); got != 10 {
		t.Errorf("explicit row count should win, got %d", got)
	}

	cfg2 := Config{SamplePercent: &pct}
	if got := cfg2.ResolveTargetSize(rows); got != 50 {
		t.Errorf("percent resolution = %d, want 50", got)
	}

	cfg3 := Config{}
	if got := cfg3.ResolveTargetSize(1_000_000); got > 100_000 {
		t.Errorf("default flat-10%% target %d should be capped at 100000", got)
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestRandomStrategyCapsAtTarget(t *testing.T) {
	s := New(Config{Method: MethodRandom}, 10, 1000)
	for i := uint64(0); i < 1000; i++ {
		s.Offer(rowAt(i), "")
	}
	if len(s.Sample()) != 10 {
		t.Fatalf("len(Sample()) = %d, want 10", len(s.Sample()))
	}
}

func TestHeadStrategyKeepsFirstRows(t *testing.T) {
	s := New(Config{Method: MethodHead}, 5, 100)
	for i := uint64(0); i < 100; i++ {
		s.Offer(rowAt(i), "")
	}
	sample := s.Sample()
	if len(sample) != 5 {
		t.Fatalf("len(Sample()) = %d, want 5", len(sample))
	}
	for i, row := range sample {
		if row.Index != uint64(i) {
			t.Errorf("head sample[%d].Index = %d, want %d", i, row.Index, i)
		}
	}
}

func TestSystematicStrategySpacing(t *testing.T) {
	s := New(Config{Method: MethodSystematic}, 10, 100)
	for i := uint64(0); i < 100; i++ {
		s.Offer(rowAt(i), "")
	}
	sample := s.Sample()
	if len(sample) == 0 {
		t.Fatal("systematic sample is empty")
	}
	for i := 1; i < len(sample); i++ {
		if sample[i].Index <= sample[i-1].Index {
			t.Errorf("systematic sample indices must be strictly increasing: %d then %d", sample[i-1].Index, sample[i].Index)
		}
	}
}

func TestStratifiedStrategyCoversAllStrata(t *testing.T) {
	strataSizes := map[string]int64{"a": 600, "b": 400}
	s := New(Config{Method: MethodStratified, StrataSizes: strataSizes}, 100, 1000)
	for i := uint64(0); i < 600; i++ {
		s.Offer(rowAt(i), "a")
	}
	for i := uint64(600); i < 1000; i++ {
		s.Offer(rowAt(i), "b")
	}
	sample := s.Sample()
	if len(sample) == 0 {
		t.Fatal("stratified sample is empty")
	}
	var fromA, fromB int
	for _, row := range sample {
		if row.Index < 600 {
			fromA++
		} else {
			fromB++
		}
	}
	if fromA == 0 || fromB == 0 {
		t.Errorf("expected rows from both strata, got %d from a and %d from b", fromA, fromB)
	}

	metrics := s.Metrics(int64(len(sample)))
	if metrics.BalanceScore < 0 || metrics.BalanceScore > 1 {
		t.Errorf("BalanceScore out of range: %v", metrics.BalanceScore)
	}
}

func TestSampledRowSourceReplaysCachedSample(t *testing.T) {
	upstream := &fakeSource{header: []string{"a"}, rows: 50}
	src := NewSampledRowSource(upstream, Config{Method: MethodHead}, 5, 50)

	ctx := testContext()
	first := drain(t, src, ctx)
	second := drain(t, src, ctx)

	if len(first) != 5 || len(second) != 5 {
		t.Fatalf("expected 5 rows both times, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Index != second[i].Index {
			t.Errorf("replay mismatch at %d: %d vs %d", i, first[i].Index, second[i].Index)
		}
	}
}

func TestSampledRowSourceDowngradesUnknownStratifyColumn(t *testing.T) {
	upstream := &fakeSource{header: []string{"a", "b"}, rows: 50}
	src := NewSampledRowSource(upstream, Config{Method: MethodStratified, StratifyColumn: "no-such-column"}, 5, 50)

	if src.sampler.method != MethodRandom {
		t.Fatalf("method = %v, want downgraded to MethodRandom", src.sampler.method)
	}
	warnings := src.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected one downgrade warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "no-such-column") {
		t.Errorf("warning %q does not name the missing column", warnings[0])
	}

	ctx := testContext()
	rows := drain(t, src, ctx)
	if len(rows) == 0 {
		t.Fatal("expected a non-empty sample even after downgrade")
	}
}

func TestSampledRowSourceKeepsStratifiedWhenColumnExists(t *testing.T) {
	upstream := &fakeSource{header: []string{"a", "b"}, rows: 50}
	src := NewSampledRowSource(upstream, Config{Method: MethodStratified, StratifyColumn: "a"}, 5, 50)

	if src.sampler.method != MethodStratified {
		t.Errorf("method = %v, want MethodStratified", src.sampler.method)
	}
	if len(src.Warnings()) != 0 {
		t.Errorf("expected no warnings, got %v", src.Warnings())
	}
}
