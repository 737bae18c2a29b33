package sampler

import (
	"context"
	"testing"

	"mcs-mcp/pkg/rowsource"
)

// fakeSource is a minimal in-memory RowSource for exercising
// SampledRowSource without a real file.
type fakeSource struct {
	header []string
	rows   int
}

func (f *fakeSource) HasHeader() bool  { return true }
func (f *fakeSource) Header() []string { return f.header }

func (f *fakeSource) CreateStream(ctx context.Context) (<-chan rowsource.ParsedRow, <-chan error) {
	out := make(chan rowsource.ParsedRow)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		for i := 0; i < f.rows; i++ {
			select {
			case out <- rowsource.ParsedRow{Index: uint64(i + 1), Data: []rowsource.Cell{rowsource.TextCell("v")}}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errs
}

func testContext() context.Context {
	return context.Background()
}

func drain(t *testing.T, src *SampledRowSource, ctx context.Context) []rowsource.ParsedRow {
	t.Helper()
	rows, errs := src.CreateStream(ctx)
	var out []rowsource.ParsedRow
loop:
	for {
		select {
		case row, ok := <-rows:
			if !ok {
				break loop
			}
			out = append(out, row)
		case err := <-errs:
			if err != nil {
				t.Fatalf("stream error: %v", err)
			}
		}
	}
	return out
}
