package orchestrator

import (
	"context"
	"fmt"
	"runtime"

	"mcs-mcp/pkg/rowsource"
)

// runPass2 streams the full row source through the column and bivariate
// analyzers, accumulating a chunk buffer and invoking the adaptive memory
// manager at each chunk boundary. Returns whether the run was cut short
// (row cap or cancellation), tagging the result degraded.
func (o *Orchestrator) runPass2(ctx context.Context) (bool, error) {
	rows, errs := o.source.CreateStream(ctx)

	headerSkipped := !o.source.HasHeader() || len(o.source.Header()) > 0
	chunk := make([]rowsource.ParsedRow, 0, o.chunkSize)
	degraded := false

	err := streamRows(ctx, rows, errs, func(row rowsource.ParsedRow) bool {
		if !headerSkipped {
			headerSkipped = true
			return true
		}
		if o.rowsSeen >= o.cfg.MaxRowsAnalyzed {
			o.warnings = append(o.warnings, Warning{
				Severity: SeverityMedium,
				Message:  "row cap reached; sampling applied to the remainder of the stream",
			})
			degraded = true
			return false
		}
		chunk = append(chunk, row)
		o.rowsSeen++
		if len(chunk) >= o.chunkSize {
			o.processChunk(chunk)
			chunk = chunk[:0]
			o.onChunkBoundary()
		}
		return true
	})
	if err != nil {
		if !isContextErr(err) {
			return degraded, fmt.Errorf("orchestrator: pass 2 stream error: %w", err)
		}
		degraded = true
	}

	if len(chunk) > 0 {
		o.processChunk(chunk)
		o.onChunkBoundary()
	}
	return degraded, nil
}

// processChunk hands every row in the chunk to every column's analyzer
// and to the bivariate analyzer. A row is either fully applied or not
// started at all: there is no partial application of one row's updates.
func (o *Orchestrator) processChunk(chunk []rowsource.ParsedRow) {
	for _, row := range chunk {
		for c, col := range o.columns {
			if c < len(row.Data) {
				col.ProcessValue(row.Data[c])
			}
		}
		o.bv.ProcessRow(row.Data)
		if o.cfg.EnableMultivariate && len(o.multivar) < o.cfg.MultivariateMaxRows {
			o.multivar = append(o.multivar, row)
		}
	}
}

// onChunkBoundary runs the adaptive memory manager and emits progress.
func (o *Orchestrator) onChunkBoundary() {
	o.chunksDone++
	o.chunkSizes = append(o.chunkSizes, o.chunkSize)

	mb := currentHeapMB()
	if mb > o.peakMemMB {
		o.peakMemMB = mb
	}

	newSize, emergency := o.adjustChunkSize(mb)
	switch {
	case emergency:
		o.warnings = append(o.warnings, Warning{
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("memory usage %.0fMB exceeded the emergency threshold; forcing cleanup", mb),
		})
		o.logger.Warn().Float64("heapMB", mb).Msg("emergency memory brake triggered")
		o.clearTransientCaches()
		runtime.GC()
	case mb > o.cfg.MemoryThresholdMB:
		o.clearTransientCaches()
		runtime.GC()
	}
	o.chunkSize = newSize

	if o.cfg.ProgressEveryNChunks > 0 && o.chunksDone%o.cfg.ProgressEveryNChunks == 0 {
		o.emit("analysis", 0, fmt.Sprintf("processed %d rows across %d chunks", o.rowsSeen, o.chunksDone), 2, 2)
	}
}
