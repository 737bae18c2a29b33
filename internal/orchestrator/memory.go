package orchestrator

import "runtime"

// currentHeapMB samples Go's allocated heap (MemStats.HeapAlloc) in megabytes. Called once
// per chunk boundary; cheap relative to chunk processing itself.
func currentHeapMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / (1024 * 1024)
}

// adjustChunkSize applies the adaptive sizing rule after one chunk: shrink
// under memory pressure, grow when comfortably under budget, and brake
// hard past the emergency multiplier. Returns the new chunk size and
// whether an emergency cleanup was triggered.
func (o *Orchestrator) adjustChunkSize(currentMB float64) (newSize int, emergency bool) {
	threshold := o.cfg.MemoryThresholdMB
	switch {
	case currentMB > threshold*o.cfg.EmergencyMultiplier:
		return o.cfg.MinChunkSize, true
	case currentMB > threshold:
		shrunk := int(float64(o.chunkSize) * o.cfg.ReductionFactor)
		if shrunk < o.cfg.MinChunkSize {
			shrunk = o.cfg.MinChunkSize
		}
		return shrunk, false
	case currentMB < 0.3*threshold:
		grown := int(float64(o.chunkSize) * o.cfg.ExpansionFactor)
		if grown > o.cfg.MaxChunkSize {
			grown = o.cfg.MaxChunkSize
		}
		return grown, false
	default:
		return o.chunkSize, false
	}
}

// clearTransientCaches drops each column analyzer's transient memory,
// used when the memory manager detects pressure.
func (o *Orchestrator) clearTransientCaches() {
	for _, col := range o.columns {
		col.ClearTransientMemory()
	}
}
