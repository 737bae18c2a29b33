package sampler

import "mcs-mcp/pkg/rowsource"

// headStrategy takes the first target rows and ignores the rest.
type headStrategy struct {
	target int64
	items  []rowsource.ParsedRow
}

func newHeadStrategy(target int64) *headStrategy {
	return &headStrategy{target: target, items: make([]rowsource.ParsedRow, 0, target)}
}

func (h *headStrategy) offer(row rowsource.ParsedRow, _ string) {
	if int64(len(h.items)) < h.target {
		h.items = append(h.items, row)
	}
}

func (h *headStrategy) sample() []rowsource.ParsedRow {
	out := make([]rowsource.ParsedRow, len(h.items))
	copy(out, h.items)
	return out
}
