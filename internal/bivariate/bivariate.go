// Package bivariate implements the bivariate analyzer: a bounded set of
// column pairs, each classified NN (numeric-numeric), NC (numeric-
// categorical), or CC (categorical-categorical), each fed one update per
// row and finalized into a three-bucket report.
package bivariate

import (
	"strconv"

	"mcs-mcp/internal/detect"
	"mcs-mcp/pkg/rowsource"
)

const defaultMaxPairs = 50

// PairKind is the closed variant selecting a pair's sketch shape.
type PairKind int

const (
	NN PairKind = iota
	NC
	CC
)

func (k PairKind) String() string {
	switch k {
	case NN:
		return "numeric_numeric"
	case NC:
		return "numeric_categorical"
	case CC:
		return "categorical_categorical"
	default:
		return "unknown"
	}
}

// pair holds one retained column pair's identity and its allocated sketch.
// Exactly one of nn/nc/cc is non-nil, selected by kind.
type pair struct {
	idxA, idxB   int
	nameA, nameB string
	kind         PairKind

	nn *nnSketch
	nc *ncSketch
	cc *ccSketch

	// for NC only: which side is numeric vs categorical.
	numIdx, catIdx   int
	numName, catName string
}

func (p *pair) key() string { return p.nameA + "__" + p.nameB }

// Analyzer enumerates all i<j column pairs at construction time,
// classifies each, caps the retained set at maxPairs, and dispatches
// per-row updates to the retained pairs' sketches.
type Analyzer struct {
	pairs     []*pair
	truncated bool
	dropped   int
}

// NewAnalyzer enumerates column pairs from names/types in index order,
// classifies each into NN/NC/CC (dropping pairs neither side supports,
// e.g. two free-text columns), and caps the retained set at maxPairs (0
// or negative means the default of 50).
func NewAnalyzer(names []string, types []detect.DataType, maxPairs int) *Analyzer {
	if maxPairs <= 0 {
		maxPairs = defaultMaxPairs
	}
	a := &Analyzer{}
	var candidates []*pair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			p, ok := classify(i, j, names[i], names[j], types[i], types[j])
			if ok {
				candidates = append(candidates, p)
			}
		}
	}
	if len(candidates) > maxPairs {
		a.truncated = true
		a.dropped = len(candidates) - maxPairs
		candidates = candidates[:maxPairs]
	}
	for _, p := range candidates {
		allocateSketch(p)
	}
	a.pairs = candidates
	return a
}

func classify(i, j int, nameI, nameJ string, typeI, typeJ detect.DataType) (*pair, bool) {
	numI, catI := isNumeric(typeI), isCategoricalLike(typeI)
	numJ, catJ := isNumeric(typeJ), isCategoricalLike(typeJ)

	p := &pair{idxA: i, idxB: j, nameA: nameI, nameB: nameJ}
	switch {
	case numI && numJ:
		p.kind = NN
	case catI && catJ:
		p.kind = CC
	case numI && catJ:
		p.kind = NC
		p.numIdx, p.numName = i, nameI
		p.catIdx, p.catName = j, nameJ
	case catI && numJ:
		p.kind = NC
		p.numIdx, p.numName = j, nameJ
		p.catIdx, p.catName = i, nameI
	default:
		return nil, false
	}
	return p, true
}

func isNumeric(dt detect.DataType) bool {
	return dt == detect.NumericalInteger || dt == detect.NumericalFloat
}

func isCategoricalLike(dt detect.DataType) bool {
	return dt == detect.Categorical || dt == detect.Boolean
}

func allocateSketch(p *pair) {
	switch p.kind {
	case NN:
		p.nn = newNNSketch()
	case NC:
		p.nc = newNCSketch()
	case CC:
		p.cc = newCCSketch()
	}
}

// Truncated reports whether the pair cap dropped any candidate pairs, and
// how many.
func (a *Analyzer) Truncated() (bool, int) { return a.truncated, a.dropped }

// ProcessRow hands the row's cells to every retained pair's sketch. Cells
// are addressed positionally by column index; a row shorter than the
// header is a no-op for pairs referencing the missing indices.
func (a *Analyzer) ProcessRow(cells []rowsource.Cell) {
	for _, p := range a.pairs {
		if p.idxA >= len(cells) || p.idxB >= len(cells) {
			continue
		}
		cellA, cellB := cells[p.idxA], cells[p.idxB]
		if cellA.IsNull() || cellB.IsNull() {
			continue
		}
		switch p.kind {
		case NN:
			x, okX := parseNumeric(cellA)
			y, okY := parseNumeric(cellB)
			if okX && okY {
				p.nn.update(x, y)
			}
		case CC:
			p.cc.update(cellToString(cellA), cellToString(cellB))
		case NC:
			var numCell, catCell rowsource.Cell
			if p.numIdx == p.idxA {
				numCell, catCell = cellA, cellB
			} else {
				numCell, catCell = cellB, cellA
			}
			if x, ok := parseNumeric(numCell); ok {
				p.nc.update(cellToString(catCell), x)
			}
		}
	}
}

func parseNumeric(cell rowsource.Cell) (float64, bool) {
	switch cell.Kind {
	case rowsource.CellInt:
		return float64(cell.Int), true
	case rowsource.CellFloat:
		return cell.Flt, true
	case rowsource.CellText:
		f, err := strconv.ParseFloat(cell.Text, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func cellToString(cell rowsource.Cell) string {
	switch cell.Kind {
	case rowsource.CellText:
		return cell.Text
	case rowsource.CellInt:
		return strconv.FormatInt(cell.Int, 10)
	case rowsource.CellFloat:
		return strconv.FormatFloat(cell.Flt, 'g', -1, 64)
	default:
		return ""
	}
}

// Report is the finalized three-bucket bivariate report.
type Report struct {
	NumericNumeric         NNReport `json:"numericNumeric"`
	NumericCategorical     NCReport `json:"numericCategorical"`
	CategoricalCategorical CCReport `json:"categoricalCategorical"`
	PairsDropped           int      `json:"pairsDropped,omitempty"`
	Warnings               []string `json:"warnings,omitempty"`
}

// Finalize computes the three report buckets from the retained pairs'
// sketches. A single pair failing a kernel yields a pair-level warning and
// zeroed statistics; it never aborts the whole finalize.
func (a *Analyzer) Finalize() Report {
	var report Report
	var nnEntries []NNEntry
	var ncEntries []NCEntry
	var ccEntries []CCEntry

	for _, p := range a.pairs {
		switch p.kind {
		case NN:
			nnEntries = append(nnEntries, p.nn.finalize(p.nameA, p.nameB))
		case NC:
			ncEntries = append(ncEntries, p.nc.finalize(p.numName, p.catName))
		case CC:
			ccEntries = append(ccEntries, p.cc.finalize(p.nameA, p.nameB))
		}
	}

	report.NumericNumeric = finalizeNN(nnEntries)
	report.NumericCategorical = NCReport{Pairs: ncEntries}
	report.CategoricalCategorical = CCReport{Pairs: ccEntries}

	if a.truncated {
		report.PairsDropped = a.dropped
		report.Warnings = append(report.Warnings,
			"bivariate pair cap reached; some column pairs were not analyzed")
	}
	return report
}

func strengthBucket(abs float64) string {
	switch {
	case abs >= 0.8:
		return "Very Strong"
	case abs >= 0.6:
		return "Strong"
	case abs >= 0.4:
		return "Moderate"
	case abs >= 0.2:
		return "Weak"
	default:
		return "Very Weak"
	}
}

func medianFromSortedMean(mean float64) float64 {
	// The source data behind per-category moments is not retained past
	// the accumulator, so median is approximated by the mean per §4.5.
	return mean
}
