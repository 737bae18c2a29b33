package analyzers

import (
	"regexp"
	"strings"

	"mcs-mcp/internal/detect"
	"mcs-mcp/internal/primitives"
	"mcs-mcp/pkg/rowsource"
)

var (
	textNumericPattern = regexp.MustCompile(`^-?\d*\.?\d+$`)
	textURLPattern      = regexp.MustCompile(`(?i)^https?://[^\s]+$`)
	textEmailPattern    = regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	wordSplitPattern    = regexp.MustCompile(`\W+`)
)

// TextAnalyzer sinks arbitrary strings into bounded length/word-count
// samples, pattern counters, and a bounded lowercased word-frequency
// counter.
type TextAnalyzer struct {
	name         string
	semanticType detect.SemanticType

	counts Counts

	lengthSample *primitives.Reservoir[int]
	wordSample   *primitives.Reservoir[int]
	words        *primitives.BoundedFrequencyCounter[string]

	emptyCount, numericCount, urlCount, emailCount int64
	finalized                                      bool
}

func NewTextAnalyzer(name string, st detect.SemanticType) *TextAnalyzer {
	seed := uint32(42)
	return &TextAnalyzer{
		name:         name,
		semanticType: st,
		lengthSample: primitives.NewReservoir[int](100, &seed),
		wordSample:   primitives.NewReservoir[int](100, &seed),
		words:        primitives.NewBoundedFrequencyCounter[string](50),
	}
}

func (a *TextAnalyzer) ProcessValue(cell rowsource.Cell) {
	if a.finalized {
		panic("analyzers: ProcessValue called after Finalize")
	}
	if cell.IsNull() {
		a.counts.observe(true)
		a.emptyCount++
		return
	}
	s := cellToString(cell)
	a.counts.observe(false)

	a.lengthSample.Update(len(s))
	words := strings.Fields(s)
	a.wordSample.Update(len(words))

	if textNumericPattern.MatchString(s) {
		a.numericCount++
	}
	if textURLPattern.MatchString(s) {
		a.urlCount++
	}
	if textEmailPattern.MatchString(s) {
		a.emailCount++
	}

	if len(s) < 500 {
		for _, tok := range wordSplitPattern.Split(strings.ToLower(s), -1) {
			if len(tok) > 2 {
				a.words.Update(tok)
			}
		}
	}
}

// TextReport is the finalized report shape for a free-text column.
type TextReport struct {
	LengthMin, LengthMax       int
	LengthMean, LengthMedian   float64
	LengthStd                  float64
	WordCountMean              float64
	EmptyPercent               float64
	NumericLookingPercent      float64
	URLPercent                 float64
	EmailPercent               float64
	TopWords                   []primitives.KeyCount[string]
}

func (a *TextAnalyzer) Finalize() ColumnReport {
	if a.finalized {
		panic("analyzers: Finalize called twice")
	}
	a.finalized = true

	lengths := a.lengthSample.Items()
	wordCounts := a.wordSample.Items()

	lengthsF := make([]float64, len(lengths))
	for i, l := range lengths {
		lengthsF[i] = float64(l)
	}
	wordCountsF := make([]float64, len(wordCounts))
	for i, w := range wordCounts {
		wordCountsF[i] = float64(w)
	}

	moments := primitives.NewMoments()
	for _, l := range lengthsF {
		moments.Update(l)
	}
	wordMoments := primitives.NewMoments()
	for _, w := range wordCountsF {
		wordMoments.Update(w)
	}

	total := a.counts.Valid
	var numericPct, urlPct, emailPct, emptyPct float64
	if total > 0 {
		numericPct = 100 * float64(a.numericCount) / float64(total)
		urlPct = 100 * float64(a.urlCount) / float64(total)
		emailPct = 100 * float64(a.emailCount) / float64(total)
	}
	if a.counts.Total > 0 {
		emptyPct = 100 * float64(a.emptyCount) / float64(a.counts.Total)
	}

	report := TextReport{
		LengthMin: int(moments.Min), LengthMax: int(moments.Max),
		LengthMean: moments.Mean, LengthMedian: medianOf(lengthsF), LengthStd: moments.StdDev(),
		WordCountMean:         wordMoments.Mean,
		EmptyPercent:          emptyPct,
		NumericLookingPercent: numericPct,
		URLPercent:            urlPct,
		EmailPercent:          emailPct,
		TopWords:              a.words.TopK(5),
	}

	return ColumnReport{
		Name: a.name, DataType: detect.TextGeneral, SemanticType: a.semanticType,
		Quality: a.counts.Quality(), Total: a.counts.Total, Valid: a.counts.Valid, Null: a.counts.Null,
		Warnings: a.Warnings(), Text: &report,
	}
}

func (a *TextAnalyzer) Warnings() []string {
	return commonWarnings(a.counts, nil)
}

func (a *TextAnalyzer) ClearTransientMemory() {
	seed := uint32(42)
	a.lengthSample = primitives.NewReservoir[int](100, &seed)
	a.wordSample = primitives.NewReservoir[int](100, &seed)
}
