package analyzers

import (
	"sort"
	"time"

	"mcs-mcp/internal/detect"
	"mcs-mcp/internal/primitives"
	"mcs-mcp/pkg/rowsource"
)

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
	"02.01.2006",
}

// DateTimeAnalyzer sinks parsed timestamps into a bounded sample and four
// bounded frequency counters over {year, month, weekday, hour}.
type DateTimeAnalyzer struct {
	name         string
	semanticType detect.SemanticType

	counts Counts

	sample   *primitives.Reservoir[time.Time]
	years    *primitives.BoundedFrequencyCounter[int]
	months   *primitives.BoundedFrequencyCounter[time.Month]
	weekdays *primitives.BoundedFrequencyCounter[time.Weekday]
	hours    *primitives.BoundedFrequencyCounter[int]

	anySecond bool
	anyHour   bool
	anyMinute bool

	finalized bool
}

func NewDateTimeAnalyzer(name string, st detect.SemanticType) *DateTimeAnalyzer {
	seed := uint32(42)
	return &DateTimeAnalyzer{
		name:         name,
		semanticType: st,
		sample:       primitives.NewReservoir[time.Time](50, &seed),
		years:        primitives.NewBoundedFrequencyCounter[int](100),
		months:       primitives.NewBoundedFrequencyCounter[time.Month](12),
		weekdays:     primitives.NewBoundedFrequencyCounter[time.Weekday](7),
		hours:        primitives.NewBoundedFrequencyCounter[int](24),
	}
}

func (a *DateTimeAnalyzer) ProcessValue(cell rowsource.Cell) {
	if a.finalized {
		panic("analyzers: ProcessValue called after Finalize")
	}
	isNull := cell.IsNull()
	if isNull {
		a.counts.observe(true)
		return
	}
	t, ok := parseDateTime(cell)
	if !ok || t.Year() < 1900 || t.Year() > 2100 {
		a.counts.observe(true)
		return
	}
	a.counts.observe(false)

	a.sample.Update(t)
	a.years.Update(t.Year())
	a.months.Update(t.Month())
	a.weekdays.Update(t.Weekday())
	a.hours.Update(t.Hour())

	if t.Second() != 0 {
		a.anySecond = true
	}
	if t.Hour() != 0 {
		a.anyHour = true
	}
	if t.Minute() != 0 {
		a.anyMinute = true
	}
}

func parseDateTime(cell rowsource.Cell) (time.Time, bool) {
	if cell.Kind != rowsource.CellText {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, cell.Text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateTimeReport is the finalized report shape for a datetime column.
type DateTimeReport struct {
	SpanYears, SpanMonths, SpanDays int
	Granularity                     string
	TopYears                        []primitives.KeyCount[int]
	TopMonths                       []primitives.KeyCount[time.Month]
	TopWeekdays                     []primitives.KeyCount[time.Weekday]
	TopHours                       []primitives.KeyCount[int]
	TemporalPattern                 string
	LargestGapDays                  float64
	FutureDatesNote                 string
	Pre1900Note                     string
}

func (a *DateTimeAnalyzer) Finalize() ColumnReport {
	if a.finalized {
		panic("analyzers: Finalize called twice")
	}
	a.finalized = true

	sample := a.sample.Items()
	sort.Slice(sample, func(i, j int) bool { return sample[i].Before(sample[j]) })

	report := DateTimeReport{
		TopYears:    a.years.TopK(3),
		TopMonths:   a.months.TopK(3),
		TopWeekdays: a.weekdays.TopK(3),
		TopHours:    a.hours.TopK(3),
	}

	switch {
	case a.anySecond:
		report.Granularity = "second"
	case a.anyMinute:
		report.Granularity = "minute"
	case a.anyHour:
		report.Granularity = "hour"
	default:
		report.Granularity = "day"
	}

	if len(sample) >= 2 {
		span := sample[len(sample)-1].Sub(sample[0])
		report.SpanDays = int(span.Hours() / 24)
		report.SpanMonths = report.SpanDays / 30
		report.SpanYears = report.SpanDays / 365

		var totalGapDays, maxGap float64
		for i := 1; i < len(sample); i++ {
			gap := sample[i].Sub(sample[i-1]).Hours() / 24
			totalGapDays += gap
			if gap > maxGap {
				maxGap = gap
			}
		}
		report.LargestGapDays = maxGap
		meanGap := totalGapDays / float64(len(sample)-1)

		switch {
		case meanGap < 1:
			report.TemporalPattern = "high-frequency"
		case meanGap < 7:
			report.TemporalPattern = "daily-to-weekly"
		case meanGap < 32:
			report.TemporalPattern = "weekly-to-monthly"
		default:
			report.TemporalPattern = "sparse"
		}
	}

	now := time.Now()
	for _, t := range sample {
		if t.After(now) {
			report.FutureDatesNote = "sample contains dates in the future"
		}
		if t.Year() < 1900 {
			report.Pre1900Note = "sample contains dates before 1900"
		}
	}

	return ColumnReport{
		Name: a.name, DataType: detect.DateTime, SemanticType: a.semanticType,
		Quality: a.counts.Quality(), Total: a.counts.Total, Valid: a.counts.Valid, Null: a.counts.Null,
		Warnings: a.Warnings(), DateTime: &report,
	}
}

func (a *DateTimeAnalyzer) Warnings() []string {
	return commonWarnings(a.counts, nil)
}

func (a *DateTimeAnalyzer) ClearTransientMemory() {
	seed := uint32(42)
	a.sample = primitives.NewReservoir[time.Time](50, &seed)
}
