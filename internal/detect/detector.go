package detect

import (
	"strconv"
	"strings"
)

// candidate is one battery test's proposed classification before the
// highest-confidence candidate wins.
type candidate struct {
	dataType DataType
	semantic SemanticType
	conf     float64
	reasons  []string
}

// DetectColumn runs the fixed-order test battery over a column's sampled
// raw values and returns the single highest-confidence classification,
// penalized for data quality.
func DetectColumn(name string, raw []string) Result {
	var valid []string
	for _, v := range raw {
		t := strings.TrimSpace(v)
		if t != "" {
			valid = append(valid, t)
		}
	}
	total := len(raw)
	if total == 0 {
		return Result{DataType: TextGeneral, SemanticType: SemanticUnknown, Confidence: 0, Reasons: []string{"no data"}}
	}
	qualityRatio := float64(len(valid)) / float64(total)

	tests := []func(string, []string) (candidate, bool){
		testNumerical,
		testBoolean,
		testCurrency,
		testPercentage,
		testEmail,
		testURL,
		testDateTime,
		testCategorical,
	}

	var best candidate
	found := false
	for _, test := range tests {
		if len(valid) == 0 {
			break
		}
		c, ok := test(name, valid)
		if ok && (!found || c.conf > best.conf) {
			best, found = c, true
		}
	}
	if !found {
		best = testText(valid)
	}

	best.conf -= 0.15 * (1 - qualityRatio)
	if best.conf < 0 {
		best.conf = 0
	}
	if best.conf > 0.98 {
		best.conf = 0.98
	}

	if best.semantic == SemanticUnknown {
		best.semantic = classifySemantics(name, best.dataType)
	}

	return Result{
		DataType:     best.dataType,
		SemanticType: best.semantic,
		Confidence:   best.conf,
		Reasons:      best.reasons,
	}
}

func testNumerical(name string, values []string) (candidate, bool) {
	var numeric, withDecimal, integers int
	for _, v := range values {
		if numericPattern.MatchString(v) {
			numeric++
			if strings.Contains(v, ".") {
				withDecimal++
			} else {
				integers++
			}
		}
	}
	theta := float64(numeric) / float64(len(values))
	hint := nameContainsAny(name, numericHints)
	threshold := 0.85
	if hint {
		threshold = 0.7
	}
	if theta < threshold {
		return candidate{}, false
	}

	dt := NumericalFloat
	if numeric > 0 && float64(integers)/float64(numeric) >= 0.9 && withDecimal == 0 {
		dt = NumericalInteger
	}

	conf := 0.5 + 0.35*theta
	if hint {
		conf += 0.15
	}
	if theta >= 0.95 {
		conf += 0.10
	}
	if theta < 0.80 {
		conf -= 0.10
	}
	if conf > 0.98 {
		conf = 0.98
	}

	return candidate{dataType: dt, conf: conf, reasons: []string{"matches numeric pattern"}}, true
}

func testBoolean(name string, values []string) (candidate, bool) {
	lowerSet := make(map[string]bool)
	tokens := booleanTokenSet()
	matched := 0
	for _, v := range values {
		lv := strings.ToLower(v)
		lowerSet[lv] = true
		if tokens[lv] {
			matched++
		}
	}
	if len(lowerSet) > 3 {
		return candidate{}, false
	}
	ratio := float64(matched) / float64(len(values))
	if ratio < 0.9 {
		return candidate{}, false
	}

	conf := 0.7 + 0.25*ratio
	if isClassicPair(lowerSet) {
		conf += 0.05
	}
	if conf > 0.97 {
		conf = 0.97
	}
	return candidate{dataType: Boolean, conf: conf, reasons: []string{"matches boolean token set"}}, true
}

func testCurrency(name string, values []string) (candidate, bool) {
	matched := 0
	for _, v := range values {
		for _, p := range currencyPatterns {
			if p.MatchString(v) {
				matched++
				break
			}
		}
	}
	theta := float64(matched) / float64(len(values))
	if theta < 0.7 {
		return candidate{}, false
	}
	conf := 0.5 + 0.35*theta
	if nameContainsAny(name, currencyHints) {
		conf += 0.1
	}
	if conf > 0.98 {
		conf = 0.98
	}
	return candidate{dataType: NumericalFloat, semantic: SemanticCurrency, conf: conf, reasons: []string{"matches currency pattern"}}, true
}

func testPercentage(name string, values []string) (candidate, bool) {
	matched := 0
	for _, v := range values {
		if percentagePattern.MatchString(v) {
			matched++
		}
	}
	theta := float64(matched) / float64(len(values))
	if theta < 0.8 {
		return candidate{}, false
	}
	conf := 0.5 + 0.35*theta
	if nameContainsAny(name, percentageHints) {
		conf += 0.1
	}
	if conf > 0.98 {
		conf = 0.98
	}
	return candidate{dataType: NumericalFloat, semantic: SemanticPercentage, conf: conf, reasons: []string{"matches percentage pattern"}}, true
}

func testEmail(name string, values []string) (candidate, bool) {
	matched := 0
	for _, v := range values {
		if emailPattern.MatchString(v) {
			matched++
		}
	}
	theta := float64(matched) / float64(len(values))
	if theta < 0.9 {
		return candidate{}, false
	}
	return candidate{dataType: TextAddress, semantic: SemanticIdentifier, conf: 0.85, reasons: []string{"matches email pattern"}}, true
}

func testURL(name string, values []string) (candidate, bool) {
	matched := 0
	for _, v := range values {
		if urlPattern.MatchString(v) {
			matched++
		}
	}
	theta := float64(matched) / float64(len(values))
	if theta < 0.8 {
		return candidate{}, false
	}
	return candidate{dataType: TextAddress, semantic: SemanticIdentifier, conf: 0.8, reasons: []string{"matches URL pattern"}}, true
}

func testDateTime(name string, values []string) (candidate, bool) {
	if nameContainsAny(name, dateRejectNames) {
		return candidate{}, false
	}
	if nameContainsAny(name, numericHints) && !nameContainsAny(name, dateHints) {
		return candidate{}, false
	}

	matched := 0
	for _, v := range values {
		for _, p := range datePatterns {
			if p.MatchString(v) && yearInRange(v) {
				matched++
				break
			}
		}
	}
	theta := float64(matched) / float64(len(values))
	threshold := 0.9
	hint := nameContainsAny(name, dateHints)
	if hint {
		threshold = 0.7
	}
	if theta < threshold {
		return candidate{}, false
	}

	conf := 0.6 + 0.3*theta
	if hint {
		conf += 0.08
	}
	if conf > 0.97 {
		conf = 0.97
	}
	sem := SemanticUnknown
	if nameContainsAny(name, set("transaction", "payment")) {
		sem = SemanticDateTransaction
	}
	return candidate{dataType: DateTime, semantic: sem, conf: conf, reasons: []string{"matches date pattern"}}, true
}

func yearInRange(v string) bool {
	for i := 0; i+4 <= len(v); i++ {
		if y, err := strconv.Atoi(v[i : i+4]); err == nil && y >= 1900 && y <= 2100 {
			return true
		}
	}
	return false
}

func testCategorical(name string, values []string) (candidate, bool) {
	lname := strings.ToLower(name)
	if strings.Contains(lname, "gender") || strings.Contains(lname, "sex") {
		allGender := true
		for _, v := range values {
			if !genderTokens[strings.ToLower(v)] {
				allGender = false
				break
			}
		}
		if allGender {
			return candidate{dataType: Categorical, semantic: SemanticDemographic, conf: 0.98, reasons: []string{"gender column with gender tokens"}}, true
		}
	}

	uniques := make(map[string]bool)
	for _, v := range values {
		uniques[v] = true
	}
	n := len(values)
	u := len(uniques)
	maxRatio := 0.5
	if n <= 10 {
		maxRatio = 0.8
	}
	ratio := float64(u) / float64(n)
	if u < 2 || u > 100 || ratio > maxRatio {
		return candidate{}, false
	}

	conf := 0.6 + 0.2*(1-ratio)
	if conf > 0.9 {
		conf = 0.9
	}
	return candidate{dataType: Categorical, conf: conf, reasons: []string{"bounded unique value set"}}, true
}

func testText(values []string) candidate {
	var totalLen int
	for _, v := range values {
		totalLen += len(v)
	}
	meanLen := float64(totalLen) / float64(len(values))
	sem := SemanticUnknown
	if meanLen <= 50 {
		sem = SemanticCategory
	}
	return candidate{dataType: TextGeneral, semantic: sem, conf: 0.3, reasons: []string{"fallback: no other test matched"}}
}

// classifySemantics applies the keyword table described in §6 for columns
// whose semantic type wasn't already set by the triggering test.
func classifySemantics(name string, dt DataType) SemanticType {
	lname := strings.ToLower(name)

	if dt == NumericalInteger || dt == NumericalFloat {
		switch {
		case strings.Contains(lname, "age") && !nameContainsAny(lname, set("percent", "average", "usage", "damage")):
			return SemanticAge
		case strings.Contains(lname, "count") || strings.Contains(lname, "quantity") || strings.Contains(lname, "number"):
			return SemanticCount
		case strings.Contains(lname, "rating") || strings.Contains(lname, "stars") || strings.Contains(lname, "score"):
			return SemanticRating
		case strings.Contains(lname, "id") || strings.HasSuffix(lname, "_id"):
			return SemanticIdentifier
		}
	}

	if dt == Categorical || dt == TextGeneral {
		switch {
		case strings.Contains(lname, "status") || strings.Contains(lname, "state"):
			return SemanticStatus
		case strings.Contains(lname, "department") || strings.Contains(lname, "team") || strings.Contains(lname, "division") || strings.Contains(lname, "org"):
			return SemanticOrganizationalUnit
		case strings.Contains(lname, "gender") || strings.Contains(lname, "sex") || strings.Contains(lname, "race") || strings.Contains(lname, "ethnicity"):
			return SemanticDemographic
		case strings.Contains(lname, "category") || strings.Contains(lname, "type") || strings.Contains(lname, "class"):
			return SemanticCategory
		}
	}

	if dt == DateTime {
		if strings.Contains(lname, "transaction") || strings.Contains(lname, "payment") {
			return SemanticDateTransaction
		}
	}

	return SemanticUnknown
}
