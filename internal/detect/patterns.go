package detect

import (
	"regexp"
	"strings"
)

var (
	numericPattern = regexp.MustCompile(`^-?\d*\.?\d+$`)

	currencyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\$[\d,]+\.?\d*$`),
		regexp.MustCompile(`(?i)^[\d,]+\.?\d*\s*(USD|EUR|GBP|CAD|AUD)$`),
		regexp.MustCompile(`(?i)^(USD|EUR|GBP|CAD|AUD)\s*[\d,]+\.?\d*$`),
	}

	percentagePattern = regexp.MustCompile(`^[\d.]+%$`)

	emailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	urlPattern   = regexp.MustCompile(`(?i)^https?://[^\s]+$`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),                        // ISO
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2})?`), // ISO w/ time
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),                    // US slash
		regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),                    // US hyphen
		regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`),                    // EU slash
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`),                  // EU dot
	}
)

var (
	numericHints = set(
		"id", "count", "number", "quantity", "amount", "size", "length", "age",
		"rate", "pressure", "sugar", "weight", "height", "score", "price",
		"salary", "value", "level", "measurement",
	)
	currencyHints   = set("price", "cost", "amount", "salary", "revenue", "fee", "charge")
	percentageHints = set("percent", "rate", "ratio", "%")
	dateRejectNames = set("gender", "sex", "type", "category", "status", "class", "group")
	dateHints       = set("date", "time", "timestamp", "created", "updated", "modified", "birth", "expir")

	booleanPairs = [][2]string{
		{"true", "false"}, {"yes", "no"}, {"y", "n"}, {"1", "0"},
		{"on", "off"}, {"enabled", "disabled"}, {"active", "inactive"},
	}

	genderTokens = set("male", "female", "m", "f", "man", "woman", "boy", "girl", "nonbinary", "non-binary", "other")
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// nameContainsAny reports whether lowercased name contains any of tokens
// as a substring.
func nameContainsAny(name string, tokens map[string]bool) bool {
	lname := strings.ToLower(name)
	for t := range tokens {
		if strings.Contains(lname, t) {
			return true
		}
	}
	return false
}

func booleanTokenSet() map[string]bool {
	m := make(map[string]bool)
	for _, pair := range booleanPairs {
		m[pair[0]] = true
		m[pair[1]] = true
	}
	return m
}

func isClassicPair(values map[string]bool) bool {
	for _, pair := range booleanPairs {
		if len(values) == 2 && values[pair[0]] && values[pair[1]] {
			return true
		}
	}
	return false
}
