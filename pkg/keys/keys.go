// Package keys compares translation key lists.
package keys

import "strings"

// Classification is the outcome of comparing a candidate key list against the
// reference list.
type Classification int

const (
	// Missing means the candidate has fewer keys than the reference.
	Missing Classification = iota
	// Extra means the candidate has at least as many keys as the reference.
	Extra
)

// String returns the string representation of the classification.
func (c Classification) String() string {
	switch c {
	case Missing:
		return "missing"
	case Extra:
		return "extra"
	default:
		return "unknown"
	}
}

// Result is a classification together with the keys that triggered it.
type Result struct {
	Classification Classification
	Difference     []string
}

// Empty reports whether there is nothing to report.
func (r Result) Empty() bool {
	return len(r.Difference) == 0
}

// Message renders the result as a diagnostic message. It returns "" for an
// empty result.
func (r Result) Message() string {
	if r.Empty() {
		return ""
	}
	list := FormatKeys(r.Difference)
	if r.Classification == Missing {
		return "Missing keys: " + list
	}
	return "Unnecessary keys: " + list
}

// AsymmetricDifference returns the elements of a that are not present in b,
// in the order they appear in a.
func AsymmetricDifference(a, b []string) []string {
	present := make(map[string]struct{}, len(b))
	for _, k := range b {
		present[k] = struct{}{}
	}

	var diff []string
	for _, k := range a {
		if _, ok := present[k]; !ok {
			diff = append(diff, k)
		}
	}
	return diff
}

// Classify compares candidate against reference. The direction of the
// comparison is chosen by length alone: a shorter candidate is checked for
// missing keys, anything else for extra keys. When both lists have the same
// length but different content only the extra keys are reported.
func Classify(reference, candidate []string) Result {
	if len(candidate) < len(reference) {
		return Result{Classification: Missing, Difference: AsymmetricDifference(reference, candidate)}
	}
	return Result{Classification: Extra, Difference: AsymmetricDifference(candidate, reference)}
}

// ClassifySymmetric reports both directions independently. Empty results are
// omitted, so the returned slice has zero, one or two entries with Missing
// first.
func ClassifySymmetric(reference, candidate []string) []Result {
	var results []Result
	if missing := AsymmetricDifference(reference, candidate); len(missing) > 0 {
		results = append(results, Result{Classification: Missing, Difference: missing})
	}
	if extra := AsymmetricDifference(candidate, reference); len(extra) > 0 {
		results = append(results, Result{Classification: Extra, Difference: extra})
	}
	return results
}

// FormatKeys quotes each key and joins them with commas.
func FormatKeys(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = "'" + k + "'"
	}
	return strings.Join(quoted, ",")
}
