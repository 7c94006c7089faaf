package frame

import (
	"regexp"
	"strconv"
	"strings"
)

// Filter holds criteria for selecting timeseries rows. String criteria use
// pseudo-regex matching: `*` is a wildcard, `|` matches literally, and the
// pattern must cover the whole value. Several values per dimension combine
// with OR; dimensions combine with AND. The zero value matches everything.
type Filter struct {
	Model     []string
	Scenario  []string
	Region    []string
	Variable  []string
	Unit      []string
	Subannual []string
	Year      []int

	// Level restricts the hierarchy depth of variables (number of `|`):
	// "1" for exactly one level, "1+" for one or more, "1-" for at most
	// one. When Variable patterns are given, depth counts below the
	// matched pattern prefix.
	Level string
}

// IsZero reports whether the filter has no criteria.
func (f Filter) IsZero() bool {
	return len(f.Model) == 0 && len(f.Scenario) == 0 && len(f.Region) == 0 &&
		len(f.Variable) == 0 && len(f.Unit) == 0 && len(f.Subannual) == 0 &&
		len(f.Year) == 0 && f.Level == ""
}

// Filter returns a new frame containing the matching rows, with the meta
// table restricted to the surviving (model, scenario) pairs. The receiver
// is never modified.
func (f *Frame) Filter(criteria Filter) *Frame {
	var rows []Datum
	for _, d := range f.data {
		if criteria.matches(d) {
			rows = append(rows, d)
		}
	}
	out := &Frame{data: rows}
	out.meta = f.meta.restrict(keysOf(rows))
	return out
}

func (criteria Filter) matches(d Datum) bool {
	if !matchAny(d.Model, criteria.Model) ||
		!matchAny(d.Scenario, criteria.Scenario) ||
		!matchAny(d.Region, criteria.Region) ||
		!matchAny(d.Unit, criteria.Unit) ||
		!matchAny(d.Subannual, criteria.Subannual) {
		return false
	}
	if !matchAny(d.Variable, criteria.Variable) {
		return false
	}
	if len(criteria.Year) > 0 {
		found := false
		for _, y := range criteria.Year {
			if d.Year == y {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if criteria.Level != "" {
		if !matchLevel(d.Variable, criteria.Variable, criteria.Level) {
			return false
		}
	}
	return true
}

// matchAny reports whether value matches at least one pattern; an empty
// pattern list matches everything.
func matchAny(value string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if matchPattern(value, p) {
			return true
		}
	}
	return false
}

// matchPattern performs anchored pseudo-regex matching: regex
// metacharacters are escaped, then `*` becomes `.*`.
func matchPattern(value, pattern string) bool {
	re, err := regexp.Compile("^" + escapePattern(pattern) + "$")
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// escapePattern translates a pseudo-regex pattern to a real one. `|` is a
// literal (the IAMC variable separator), `*` the only wildcard.
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*':
			b.WriteString(".*")
		case '|', '.', '+', '(', ')', '$', '^', '[', ']', '{', '}', '?', '\\':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchLevel checks the hierarchy depth of a variable against a level
// spec. Depth is the number of `|` separators, counted below the matched
// pattern prefix when patterns are given.
func matchLevel(variable string, patterns []string, level string) bool {
	op := byte(0)
	spec := level
	if n := len(level); n > 0 && (level[n-1] == '+' || level[n-1] == '-') {
		op = level[n-1]
		spec = level[:n-1]
	}
	want, err := strconv.Atoi(spec)
	if err != nil {
		return false
	}

	depth := variableDepth(variable, patterns)
	if depth < 0 {
		return false
	}
	switch op {
	case '+':
		return depth >= want
	case '-':
		return depth <= want
	default:
		return depth == want
	}
}

// variableDepth counts `|` separators in the variable, below the first
// matching pattern's fixed prefix. Returns -1 if no pattern prefix
// applies.
func variableDepth(variable string, patterns []string) int {
	if len(patterns) == 0 {
		return strings.Count(variable, "|")
	}
	for _, p := range patterns {
		prefix := strings.TrimRight(p, "*")
		if strings.HasPrefix(variable, prefix) {
			return strings.Count(variable[len(prefix):], "|")
		}
	}
	return -1
}
