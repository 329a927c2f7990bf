package value

import "regexp"

// Regex is a compiled pattern paired with its source text (spec section 3).
// Equality compares source patterns only (spec section 4.A), not the
// compiled automaton, since two regexes compiled from the same source are
// always behaviourally identical. The standard library's regexp package is
// used rather than a third-party engine: none of the example repos in the
// retrieval pack carry a regex dependency, and Pkl's regex dialect (RE2-like)
// maps directly onto Go's RE2-based regexp (documented stdlib exception, see
// DESIGN.md).
type Regex struct {
	Source   string
	Compiled *regexp.Regexp
}

// CompileRegex compiles source into a Regex value.
func CompileRegex(source string) (Regex, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return Regex{}, err
	}

	return Regex{Source: source, Compiled: re}, nil
}

// Kind implements Value.
func (Regex) Kind() Kind { return KindRegex }

// Equals implements Value.
func (r Regex) Equals(other Value) bool {
	o, ok := other.(Regex)
	return ok && r.Source == o.Source
}

// Hash implements Value.
func (r Regex) Hash() uint64 { return hashCombine(0x5e9e, hashString(r.Source)) }

// String implements Value.
func (r Regex) String() string { return "Regex(" + r.Source + ")" }
