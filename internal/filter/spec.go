package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how a Spec matches values.
type Mode string

const (
	ModeList    Mode = "list"
	ModePattern Mode = "pattern"
)

// Operator is the comparison used in pattern mode.
type Operator string

const (
	OpContains   Operator = "contains"
	OpEquals     Operator = "equals"
	OpStartsWith Operator = "starts-with"
	OpEndsWith   Operator = "ends-with"
	OpRegex      Operator = "regex"
)

// Spec filters a single string value. List mode tests membership in Values;
// pattern mode compares against Pattern using Operator. Inverse negates the
// result in both modes.
type Spec struct {
	Mode          Mode     `toml:"mode"`
	Values        []string `toml:"values,omitempty"`
	Operator      Operator `toml:"operator,omitempty"`
	Pattern       string   `toml:"pattern,omitempty"`
	CaseSensitive bool     `toml:"case_sensitive,omitempty"`
	Inverse       bool     `toml:"inverse,omitempty"`
}

// List builds a list mode spec.
func List(values ...string) Spec {
	return Spec{Mode: ModeList, Values: values}
}

// Pattern builds a case-insensitive pattern mode spec.
func Pattern(op Operator, pattern string) Spec {
	return Spec{Mode: ModePattern, Operator: op, Pattern: pattern}
}

// Active reports whether the spec constrains anything. An empty list or an
// empty pattern is treated as unconfigured.
func (s Spec) Active() bool {
	switch s.Mode {
	case ModeList:
		return len(s.Values) > 0
	case ModePattern:
		return s.Pattern != ""
	default:
		return false
	}
}

// Validate reports authoring errors such as an unknown operator or a regex
// that does not compile. Evaluation never fails; see Matcher.
func (s Spec) Validate() error {
	switch s.Mode {
	case ModeList:
		return nil
	case ModePattern:
		switch s.Operator {
		case OpContains, OpEquals, OpStartsWith, OpEndsWith, "":
			return nil
		case OpRegex:
			if _, err := compileRegex(s.Pattern, s.CaseSensitive); err != nil {
				return fmt.Errorf("invalid regex %q: %w", s.Pattern, err)
			}
			return nil
		default:
			return fmt.Errorf("unknown operator %q", s.Operator)
		}
	case "":
		return fmt.Errorf("filter mode is empty")
	default:
		return fmt.Errorf("unknown filter mode %q", s.Mode)
	}
}

// Matcher is a compiled Spec.
type Matcher struct {
	active  bool
	inverse bool
	mode    Mode
	set     map[string]struct{}
	fold    bool
	op      Operator
	pattern string
	re      *regexp.Regexp
	broken  bool
}

// Compile prepares s for repeated evaluation. An invalid regex or unknown
// operator yields a matcher that never matches, regardless of Inverse.
func Compile(s Spec) *Matcher {
	m := &Matcher{active: s.Active(), inverse: s.Inverse, mode: s.Mode}
	if !m.active {
		return m
	}
	switch s.Mode {
	case ModeList:
		m.set = make(map[string]struct{}, len(s.Values))
		for _, v := range s.Values {
			m.set[v] = struct{}{}
		}
	case ModePattern:
		m.fold = !s.CaseSensitive
		m.op = s.Operator
		if m.op == "" {
			m.op = OpContains
		}
		m.pattern = s.Pattern
		if m.fold {
			m.pattern = strings.ToLower(s.Pattern)
		}
		switch m.op {
		case OpContains, OpEquals, OpStartsWith, OpEndsWith:
		case OpRegex:
			re, err := compileRegex(s.Pattern, s.CaseSensitive)
			if err != nil {
				m.broken = true
			} else {
				m.re = re
			}
		default:
			m.broken = true
		}
	}
	return m
}

// Active reports whether the matcher constrains anything.
func (m *Matcher) Active() bool {
	return m != nil && m.active
}

// Match evaluates value. Inactive matchers match everything.
func (m *Matcher) Match(value string) bool {
	if !m.Active() {
		return true
	}
	if m.broken {
		return false
	}
	var hit bool
	switch m.mode {
	case ModeList:
		_, hit = m.set[value]
	case ModePattern:
		hit = m.matchPattern(value)
	}
	if m.inverse {
		return !hit
	}
	return hit
}

func (m *Matcher) matchPattern(value string) bool {
	if m.op == OpRegex {
		return m.re.MatchString(value)
	}
	if m.fold {
		value = strings.ToLower(value)
	}
	switch m.op {
	case OpEquals:
		return value == m.pattern
	case OpStartsWith:
		return strings.HasPrefix(value, m.pattern)
	case OpEndsWith:
		return strings.HasSuffix(value, m.pattern)
	case OpContains:
		return strings.Contains(value, m.pattern)
	default:
		return false
	}
}

func compileRegex(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}
