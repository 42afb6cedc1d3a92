package highlight

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/five82/trawl/internal/filter"
	"github.com/five82/trawl/internal/record"
)

// Cache sizes for resolved rule styles and merged row styles.
const (
	StyleCacheSize = 100
	RowCacheSize   = 500
)

// Palette holds the base row styles the highlight style is merged onto.
type Palette struct {
	Even     lipgloss.Style
	Odd      lipgloss.Style
	Selected lipgloss.Style
}

// RowKey identifies a merged row style.
type RowKey struct {
	Odd      bool
	RuleID   string
	Selected bool
}

type compiledRule struct {
	rule Rule
	eval *filter.Evaluator
}

// Engine evaluates highlight rules against records. It is not safe for
// concurrent use; the UI drives it from a single goroutine.
type Engine struct {
	rules   []compiledRule
	palette Palette
	styles  *lru.Cache[string, lipgloss.Style]
	rows    *lru.Cache[RowKey, lipgloss.Style]
}

// New builds an engine for rules.
func New(rules []Rule, palette Palette) *Engine {
	styles, _ := lru.New[string, lipgloss.Style](StyleCacheSize)
	rows, _ := lru.New[RowKey, lipgloss.Style](RowCacheSize)
	e := &Engine{palette: palette, styles: styles, rows: rows}
	e.SetRules(rules)
	return e
}

// SetRules replaces the rule set. Rules are ordered by descending priority;
// rules with equal priority keep their relative order. Disabled rules are
// dropped. Both caches are purged.
func (e *Engine) SetRules(rules []Rule) {
	sorted := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !r.Disabled {
			sorted = append(sorted, r)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Rule) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	e.rules = e.rules[:0]
	for _, r := range sorted {
		e.rules = append(e.rules, compiledRule{rule: r, eval: filter.NewEvaluator(r.Filter())})
	}
	e.Reset()
}

// SetPalette replaces the base row styles and drops merged row styles.
func (e *Engine) SetPalette(p Palette) {
	e.palette = p
	e.rows.Purge()
}

// Rules returns the active rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	for i, cr := range e.rules {
		out[i] = cr.rule
	}
	return out
}

// Match returns the first rule whose predicate matches rec. Separator
// records never match.
func (e *Engine) Match(rec record.Record) (Rule, bool) {
	if rec.IsSeparator() {
		return Rule{}, false
	}
	for _, cr := range e.rules {
		if cr.eval.Match(rec) {
			return cr.rule, true
		}
	}
	return Rule{}, false
}

// Style returns the resolved style of the first matching rule.
func (e *Engine) Style(rec record.Record) (lipgloss.Style, bool) {
	r, ok := e.Match(rec)
	if !ok {
		return lipgloss.Style{}, false
	}
	return e.resolve(r), true
}

func (e *Engine) resolve(r Rule) lipgloss.Style {
	if st, ok := e.styles.Get(r.ID); ok {
		return st
	}
	st := r.Style.Lipgloss()
	e.styles.Add(r.ID, st)
	return st
}

// RowStyle returns the merged style for a row: the positional base, the
// highlight of the matching rule (if any) and the selection overlay.
func (e *Engine) RowStyle(rec record.Record, odd, selected bool) lipgloss.Style {
	key := RowKey{Odd: odd, Selected: selected}
	r, matched := e.Match(rec)
	if matched {
		key.RuleID = r.ID
	}
	if st, ok := e.rows.Get(key); ok {
		return st
	}
	st := e.palette.Even
	if odd {
		st = e.palette.Odd
	}
	if matched {
		st = e.resolve(r).Inherit(st)
	}
	if selected {
		st = e.palette.Selected.Inherit(st)
	}
	e.rows.Add(key, st)
	return st
}

// CacheLen reports the number of cached rule and row styles.
func (e *Engine) CacheLen() (styles, rows int) {
	return e.styles.Len(), e.rows.Len()
}

// Reset purges both caches.
func (e *Engine) Reset() {
	e.styles.Purge()
	e.rows.Purge()
}
