package filter

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/five82/trawl/internal/record"
)

// FieldSpec binds a Spec to a record field.
type FieldSpec struct {
	Field record.Field `toml:"field"`
	Spec  Spec         `toml:"spec"`
}

// Set is a composite filter. Every active field spec and the optional
// expression must match (AND).
type Set struct {
	Fields []FieldSpec `toml:"fields,omitempty"`
	// Expr is an optional govaluate expression over the record fields,
	// e.g. `level == "ERROR" && app != "probe"`.
	Expr string `toml:"expr,omitempty"`
}

// Active reports whether any dimension of the set constrains records.
func (s Set) Active() bool {
	if strings.TrimSpace(s.Expr) != "" {
		return true
	}
	for _, fs := range s.Fields {
		if fs.Spec.Active() {
			return true
		}
	}
	return false
}

// Validate checks every dimension and returns the first authoring error.
func (s Set) Validate() error {
	for _, fs := range s.Fields {
		if _, ok := record.ParseField(string(fs.Field)); !ok {
			return fmt.Errorf("unknown field %q", fs.Field)
		}
		if !fs.Spec.Active() {
			continue
		}
		if err := fs.Spec.Validate(); err != nil {
			return fmt.Errorf("%s: %w", fs.Field, err)
		}
	}
	if expr := strings.TrimSpace(s.Expr); expr != "" {
		if _, err := govaluate.NewEvaluableExpression(expr); err != nil {
			return fmt.Errorf("expression: %w", err)
		}
	}
	return nil
}

// With returns a copy of the set with field's spec replaced (or added).
// An inactive spec removes the field.
func (s Set) With(field record.Field, spec Spec) Set {
	out := Set{Expr: s.Expr}
	replaced := false
	for _, fs := range s.Fields {
		if fs.Field == field {
			replaced = true
			if spec.Active() {
				out.Fields = append(out.Fields, FieldSpec{Field: field, Spec: spec})
			}
			continue
		}
		out.Fields = append(out.Fields, fs)
	}
	if !replaced && spec.Active() {
		out.Fields = append(out.Fields, FieldSpec{Field: field, Spec: spec})
	}
	return out
}

// Get returns the spec configured for field, if any.
func (s Set) Get(field record.Field) (Spec, bool) {
	for _, fs := range s.Fields {
		if fs.Field == field {
			return fs.Spec, true
		}
	}
	return Spec{}, false
}

type fieldMatcher struct {
	field record.Field
	m     *Matcher
}

// Evaluator is a compiled Set.
type Evaluator struct {
	fields     []fieldMatcher
	expr       *govaluate.EvaluableExpression
	exprBroken bool
	active     bool
}

// NewEvaluator compiles s. It never fails: broken patterns and expressions
// compile to dimensions that match nothing.
func NewEvaluator(s Set) *Evaluator {
	e := &Evaluator{}
	for _, fs := range s.Fields {
		m := Compile(fs.Spec)
		if !m.Active() {
			continue
		}
		e.fields = append(e.fields, fieldMatcher{field: fs.Field, m: m})
	}
	if expr := strings.TrimSpace(s.Expr); expr != "" {
		compiled, err := govaluate.NewEvaluableExpression(expr)
		if err != nil {
			e.exprBroken = true
		} else {
			e.expr = compiled
		}
	}
	e.active = len(e.fields) > 0 || e.expr != nil || e.exprBroken
	return e
}

// Active reports whether the evaluator filters anything.
func (e *Evaluator) Active() bool {
	return e != nil && e.active
}

// Match reports whether rec passes every active dimension.
func (e *Evaluator) Match(rec record.Record) bool {
	if !e.Active() {
		return true
	}
	for _, fm := range e.fields {
		if !fm.m.Match(rec.Field(fm.field)) {
			return false
		}
	}
	if e.exprBroken {
		return false
	}
	if e.expr != nil {
		return evalExpr(e.expr, rec)
	}
	return true
}

// Apply returns the records that pass. With no active dimension the input
// slice itself is returned without inspecting any record.
func (e *Evaluator) Apply(recs []record.Record) []record.Record {
	if !e.Active() {
		return recs
	}
	return e.AppendMatches(make([]record.Record, 0, len(recs)), recs)
}

// AppendMatches appends the records of src that pass to dst.
func (e *Evaluator) AppendMatches(dst, src []record.Record) []record.Record {
	if !e.Active() {
		return append(dst, src...)
	}
	for _, rec := range src {
		if e.Match(rec) {
			dst = append(dst, rec)
		}
	}
	return dst
}

func evalExpr(expr *govaluate.EvaluableExpression, rec record.Record) bool {
	params := make(map[string]any, len(record.Fields)+1)
	for _, f := range record.Fields {
		params[string(f)] = rec.Field(f)
	}
	params["id"] = float64(rec.ID)
	result, err := expr.Evaluate(params)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}
