// Package column describes table columns and lays them out across a width.
package column

import (
	"fmt"
	"sort"
	"strings"

	"github.com/five82/trawl/internal/record"
)

// Type tags how a column's values are rendered.
type Type string

const (
	TypeText   Type = "text"
	TypeTime   Type = "time"
	TypeLevel  Type = "level"
	TypeNumber Type = "number"
)

// Pin keeps a column at one edge of the table.
type Pin string

const (
	PinNone  Pin = ""
	PinLeft  Pin = "left"
	PinRight Pin = "right"
)

// Def is a column definition.
type Def struct {
	ID       string       `toml:"id"`
	Field    record.Field `toml:"field"`
	Header   string       `toml:"header"`
	Type     Type         `toml:"type"`
	Width    int          `toml:"width,omitempty"` // fixed width; zero means flex
	Flex     float64      `toml:"flex,omitempty"`
	MinWidth int          `toml:"min_width,omitempty"`
	Visible  bool         `toml:"visible"`
	Pin      Pin          `toml:"pin,omitempty"`
}

// Fixed reports whether the column has a fixed width.
func (d Def) Fixed() bool {
	return d.Width > 0
}

func (d Def) minWidth() int {
	if d.MinWidth > 0 {
		return d.MinWidth
	}
	return max(len(d.Header), 4)
}

// Set is an ordered list of definitions with unique ids.
type Set struct {
	defs []Def
}

// NewSet validates defs and returns them as a Set.
func NewSet(defs []Def) (Set, error) {
	seen := make(map[string]struct{}, len(defs))
	out := make([]Def, 0, len(defs))
	for i, d := range defs {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return Set{}, fmt.Errorf("column %d: id is empty", i)
		}
		if _, dup := seen[id]; dup {
			return Set{}, fmt.Errorf("column %q: duplicate id", id)
		}
		seen[id] = struct{}{}
		if _, ok := record.ParseField(string(d.Field)); !ok {
			return Set{}, fmt.Errorf("column %q: unknown field %q", id, d.Field)
		}
		d.ID = id
		if d.Header == "" {
			d.Header = strings.ToUpper(id[:1]) + id[1:]
		}
		if d.Type == "" {
			d.Type = TypeText
		}
		out = append(out, d)
	}
	return Set{defs: out}, nil
}

// MustSet is NewSet for static definitions.
func MustSet(defs []Def) Set {
	s, err := NewSet(defs)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns every definition in configured order.
func (s Set) All() []Def {
	return append([]Def(nil), s.defs...)
}

// Len returns the number of definitions.
func (s Set) Len() int {
	return len(s.defs)
}

// Lookup finds a definition by id.
func (s Set) Lookup(id string) (Def, bool) {
	for _, d := range s.defs {
		if d.ID == id {
			return d, true
		}
	}
	return Def{}, false
}

// Visible returns visible columns in render order: left pinned, unpinned,
// right pinned, each group keeping configured order.
func (s Set) Visible() []Def {
	out := make([]Def, 0, len(s.defs))
	for _, d := range s.defs {
		if d.Visible {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return pinRank(out[i].Pin) < pinRank(out[j].Pin)
	})
	return out
}

// WithVisibility returns a copy of the set with the column's visibility
// changed. Unknown ids leave the set unchanged.
func (s Set) WithVisibility(id string, visible bool) Set {
	defs := s.All()
	for i := range defs {
		if defs[i].ID == id {
			defs[i].Visible = visible
		}
	}
	return Set{defs: defs}
}

func pinRank(p Pin) int {
	switch p {
	case PinLeft:
		return 0
	case PinRight:
		return 2
	default:
		return 1
	}
}

// Defaults returns the stock column layout.
func Defaults() []Def {
	return []Def{
		{ID: "time", Field: record.FieldTime, Header: "Time", Type: TypeTime, Width: 23, Visible: true, Pin: PinLeft},
		{ID: "level", Field: record.FieldLevel, Header: "Level", Type: TypeLevel, Width: 7, Visible: true},
		{ID: "session", Field: record.FieldSession, Header: "Session", Flex: 1, MinWidth: 8, Visible: true},
		{ID: "app", Field: record.FieldApp, Header: "App", Flex: 1, MinWidth: 8, Visible: true},
		{ID: "host", Field: record.FieldHost, Header: "Host", Flex: 1, MinWidth: 8, Visible: false},
		{ID: "process", Field: record.FieldProcess, Header: "Process", Width: 8, Visible: false},
		{ID: "thread", Field: record.FieldThread, Header: "Thread", Width: 8, Visible: false},
		{ID: "type", Field: record.FieldType, Header: "Type", Width: 10, Visible: true},
		{ID: "title", Field: record.FieldTitle, Header: "Title", Flex: 5, MinWidth: 20, Visible: true},
	}
}
