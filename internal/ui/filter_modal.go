package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/trawl/internal/filter"
	"github.com/five82/trawl/internal/record"
)

// filterField is one editable row of the filter modal.
type filterField struct {
	label       string
	field       record.Field // empty for the expression row
	list        bool
	placeholder string
}

var filterFields = []filterField{
	{label: "Level:   ", field: record.FieldLevel, list: true, placeholder: "e.g. ERROR,WARN  (!ERROR excludes)"},
	{label: "Session: ", field: record.FieldSession, placeholder: "contains; =exact ^prefix $suffix re:regex"},
	{label: "App:     ", field: record.FieldApp, placeholder: "e.g. api  or  !probe"},
	{label: "Host:    ", field: record.FieldHost, placeholder: "e.g. ^web-"},
	{label: "Title:   ", field: record.FieldTitle, placeholder: "e.g. re:timeout|refused"},
	{label: "Expr:    ", placeholder: `e.g. level == "ERROR" && app != "probe"`},
}

// filterModal edits a filter.Set.
type filterModal struct {
	inputs   []textinput.Model
	focusIdx int
	err      string
}

func newFilterModal(set filter.Set) filterModal {
	fm := filterModal{inputs: make([]textinput.Model, len(filterFields))}
	for i, f := range filterFields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.CharLimit = 200
		in.Width = 44
		switch {
		case f.field == "":
			in.SetValue(set.Expr)
		default:
			if spec, ok := set.Get(f.field); ok {
				in.SetValue(formatSpecInput(spec))
			}
		}
		fm.inputs[i] = in
	}
	fm.inputs[0].Focus()
	return fm
}

// Set builds the filter set described by the inputs.
func (fm filterModal) Set() filter.Set {
	var set filter.Set
	for i, f := range filterFields {
		text := strings.TrimSpace(fm.inputs[i].Value())
		if f.field == "" {
			set.Expr = text
			continue
		}
		set = set.With(f.field, parseSpecInput(text, f.list))
	}
	return set
}

// update handles a key while the modal is open. done reports that the
// modal closed; apply that the result should be applied.
func (fm filterModal) update(msg tea.KeyMsg, keys keyMap) (out filterModal, cmd tea.Cmd, done, apply bool) {
	switch {
	case key.Matches(msg, keys.Escape):
		return fm, nil, true, false

	case key.Matches(msg, keys.Confirm):
		if err := fm.Set().Validate(); err != nil {
			fm.err = err.Error()
			return fm, nil, false, false
		}
		return fm, nil, true, true

	case msg.String() == "tab", msg.String() == "down":
		fm.focus((fm.focusIdx + 1) % len(fm.inputs))
		return fm, nil, false, false

	case msg.String() == "shift+tab", msg.String() == "up":
		fm.focus((fm.focusIdx - 1 + len(fm.inputs)) % len(fm.inputs))
		return fm, nil, false, false

	case msg.String() == "ctrl+x":
		for i := range fm.inputs {
			fm.inputs[i].SetValue("")
		}
		fm.err = ""
		return fm, nil, false, false
	}

	fm.err = ""
	fm.inputs[fm.focusIdx], cmd = fm.inputs[fm.focusIdx].Update(msg)
	return fm, cmd, false, false
}

func (fm *filterModal) focus(i int) {
	fm.inputs[fm.focusIdx].Blur()
	fm.focusIdx = i
	fm.inputs[fm.focusIdx].Focus()
}

// view renders the modal centered in width x height.
func (fm filterModal) view(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Filters"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 56)))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("All non-empty fields must match. Prefix ! to invert."))
	b.WriteString("\n\n")

	for i, f := range filterFields {
		label := styles.MutedText.Render(f.label)
		if i == fm.focusIdx {
			label = styles.AccentText.Render(f.label)
		}
		b.WriteString(label)
		b.WriteString(fm.inputs[i].View())
		b.WriteString("\n\n")
	}

	if fm.err != "" {
		b.WriteString(styles.DangerText.Render(truncate(fm.err, 56)))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel  •  Ctrl+X: Clear"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(64)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// parseSpecInput turns modal text into a Spec. A leading "!" inverts. List
// fields take comma separated values; pattern fields accept "=" (equals),
// "^" (starts with), "$" (ends with) and "re:" (regex) prefixes and default
// to contains.
func parseSpecInput(text string, list bool) filter.Spec {
	text = strings.TrimSpace(text)
	inverse := false
	if strings.HasPrefix(text, "!") {
		inverse = true
		text = strings.TrimSpace(text[1:])
	}
	if text == "" {
		return filter.Spec{}
	}

	var spec filter.Spec
	if list {
		var values []string
		for _, v := range strings.Split(text, ",") {
			if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
				values = append(values, v)
			}
		}
		spec = filter.List(values...)
	} else {
		switch {
		case strings.HasPrefix(text, "re:"):
			spec = filter.Pattern(filter.OpRegex, text[len("re:"):])
		case strings.HasPrefix(text, "="):
			spec = filter.Pattern(filter.OpEquals, text[1:])
		case strings.HasPrefix(text, "^"):
			spec = filter.Pattern(filter.OpStartsWith, text[1:])
		case strings.HasPrefix(text, "$"):
			spec = filter.Pattern(filter.OpEndsWith, text[1:])
		default:
			spec = filter.Pattern(filter.OpContains, text)
		}
	}
	spec.Inverse = inverse
	return spec
}

// formatSpecInput is the inverse of parseSpecInput.
func formatSpecInput(spec filter.Spec) string {
	if !spec.Active() {
		return ""
	}
	var text string
	switch {
	case spec.Mode == filter.ModeList:
		text = strings.Join(spec.Values, ",")
	case spec.Operator == filter.OpRegex:
		text = "re:" + spec.Pattern
	case spec.Operator == filter.OpEquals:
		text = "=" + spec.Pattern
	case spec.Operator == filter.OpStartsWith:
		text = "^" + spec.Pattern
	case spec.Operator == filter.OpEndsWith:
		text = "$" + spec.Pattern
	default:
		text = spec.Pattern
	}
	if spec.Inverse {
		text = "!" + text
	}
	return text
}
