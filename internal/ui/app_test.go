package ui

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/trawl/internal/config"
	"github.com/five82/trawl/internal/export"
	"github.com/five82/trawl/internal/prefs"
	"github.com/five82/trawl/internal/record"
	"github.com/five82/trawl/internal/state"
)

type testEnv struct {
	ring       *record.Ring
	prefsPath  string
	exportPath string
	copied     []string
}

// newTestModel builds a 120x24 model over n records. Ten records fit the
// 21-line body, so nothing scrolls.
func newTestModel(t *testing.T, n int) (Model, *testEnv) {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		ring:       record.NewRing(1000),
		prefsPath:  filepath.Join(dir, "profile.toml"),
		exportPath: filepath.Join(dir, "export.csv"),
	}
	for i := 0; i < n; i++ {
		env.ring.Append(record.Record{Level: "INFO", App: "api", Title: fmt.Sprintf("r%d", i)})
	}

	store := &state.Store{}
	store.SetSource("demo")
	m := New(Options{
		Ring:       env.ring,
		Store:      store,
		Config:     config.Default(),
		Prefs:      prefs.Default(),
		PrefsPath:  env.prefsPath,
		ExportPath: env.exportPath,
	})
	m.clipboard = &export.Clipboard{
		System: func(text string) error {
			env.copied = append(env.copied, text)
			return nil
		},
		Terminal: io.Discard,
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 24})
	m = update(t, m, syncMsg(time.Now()))
	return m, env
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
}

func TestModel_LayoutAndView(t *testing.T) {
	m, _ := newTestModel(t, 10)

	if got := m.ctrl.ViewportHeight(); got != 21 {
		t.Fatalf("ViewportHeight() = %v, want 21", got)
	}
	if got := m.ctrl.Len(); got != 10 {
		t.Fatalf("Len() = %d, want 10", got)
	}

	view := m.View()
	for _, want := range []string{"Time", "Title", "r0", "r9", "FOLLOW", "10/10", "demo"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
	if lines := strings.Count(view, "\n") + 1; lines != 24 {
		t.Fatalf("View() has %d lines, want 24", lines)
	}
}

func TestModel_RowsFillTableWidth(t *testing.T) {
	m, env := newTestModel(t, 2)
	env.ring.Append(record.Record{Kind: record.KindSeparator, Title: "restart"})
	m = update(t, m, syncMsg(time.Now()))

	for i := 0; i < m.ctrl.Len(); i++ {
		lines := m.renderRow(i, 1, 119)
		if len(lines) != 1 {
			t.Fatalf("renderRow(%d) returned %d lines", i, len(lines))
		}
		if w := lipgloss.Width(lines[0]); w != 119 {
			t.Fatalf("renderRow(%d) width = %d, want 119", i, w)
		}
	}
	if !strings.Contains(m.View(), "── restart ──") {
		t.Fatalf("separator row not rendered as a rule")
	}
}

func TestModel_EnterOpensDetailAndEscCloses(t *testing.T) {
	m, _ := newTestModel(t, 10)

	m = press(t, m, "j")
	focus, ok := m.ctrl.Selection().Focus()
	if !ok || focus.Row != 9 {
		t.Fatalf("focus = %+v, %v, want row 9", focus, ok)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.detailOpen || m.detailRec.Title != "r9" {
		t.Fatalf("detail open=%v rec=%q, want r9", m.detailOpen, m.detailRec.Title)
	}
	if got := m.ctrl.ViewportHeight(); got != 13 {
		t.Fatalf("ViewportHeight() with detail = %v, want 13", got)
	}
	if !strings.Contains(m.View(), "title") {
		t.Fatalf("detail pane does not list fields")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.detailOpen {
		t.Fatalf("detail still open after esc")
	}
	if got := m.ctrl.ViewportHeight(); got != 21 {
		t.Fatalf("ViewportHeight() after close = %v, want 21", got)
	}
}

func TestModel_ClickActivatesRow(t *testing.T) {
	m, _ := newTestModel(t, 10)

	// Screen row 3 is body row 2.
	m = update(t, m, tea.MouseMsg{X: 5, Y: 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = update(t, m, tea.MouseMsg{X: 5, Y: 3, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease})

	if !m.detailOpen || m.detailRec.Title != "r2" {
		t.Fatalf("detail open=%v rec=%q, want r2", m.detailOpen, m.detailRec.Title)
	}
	if !m.ctrl.Selection().RowSelected(2) {
		t.Fatalf("row 2 not selected")
	}
}

func TestModel_FilterModalAppliesAndPersists(t *testing.T) {
	m, env := newTestModel(t, 10)

	m = press(t, m, "f")
	if !m.showFilter {
		t.Fatalf("filter modal not open")
	}
	if m.ctrl.Mounted() {
		t.Fatalf("viewport still mounted under the filter modal")
	}

	m.filter.inputs[4].SetValue("=r3")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.showFilter {
		t.Fatalf("filter modal still open")
	}
	if got := m.ctrl.Len(); got != 1 {
		t.Fatalf("Len() after filter = %d, want 1", got)
	}
	if !m.ctrl.Mounted() {
		t.Fatalf("viewport not remounted")
	}

	p, _ := prefs.Load(env.prefsPath)
	if !p.Filter.Active() {
		t.Fatalf("saved filter inactive, want the title filter")
	}

	m = press(t, m, "F")
	if got := m.ctrl.Len(); got != 10 {
		t.Fatalf("Len() after clear = %d, want 10", got)
	}
}

func TestModel_TogglesPersist(t *testing.T) {
	m, env := newTestModel(t, 3)

	m = press(t, m, "w")
	m = press(t, m, "T")
	m = press(t, m, "5")

	if !m.ctrl.Wrap() {
		t.Fatalf("wrap not enabled")
	}
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	hostVisible := false
	for _, d := range m.ctrl.Visible() {
		if d.ID == "host" {
			hostVisible = true
		}
	}
	if !hostVisible {
		t.Fatalf("host column not shown after toggle")
	}

	p, _ := prefs.Load(env.prefsPath)
	if !p.Wrap || p.Theme != "Slate" {
		t.Fatalf("saved prefs = wrap %v theme %q, want wrap true theme Slate", p.Wrap, p.Theme)
	}
	for _, d := range p.Columns {
		if d.ID == "host" && !d.Visible {
			t.Fatalf("saved host column hidden")
		}
	}
}

func TestModel_CopyAndExportSelection(t *testing.T) {
	m, env := newTestModel(t, 5)

	m = press(t, m, "y")
	if len(env.copied) != 0 {
		t.Fatalf("copied with nothing selected")
	}
	if m.notice != "nothing selected" {
		t.Fatalf("notice = %q", m.notice)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	m = press(t, m, "y")
	if len(env.copied) != 1 || !strings.Contains(env.copied[0], "r4") {
		t.Fatalf("copied = %q, want all rows", env.copied)
	}
	if !strings.HasPrefix(env.copied[0], "Time\tLevel") {
		t.Fatalf("copied text has no header: %q", env.copied[0])
	}

	press(t, m, "Y")
	data, err := os.ReadFile(env.exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "r0") || !strings.HasPrefix(string(data), "Time,Level") {
		t.Fatalf("export = %q", data)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, 3)

	m = press(t, m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not rendered")
	}
	m = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("help still open")
	}
	if !m.ctrl.Mounted() {
		t.Fatalf("viewport not remounted after help")
	}
}

func TestModel_NoticeExpires(t *testing.T) {
	m, _ := newTestModel(t, 1)
	m = press(t, m, "y")
	seq := m.noticeSeq
	m = update(t, m, noticeExpiredMsg(seq-1))
	if m.notice == "" {
		t.Fatalf("stale expiry cleared the notice")
	}
	m = update(t, m, noticeExpiredMsg(seq))
	if m.notice != "" {
		t.Fatalf("notice = %q, want cleared", m.notice)
	}
}

func TestDetailContentDecodesPayload(t *testing.T) {
	m, _ := newTestModel(t, 0)
	m.detail.Width = 40

	got := m.detailContent(record.Record{
		ID:      7,
		Title:   "boom",
		Payload: base64.StdEncoding.EncodeToString([]byte("stack trace here")),
	})
	for _, want := range []string{"7", "boom", "payload", "stack trace here"} {
		if !strings.Contains(got, want) {
			t.Fatalf("detailContent missing %q:\n%s", want, got)
		}
	}

	got = m.detailContent(record.Record{Title: "bad", Payload: "%%%"})
	if !strings.Contains(got, record.PayloadPlaceholder) {
		t.Fatalf("detailContent = %q, want placeholder for undecodable payload", got)
	}
}
