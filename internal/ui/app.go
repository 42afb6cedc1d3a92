package ui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/trawl/internal/config"
	"github.com/five82/trawl/internal/export"
	"github.com/five82/trawl/internal/filter"
	"github.com/five82/trawl/internal/prefs"
	"github.com/five82/trawl/internal/record"
	"github.com/five82/trawl/internal/scroll"
	"github.com/five82/trawl/internal/state"
	"github.com/five82/trawl/internal/viewer"
)

const defaultExportPath = "trawl-export.csv"

// Options configures the UI.
type Options struct {
	Context    context.Context
	Ring       *record.Ring
	Store      *state.Store
	Config     config.Config
	Prefs      prefs.Prefs
	PrefsPath  string
	ExportPath string
	// InputTTY reads keys from the terminal instead of stdin, which is
	// busy carrying records.
	InputTTY bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx           context.Context
	ring          *record.Ring
	store         *state.Store
	profile       prefs.Prefs
	prefsPath     string
	exportPath    string
	frameInterval time.Duration
	clipboard     *export.Clipboard
	now           func() time.Time

	// UI state
	keys   keyMap
	theme  Theme
	width  int
	height int
	ready  bool

	// Engine
	ctrl      *viewer.Controller
	times     *timeFormatter
	activated *activation

	// Data state
	snapshot state.Snapshot
	rate     float64

	// Notices
	notice    string
	noticeSeq int

	// Detail pane
	detail        viewport.Model
	detailOpen    bool
	detailFocused bool
	detailRec     record.Record

	// Overlays
	showHelp   bool
	showFilter bool
	filter     filterModal

	autoScrolling bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ring := opts.Ring
	if ring == nil {
		ring = record.NewRing(opts.Config.Capacity)
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	exportPath := opts.ExportPath
	if exportPath == "" {
		exportPath = defaultExportPath
	}
	frame := opts.Config.FrameInterval
	if frame <= 0 {
		frame = defaultFrameInterval
	}

	profile := opts.Prefs
	theme := GetTheme(profile.Theme)
	activated := &activation{}
	ctrl := viewer.New(viewer.Options{
		Ring:       ring,
		Columns:    profile.ColumnSet(),
		Rules:      profile.Rules,
		Palette:    theme.Palette(),
		Filter:     profile.Filter,
		Tuning:     opts.Config.Scroll,
		Overscan:   opts.Config.Overscan,
		OnActivate: activated.set,
	})
	ctrl.SetWrap(profile.Wrap)

	return Model{
		ctx:           ctx,
		ring:          ring,
		store:         opts.Store,
		profile:       profile,
		prefsPath:     prefsPath,
		exportPath:    exportPath,
		frameInterval: frame,
		clipboard:     export.NewClipboard(),
		now:           time.Now,
		keys:          DefaultKeyMap(),
		theme:         theme,
		ctrl:          ctrl,
		times:         newTimeFormatter(timeCacheSize),
		activated:     activated,
		detail:        viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		syncCmd(syncInterval),
		rateCmd(rateInterval),
		waitForDone(m.ctx),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.overlayOpen() {
			return m, nil
		}
		return m, m.resize()

	case syncMsg:
		cmds := []tea.Cmd{syncCmd(syncInterval)}
		if m.store != nil {
			m.snapshot = m.store.Snapshot()
		}
		if gen, scheduled := m.ctrl.Sync(m.now()); scheduled {
			cmds = append(cmds, frameCmd(m.frameInterval, gen))
		}
		return m, tea.Batch(cmds...)

	case rateMsg:
		m.rate = m.ctrl.SampleRate(m.now())
		return m, rateCmd(rateInterval)

	case frameMsg:
		if m.ctrl.Tick(m.now(), msg.gen) {
			return m, frameCmd(m.frameInterval, msg.gen)
		}
		return m, nil

	case autoScrollMsg:
		if m.autoScrolling && m.ctrl.AutoScrollStep(m.now()) {
			return m, autoScrollCmd()
		}
		m.autoScrolling = false
		return m, nil

	case noticeExpiredMsg:
		if int(msg) == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showFilter {
		return m.filter.view(m.theme, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderTableHeader())
	b.WriteString("\n")
	if body := m.renderTableBody(m.now()); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	if m.detailOpen {
		b.WriteString(m.renderDetail())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// resize hands the table body size to the controller. A catch-up started
// by mounting is returned as a frame command.
func (m *Model) resize() tea.Cmd {
	m.layoutDetail()
	gen, scheduled := m.ctrl.Resize(m.width, m.bodyHeight(), m.now())
	if scheduled {
		return frameCmd(m.frameInterval, gen)
	}
	return nil
}

func (m Model) overlayOpen() bool {
	return m.showHelp || m.showFilter
}

// openOverlay hides the table; its viewport is unmounted until the overlay
// closes.
func (m *Model) openOverlay() {
	m.ctrl.Unmount()
}

func (m *Model) closeOverlay() tea.Cmd {
	m.showHelp = false
	m.showFilter = false
	return m.resize()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		return m, m.closeOverlay()
	}

	if m.showFilter {
		fm, cmd, done, apply := m.filter.update(msg, m.keys)
		m.filter = fm
		if !done {
			return m, cmd
		}
		if apply {
			m.ctrl.SetFilter(fm.Set())
			m.saveProfile()
		}
		return m, m.closeOverlay()
	}

	now := m.now()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.openOverlay()
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.ctrl.Highlight().SetPalette(m.theme.Palette())
		m.layoutDetail()
		m.saveProfile()
		return m, nil

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		if m.detailOpen {
			m.detailFocused = !m.detailFocused
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.detailOpen {
			m.closeDetail()
			return m, m.resize()
		}
		m.ctrl.ClearSelection()
		return m, nil
	}

	if m.detailFocused {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.ctrl.Activate()
		return m, m.takeActivation()

	case key.Matches(msg, m.keys.Up):
		m.ctrl.MoveSelection(-1, 0, false, now)
	case key.Matches(msg, m.keys.Down):
		m.ctrl.MoveSelection(1, 0, false, now)
	case key.Matches(msg, m.keys.Left):
		m.ctrl.MoveSelection(0, -1, false, now)
	case key.Matches(msg, m.keys.Right):
		m.ctrl.MoveSelection(0, 1, false, now)
	case key.Matches(msg, m.keys.ExtendUp):
		m.ctrl.MoveSelection(-1, 0, true, now)
	case key.Matches(msg, m.keys.ExtendDown):
		m.ctrl.MoveSelection(1, 0, true, now)
	case key.Matches(msg, m.keys.ExtendLeft):
		m.ctrl.MoveSelection(0, -1, true, now)
	case key.Matches(msg, m.keys.ExtendRight):
		m.ctrl.MoveSelection(0, 1, true, now)
	case key.Matches(msg, m.keys.Top):
		m.ctrl.Navigate(scroll.KeyHome, false, now)
	case key.Matches(msg, m.keys.Bottom):
		m.ctrl.Navigate(scroll.KeyEnd, false, now)
	case key.Matches(msg, m.keys.PageUp):
		m.ctrl.Navigate(scroll.KeyPageUp, false, now)
	case key.Matches(msg, m.keys.PageDown):
		m.ctrl.Navigate(scroll.KeyPageDown, false, now)

	case key.Matches(msg, m.keys.SelectAll):
		m.ctrl.SelectAll()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelection()
	case key.Matches(msg, m.keys.Export):
		return m, m.exportSelection()

	case key.Matches(msg, m.keys.Filter):
		m.filter = newFilterModal(m.ctrl.Filter())
		m.showFilter = true
		m.openOverlay()
		return m, nil
	case key.Matches(msg, m.keys.ClearFilter):
		if m.ctrl.Filter().Active() {
			m.ctrl.SetFilter(filter.Set{})
			m.saveProfile()
			return m, m.setNotice("filters cleared")
		}
	case key.Matches(msg, m.keys.ToggleWrap):
		m.ctrl.SetWrap(!m.ctrl.Wrap())
		m.saveProfile()
	case key.Matches(msg, m.keys.ToggleColumn):
		return m, m.toggleColumn(msg.String())
	}
	return m, nil
}

// toggleColumn flips the n-th column of the full set, 1-based.
func (m *Model) toggleColumn(digit string) tea.Cmd {
	n, err := strconv.Atoi(digit)
	all := m.ctrl.Columns().All()
	if err != nil || n < 1 || n > len(all) {
		return nil
	}
	d := all[n-1]
	if d.Visible && len(m.ctrl.Visible()) == 1 {
		return m.setNotice("cannot hide the last column")
	}
	m.ctrl.ToggleColumn(d.ID)
	m.saveProfile()
	verb := "shown"
	if d.Visible {
		verb = "hidden"
	}
	return m.setNotice(fmt.Sprintf("%s %s", d.Header, verb))
}

// handleMouse routes mouse input. Table body coordinates are passed as
// cell centers.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.overlayOpen() {
		return m, nil
	}
	now := m.now()
	body := m.bodyHeight()
	y := msg.Y - headerRows
	inDetail := m.detailOpen && y >= body && y < body+m.detailHeight()
	x := float64(msg.X) + 0.5
	by := float64(y) + 0.5

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if inDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		lines := float64(wheelLines)
		if msg.Button == tea.MouseButtonWheelUp {
			lines = -lines
		}
		m.ctrl.Wheel(lines, now)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if inDetail {
			m.detailFocused = true
			return m, nil
		}
		if y < 0 || y >= body {
			return m, nil
		}
		m.detailFocused = false
		m.ctrl.PointerDown(x, by, msg.Ctrl || msg.Alt, now)
		return m, nil

	case tea.MouseActionMotion:
		m.ctrl.PointerMove(x, by, now)
		if m.ctrl.AutoScrolling() && !m.autoScrolling {
			m.autoScrolling = true
			return m, autoScrollCmd()
		}
		return m, nil

	case tea.MouseActionRelease:
		m.autoScrolling = false
		m.ctrl.PointerUp(now)
		return m, m.takeActivation()
	}
	return m, nil
}

// takeActivation opens the detail pane for a record the controller just
// activated.
func (m *Model) takeActivation() tea.Cmd {
	rec, ok := m.activated.take()
	if !ok {
		return nil
	}
	wasOpen := m.detailOpen
	m.openDetail(rec)
	if wasOpen {
		return nil
	}
	return m.resize()
}

// copySelection copies the selection as TSV.
func (m *Model) copySelection() tea.Cmd {
	sel := m.ctrl.SelectionExport()
	if sel.Empty() {
		return m.setNotice("nothing selected")
	}
	method, err := m.clipboard.Copy(export.TSV(sel))
	if err != nil {
		log.Printf("ui: copy: %v", err)
		return m.setNotice("copy failed: " + err.Error())
	}
	return m.setNotice(fmt.Sprintf("copied %d rows (%s)", len(sel.Records), method))
}

// exportSelection writes the selection as CSV to the export path.
func (m *Model) exportSelection() tea.Cmd {
	sel := m.ctrl.SelectionExport()
	if sel.Empty() {
		return m.setNotice("nothing selected")
	}
	if err := export.WriteCSV(m.exportPath, sel); err != nil {
		log.Printf("ui: export: %v", err)
		return m.setNotice("export failed: " + err.Error())
	}
	return m.setNotice(fmt.Sprintf("wrote %d rows to %s", len(sel.Records), m.exportPath))
}

// saveProfile persists theme, wrap, columns and filters. Selection is never
// saved.
func (m *Model) saveProfile() {
	m.profile.Theme = m.theme.Name
	m.profile.Wrap = m.ctrl.Wrap()
	m.profile.Columns = m.ctrl.Columns().All()
	m.profile.Filter = m.ctrl.Filter()
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.profile); err != nil {
		log.Printf("ui: save profile: %v", err)
	}
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg(seq)
	})
}

func (m Model) ringStats() (total, dropped uint64) {
	return m.ring.Stats()
}

func (m Model) ringLen() int {
	return m.ring.Len()
}

// Messages

type syncMsg time.Time

type rateMsg time.Time

type frameMsg struct{ gen uint64 }

type autoScrollMsg struct{}

type noticeExpiredMsg int

// Commands

func syncCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return syncMsg(t)
	})
}

func rateCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return rateMsg(t)
	})
}

func frameCmd(d time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func autoScrollCmd() tea.Cmd {
	return tea.Tick(autoScrollInterval, func(time.Time) tea.Msg {
		return autoScrollMsg{}
	})
}

func waitForDone(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return tea.QuitMsg{}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if opts.InputTTY {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	return err
}
