package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/JPM1118/cmredux/internal/engine"
	"github.com/JPM1118/cmredux/internal/library"
	"github.com/JPM1118/cmredux/internal/notify"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
)

const (
	colCategory = 30
	colSize     = 10
	minWidth    = 60
	minHeight   = 12
	headerLines = 4 // header + subheader + column header + separator
	footerLines = 2 // notification bar + status bar
)

type pane int

const (
	paneCategories pane = iota
	paneCursors
)

// Applier materializes a source image as the active cursor.
// *engine.Engine implements this interface.
type Applier interface {
	Apply(ctx context.Context, source string) (engine.Result, error)
}

// Messages

type categoriesLoadedMsg struct {
	categories []library.Category
	err        error
}

type cursorsLoadedMsg struct {
	category string
	cursors  []library.Cursor
	err      error
}

type appliedMsg struct {
	cursor library.Cursor
	result engine.Result
	err    error
}

type libraryChangedMsg struct {
	change library.Change
}

// Browser lists library categories on the left and the cursors of the
// selected category on the right. Enter applies the selected cursor.
type Browser struct {
	src        library.Source
	categories []library.Category
	cursors    []library.Cursor
	catIdx     int
	curIdx     int
	focus      pane
	width      int
	height     int
	loading    bool
	busy       bool
	applying   string
	lastErr    string // transient error shown in notification bar
	themeName  string

	applier Applier
	updates <-chan library.Change
	bell    *notify.Bell
	notices *notify.Notices
	now     func() time.Time
}

// BrowserOption configures optional Browser dependencies.
type BrowserOption func(*Browser)

// WithApplier sets the pipeline run on Enter.
func WithApplier(a Applier) BrowserOption {
	return func(b *Browser) { b.applier = a }
}

// WithUpdates sets the channel whose changes trigger a library refresh.
func WithUpdates(ch <-chan library.Change) BrowserOption {
	return func(b *Browser) { b.updates = ch }
}

// WithBell sets the terminal bell.
func WithBell(bell *notify.Bell) BrowserOption {
	return func(b *Browser) { b.bell = bell }
}

// WithNotices sets the notice queue.
func WithNotices(n *notify.Notices) BrowserOption {
	return func(b *Browser) { b.notices = n }
}

// WithThemeName sets the theme name shown in the header.
func WithThemeName(name string) BrowserOption {
	return func(b *Browser) { b.themeName = name }
}

// NewBrowser creates a browser over src.
func NewBrowser(src library.Source, opts ...BrowserOption) Browser {
	b := Browser{
		src:     src,
		loading: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Busy reports whether a cursor is being applied.
func (b Browser) Busy() bool {
	return b.busy
}

// Init loads the categories and starts listening for library changes.
func (b Browser) Init() tea.Cmd {
	cmds := []tea.Cmd{b.loadCategories()}
	if b.updates != nil {
		cmds = append(cmds, b.waitForChange())
	}
	return tea.Batch(cmds...)
}

func (b Browser) loadCategories() tea.Cmd {
	src := b.src
	return func() tea.Msg {
		cats, err := src.Categories()
		return categoriesLoadedMsg{categories: cats, err: err}
	}
}

func (b Browser) loadCursors() tea.Cmd {
	if len(b.categories) == 0 {
		return nil
	}
	src := b.src
	cat := b.categories[b.catIdx]
	return func() tea.Msg {
		cursors, err := src.Cursors(cat)
		return cursorsLoadedMsg{category: cat.Path, cursors: cursors, err: err}
	}
}

func (b Browser) waitForChange() tea.Cmd {
	ch := b.updates
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return nil
		}
		return libraryChangedMsg{change: change}
	}
}

func (b Browser) apply(c library.Cursor) tea.Cmd {
	applier := b.applier
	return func() tea.Msg {
		res, err := applier.Apply(context.Background(), c.Path)
		return appliedMsg{cursor: c, result: res, err: err}
	}
}

// Update handles messages.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return b.handleKey(msg)

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case categoriesLoadedMsg:
		b.loading = false
		if msg.err != nil {
			if b.categories == nil {
				b.lastErr = msg.err.Error()
			} else {
				b.lastErr = fmt.Sprintf("Refresh failed: %s", msg.err.Error())
			}
			return b, nil
		}
		selected := b.selectedCategoryPath()
		b.categories = msg.categories
		b.lastErr = ""
		b.catIdx = indexOfCategory(b.categories, selected)
		if len(b.categories) == 0 {
			b.cursors = nil
			b.curIdx = 0
			return b, nil
		}
		return b, b.loadCursors()

	case cursorsLoadedMsg:
		// Drop results for a category that is no longer selected.
		if msg.category != b.selectedCategoryPath() {
			return b, nil
		}
		if msg.err != nil {
			b.lastErr = msg.err.Error()
			b.cursors = nil
		} else {
			b.cursors = msg.cursors
		}
		if b.curIdx >= len(b.cursors) {
			b.curIdx = max(0, len(b.cursors)-1)
		}
		return b, nil

	case appliedMsg:
		b.busy = false
		b.applying = ""
		if b.bell != nil {
			b.bell.Resume()
		}
		b.handleApplied(msg)
		return b, nil

	case libraryChangedMsg:
		return b, tea.Batch(b.loadCategories(), b.waitForChange())
	}

	return b, nil
}

func (b *Browser) handleApplied(msg appliedMsg) {
	now := b.now()
	if msg.err != nil {
		if errors.Is(msg.err, engine.ErrBusy) {
			return
		}
		b.notify(notify.FromError(msg.err, now))
		return
	}
	b.notify(notify.Notice{
		Level:     notify.LevelInfo,
		Text:      fmt.Sprintf("Applied %s (%s)", msg.cursor.Name, english.Plural(len(msg.result.Frames), "frame", "")),
		Timestamp: now,
	})
	if msg.result.Reload != nil {
		b.notify(notify.FromError(msg.result.Reload, now))
	}
}

func (b *Browser) notify(n notify.Notice) {
	if b.notices != nil {
		b.notices.Push(n)
	} else if n.Level > notify.LevelInfo {
		b.lastErr = n.Text
	}
	if b.bell != nil {
		b.bell.Ring(n, n.Timestamp)
	}
}

func (b Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return b, tea.Quit

	case "tab":
		if b.focus == paneCategories {
			b.focus = paneCursors
		} else {
			b.focus = paneCategories
		}
		return b, nil

	case "l", "right":
		b.focus = paneCursors
		return b, nil

	case "h", "left":
		b.focus = paneCategories
		return b, nil

	case "j", "down":
		return b.move(1)

	case "k", "up":
		return b.move(-1)

	case "G":
		return b.move(len(b.categories) + len(b.cursors))

	case "g":
		return b.move(-(len(b.categories) + len(b.cursors)))

	case "enter":
		if b.focus == paneCategories {
			b.focus = paneCursors
			return b, nil
		}
		if b.busy || b.applier == nil || len(b.cursors) == 0 {
			return b, nil
		}
		c := b.cursors[b.curIdx]
		b.busy = true
		b.applying = c.Name
		if b.bell != nil {
			b.bell.Suspend()
		}
		return b, b.apply(c)

	case "r":
		b.loading = true
		return b, b.loadCategories()

	case "c":
		if b.notices != nil {
			b.notices.Clear()
		}
		b.lastErr = ""
		return b, nil
	}

	return b, nil
}

// move shifts the selection of the focused pane by delta, clamped.
func (b Browser) move(delta int) (tea.Model, tea.Cmd) {
	if b.focus == paneCursors {
		b.curIdx = clamp(b.curIdx+delta, len(b.cursors))
		return b, nil
	}
	prev := b.catIdx
	b.catIdx = clamp(b.catIdx+delta, len(b.categories))
	if b.catIdx == prev {
		return b, nil
	}
	b.cursors = nil
	b.curIdx = 0
	return b, b.loadCursors()
}

func (b Browser) selectedCategoryPath() string {
	if b.catIdx < len(b.categories) {
		return b.categories[b.catIdx].Path
	}
	return ""
}

// View renders the browser.
func (b Browser) View() string {
	if b.width < minWidth || b.height < minHeight {
		return fmt.Sprintf("\n  Terminal too small (need %dx%d, got %dx%d)\n", minWidth, minHeight, b.width, b.height)
	}

	var s strings.Builder

	s.WriteString(b.renderHeader())
	s.WriteString("\n")

	s.WriteString(b.renderSubheader())
	s.WriteString("\n")

	s.WriteString(b.renderColumnHeaders())
	s.WriteString("\n")

	s.WriteString(b.renderSeparator())
	s.WriteString("\n")

	listHeight := b.height - headerLines - footerLines
	s.WriteString(b.renderLists(listHeight))

	s.WriteString(b.renderNotificationBar())
	s.WriteString("\n")

	s.WriteString(b.renderStatusBar())

	return s.String()
}

func (b Browser) renderHeader() string {
	title := headerStyle.Render("CMRedux")

	right := ""
	if b.busy {
		right = busyStyle.Render(fmt.Sprintf("[applying %s]", b.applying))
	} else if b.themeName != "" {
		right = subheaderStyle.Render("theme: " + b.themeName)
	}

	gap := b.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + right
}

func (b Browser) renderSubheader() string {
	status := fmt.Sprintf("%d categories", len(b.categories))
	if b.lastErr != "" {
		status = "Error"
	}
	if b.loading {
		status = "Loading..."
	}
	return subheaderStyle.Render(status)
}

func (b Browser) renderColumnHeaders() string {
	header := padRight("CATEGORY", colCategory) + padRight("CURSOR", b.nameWidth()) + "SIZE"
	return columnHeaderStyle.Render(header)
}

func (b Browser) renderSeparator() string {
	sep := padRight(strings.Repeat("─", colCategory-1), colCategory) +
		padRight(strings.Repeat("─", b.nameWidth()-1), b.nameWidth()) +
		strings.Repeat("─", colSize-1)
	return subheaderStyle.Render(sep)
}

func (b Browser) nameWidth() int {
	return max(12, b.width-colCategory-colSize)
}

func (b Browser) renderLists(height int) string {
	if b.loading && len(b.categories) == 0 {
		return padLines("  Loading library...\n", height)
	}
	if len(b.categories) == 0 {
		return padLines("  No cursor categories found.\n\n  Add directories of .gif/.png images to the library.\n", height)
	}

	left := b.categoryLines(height)
	right := b.cursorLines(height)

	var s strings.Builder
	for i := 0; i < height; i++ {
		s.WriteString(left[i])
		s.WriteString(right[i])
		s.WriteString("\n")
	}
	return s.String()
}

func (b Browser) categoryLines(height int) []string {
	lines := make([]string, height)
	start, end := window(b.catIdx, len(b.categories), height)
	for i := start; i < end; i++ {
		c := b.categories[i]
		label := strings.Repeat("  ", c.Depth) + c.Label
		text := padRight(truncate(label, colCategory-3), colCategory-2)
		lines[i-start] = b.row(i == b.catIdx, b.focus == paneCategories, text)
	}
	for i := end - start; i < height; i++ {
		lines[i] = strings.Repeat(" ", colCategory)
	}
	return lines
}

func (b Browser) cursorLines(height int) []string {
	lines := make([]string, height)
	if len(b.cursors) == 0 {
		lines[0] = mutedStyle.Render("  (no cursors)")
		return lines
	}
	start, end := window(b.curIdx, len(b.cursors), height)
	for i := start; i < end; i++ {
		c := b.cursors[i]
		name := strings.TrimSuffix(c.Name, filepath.Ext(c.Name))
		text := padRight(truncate(name, b.nameWidth()-3), b.nameWidth()-2)
		lines[i-start] = b.row(i == b.curIdx, b.focus == paneCursors, text) + mutedStyle.Render(c.FormatSize())
	}
	return lines
}

func (b Browser) row(selected, focused bool, text string) string {
	if !selected {
		return "  " + text
	}
	if focused {
		return cursorStyle.Render("▸ ") + selectedStyle.Render(text)
	}
	return mutedStyle.Render("▹ ") + text
}

func (b Browser) renderNotificationBar() string {
	width := b.width - 4
	if b.notices != nil && b.notices.Len() > 0 {
		text := b.notices.Render(width, b.now())
		if latest, ok := b.notices.Latest(); ok {
			return "  " + noticeStyle(latest.Level).Render(text)
		}
	}
	if b.lastErr != "" {
		return notificationBarStyle.Render("  " + truncate(b.lastErr, width))
	}
	return notificationBarStyle.Render("")
}

func (b Browser) renderStatusBar() string {
	return statusBarStyle.Render("  j/k:navigate  tab:switch pane  Enter:apply  r:refresh  c:clear  q:quit")
}

// Helpers

func indexOfCategory(cats []library.Category, path string) int {
	for i, c := range cats {
		if c.Path == path {
			return i
		}
	}
	return 0
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// window returns the visible [start, end) range that keeps sel on screen.
func window(sel, n, height int) (int, int) {
	start := 0
	if sel >= height {
		start = sel - height + 1
	}
	end := start + height
	if end > n {
		end = n
	}
	return start, end
}

func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:max(0, maxLen)])
	}
	return string(r[:maxLen-1]) + "…"
}

func padLines(content string, height int) string {
	lines := strings.Count(content, "\n")
	padding := height - lines
	if padding > 0 {
		content += strings.Repeat("\n", padding)
	}
	return content
}
