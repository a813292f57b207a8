package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JPM1118/cmredux/internal/engine"
	"github.com/JPM1118/cmredux/internal/frames"
	"github.com/JPM1118/cmredux/internal/library"
	"github.com/JPM1118/cmredux/internal/notify"
	"github.com/JPM1118/cmredux/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeApplier records Apply calls and returns a canned outcome.
type fakeApplier struct {
	mu      sync.Mutex
	sources []string
	result  engine.Result
	err     error
}

func (f *fakeApplier) Apply(_ context.Context, source string) (engine.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	return f.result, f.err
}

func testSource() *testutil.MockSource {
	return &testutil.MockSource{
		CategoryList: []library.Category{
			{Label: "Arrows", Path: "/lib/arrows"},
			{Label: "Animated", Path: "/lib/arrows/animated", Depth: 1},
			{Label: "Hands", Path: "/lib/hands"},
		},
		CursorsByPath: map[string][]library.Cursor{
			"/lib/arrows": {
				{Name: "blue.png", Path: "/lib/arrows/blue.png", Size: 2048},
				{Name: "red.png", Path: "/lib/arrows/red.png", Size: 4096},
			},
			"/lib/arrows/animated": {
				{Name: "spin.gif", Path: "/lib/arrows/animated/spin.gif", Size: 10240},
			},
			"/lib/hands": {},
		},
	}
}

// runCmd executes cmd and feeds every resulting message back into b,
// following batches one level deep.
func runCmd(b Browser, cmd tea.Cmd) Browser {
	if cmd == nil {
		return b
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			b = runCmd(b, c)
		}
		return b
	}
	if msg == nil {
		return b
	}
	updated, next := b.Update(msg)
	return runCmd(updated.(Browser), next)
}

// testBrowser creates a Browser with the mock library already loaded.
func testBrowser(src library.Source, width, height int, opts ...BrowserOption) Browser {
	b := NewBrowser(src, opts...)
	b.width = width
	b.height = height
	b.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	return runCmd(b, b.Init())
}

func press(b Browser, key string) (Browser, tea.Cmd) {
	updated, cmd := b.Update(keyMsg(key))
	return updated.(Browser), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_ShowsCategoriesAndCursors(t *testing.T) {
	b := testBrowser(testSource(), 100, 30)
	view := b.View()

	for _, label := range []string{"Arrows", "Animated", "Hands"} {
		if !strings.Contains(view, label) {
			t.Errorf("View() missing category %q", label)
		}
	}
	for _, name := range []string{"blue", "red"} {
		if !strings.Contains(view, name) {
			t.Errorf("View() missing cursor %q", name)
		}
	}
	if !strings.Contains(view, "2.0 kB") {
		t.Errorf("View() missing humanized size")
	}
}

func TestUpdate_CategoryNavigationLoadsCursors(t *testing.T) {
	b := testBrowser(testSource(), 100, 30)

	b, cmd := press(b, "j")
	if b.catIdx != 1 {
		t.Fatalf("after j: catIdx = %d, want 1", b.catIdx)
	}
	if cmd == nil {
		t.Fatal("changing category should load its cursors")
	}
	b = runCmd(b, cmd)
	if len(b.cursors) != 1 || b.cursors[0].Name != "spin.gif" {
		t.Errorf("cursors = %+v, want spin.gif", b.cursors)
	}

	b, _ = press(b, "j")
	b, cmd = press(b, "j")
	if b.catIdx != 2 {
		t.Errorf("after j j j: catIdx = %d, want 2 (clamped)", b.catIdx)
	}
	if cmd != nil {
		t.Errorf("clamped move should not reload cursors")
	}
}

func TestUpdate_CursorNavigation(t *testing.T) {
	b := testBrowser(testSource(), 100, 30)

	b, _ = press(b, "tab")
	if b.focus != paneCursors {
		t.Fatalf("tab should focus the cursor pane")
	}

	b, _ = press(b, "j")
	if b.curIdx != 1 {
		t.Errorf("after j: curIdx = %d, want 1", b.curIdx)
	}
	b, _ = press(b, "j")
	if b.curIdx != 1 {
		t.Errorf("after j j: curIdx = %d, want 1 (clamped)", b.curIdx)
	}
	b, _ = press(b, "g")
	if b.curIdx != 0 {
		t.Errorf("after g: curIdx = %d, want 0", b.curIdx)
	}
	if b.catIdx != 0 {
		t.Errorf("cursor navigation moved the category to %d", b.catIdx)
	}
}

func TestUpdate_EnterAppliesSelectedCursor(t *testing.T) {
	applier := &fakeApplier{result: engine.Result{Frames: []frames.Frame{{}, {}}}}
	notices := notify.NewNotices(10)
	b := testBrowser(testSource(), 100, 30, WithApplier(applier), WithNotices(notices))

	b, _ = press(b, "enter") // focus cursors
	b, _ = press(b, "j")
	b, cmd := press(b, "enter")
	if cmd == nil {
		t.Fatal("Enter on a cursor should return a command")
	}
	if !b.Busy() {
		t.Fatal("browser should be busy while applying")
	}
	if !strings.Contains(b.View(), "applying red.png") {
		t.Errorf("View() should show the cursor being applied")
	}

	b = runCmd(b, cmd)
	if b.Busy() {
		t.Error("browser should be idle after the pipeline finished")
	}
	if len(applier.sources) != 1 || applier.sources[0] != "/lib/arrows/red.png" {
		t.Errorf("applied sources = %v", applier.sources)
	}
	latest, ok := notices.Latest()
	if !ok || latest.Level != notify.LevelInfo || !strings.Contains(latest.Text, "red.png (2 frames)") {
		t.Errorf("latest notice = %+v", latest)
	}
}

func TestUpdate_EnterIgnoredWhileBusy(t *testing.T) {
	applier := &fakeApplier{}
	b := testBrowser(testSource(), 100, 30, WithApplier(applier))

	b, _ = press(b, "tab")
	b, first := press(b, "enter")
	if first == nil {
		t.Fatal("first Enter should start applying")
	}

	b, second := press(b, "enter")
	if second != nil {
		t.Error("Enter while busy should be ignored")
	}
	_ = b
}

func TestUpdate_BellSuspendedWhileApplying(t *testing.T) {
	bell := notify.NewBell(time.Minute, notify.LevelError)
	b := testBrowser(testSource(), 100, 30, WithApplier(&fakeApplier{}), WithBell(bell))

	b, _ = press(b, "tab")
	b, cmd := press(b, "enter")
	if !bell.IsSuspended() {
		t.Error("bell should be suspended while applying")
	}
	runCmd(b, cmd)
	if bell.IsSuspended() {
		t.Error("bell should resume after applying")
	}
}

func TestUpdate_UnsupportedDesktopIsWarning(t *testing.T) {
	applier := &fakeApplier{result: engine.Result{
		Frames: []frames.Frame{{}},
		Reload: &notify.UnsupportedEnvironmentError{Identity: "sway", Theme: "cmcursor"},
	}}
	notices := notify.NewNotices(10)
	b := testBrowser(testSource(), 200, 30, WithApplier(applier), WithNotices(notices))

	b, _ = press(b, "tab")
	b, cmd := press(b, "enter")
	b = runCmd(b, cmd)

	latest, _ := notices.Latest()
	if latest.Level != notify.LevelWarn {
		t.Errorf("latest level = %s, want WARN", latest.Level)
	}
	if !strings.Contains(b.View(), "manually") {
		t.Errorf("View() should tell the user to switch theme manually")
	}
}

func TestUpdate_ApplyErrorShown(t *testing.T) {
	applier := &fakeApplier{err: errors.New("xcursorgen: bad config")}
	b := testBrowser(testSource(), 100, 30, WithApplier(applier))

	b, _ = press(b, "tab")
	b, cmd := press(b, "enter")
	b = runCmd(b, cmd)

	if !strings.Contains(b.View(), "xcursorgen: bad config") {
		t.Errorf("View() should show the pipeline error")
	}
}

func TestUpdate_EnterOnEmptyCategory(t *testing.T) {
	b := testBrowser(testSource(), 100, 30, WithApplier(&fakeApplier{}))

	b, _ = press(b, "G")
	b = runCmd(b, b.loadCursors())
	b, _ = press(b, "tab")
	_, cmd := press(b, "enter")
	if cmd != nil {
		t.Errorf("Enter on an empty category should return nil cmd")
	}
}

func TestUpdate_LibraryChangeRefreshes(t *testing.T) {
	src := testSource()
	updates := make(chan library.Change, 1)
	b := NewBrowser(src, WithUpdates(updates))
	b.width, b.height = 100, 30

	b = runCmd(b, b.loadCategories())
	before := src.GetListCalls()

	src.CategoryList = append(src.CategoryList, library.Category{Label: "New", Path: "/lib/new"})
	updates <- library.Change{Path: "/lib/new"}
	close(updates)
	b = runCmd(b, b.waitForChange())

	if src.GetListCalls() <= before {
		t.Error("a library change should reload categories")
	}
	if len(b.categories) != 4 {
		t.Errorf("categories = %d, want 4", len(b.categories))
	}
}

func TestUpdate_RefreshKeepsSelection(t *testing.T) {
	src := testSource()
	b := testBrowser(src, 100, 30)
	b, cmd := press(b, "G")
	b = runCmd(b, cmd)

	src.CategoryList = append([]library.Category{{Label: "Aaa", Path: "/lib/aaa"}}, src.CategoryList...)
	b, cmd = press(b, "r")
	b = runCmd(b, cmd)

	if got := b.categories[b.catIdx].Path; got != "/lib/hands" {
		t.Errorf("selection after refresh = %s, want /lib/hands", got)
	}
}

func TestUpdate_QuitOnQ(t *testing.T) {
	b := testBrowser(testSource(), 100, 30)

	_, cmd := press(b, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command did not return tea.QuitMsg")
	}
}

func TestView_TerminalTooSmall(t *testing.T) {
	b := testBrowser(testSource(), 40, 10)
	if !strings.Contains(b.View(), "Terminal too small") {
		t.Errorf("View() should show too-small message")
	}
}

func TestView_EmptyLibrary(t *testing.T) {
	b := testBrowser(&testutil.MockSource{}, 100, 30)
	if !strings.Contains(b.View(), "No cursor categories found") {
		t.Errorf("View() should show empty message")
	}
}

func TestView_LoadingState(t *testing.T) {
	b := NewBrowser(testSource())
	b.width = 100
	b.height = 30
	if !strings.Contains(b.View(), "Loading") {
		t.Errorf("View() should show loading state")
	}
}

func TestView_ErrorInNotificationBar(t *testing.T) {
	src := &testutil.MockSource{ListErr: fmt.Errorf("read library ./cursors: permission denied")}
	b := testBrowser(src, 100, 30)
	if !strings.Contains(b.View(), "permission denied") {
		t.Errorf("View() should show error in notification bar")
	}
}
