package testutil

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/JPM1118/cmredux/internal/library"
)

// Call records one MockRunner invocation.
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// MockRunner implements raster.Runner and notify.Runner for testing.
type MockRunner struct {
	mu    sync.Mutex
	calls []Call
	// Errs maps a tool name to the error it returns.
	Errs map[string]error
	// OnRun, if set, runs before the call returns (e.g. to write output
	// files the real tool would produce).
	OnRun func(c Call) error
}

func (m *MockRunner) Run(_ context.Context, name string, args []string, stdin io.Reader) error {
	c := Call{Name: name, Args: append([]string(nil), args...)}
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		c.Stdin = string(data)
	}

	m.mu.Lock()
	m.calls = append(m.calls, c)
	err := m.Errs[name]
	hook := m.OnRun
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if hook != nil {
		return hook(c)
	}
	return nil
}

// Calls returns a copy of the recorded calls in a thread-safe manner.
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallsTo returns the recorded calls to one tool.
func (m *MockRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// CommandLines returns each call as "name arg arg ...".
func (m *MockRunner) CommandLines() []string {
	calls := m.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = strings.Join(append([]string{c.Name}, c.Args...), " ")
	}
	return out
}

// MockSource implements library.Source for testing.
type MockSource struct {
	mu            sync.Mutex
	CategoryList  []library.Category
	CursorsByPath map[string][]library.Cursor
	ListErr       error
	ListCalls     int
}

func (m *MockSource) Categories() ([]library.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	return m.CategoryList, m.ListErr
}

func (m *MockSource) Cursors(c library.Category) ([]library.Cursor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CursorsByPath[c.Path], m.ListErr
}

// GetListCalls returns the number of Categories calls in a thread-safe manner.
func (m *MockSource) GetListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls
}
