package menu

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/samber/lo"
)

var (
	parentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C5CE7"))
	childStyle  = lipgloss.NewStyle().PaddingLeft(2)
	emptyStyle  = lipgloss.NewStyle().Faint(true)
)

// TerminalMenu mirrors a native context menu in memory and renders it for a
// terminal. Items keep their creation order.
type TerminalMenu struct {
	mu       sync.Mutex
	items    []Item
	onChange func(items []Item)
}

func NewTerminalMenu() *TerminalMenu {
	return &TerminalMenu{}
}

// OnChange registers fn to run with a snapshot of the items after every change.
func (m *TerminalMenu) OnChange(fn func(items []Item)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

func (m *TerminalMenu) RemoveAll(ctx context.Context) error {
	m.mu.Lock()
	m.items = nil
	fn, snapshot := m.onChange, m.snapshot()
	m.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
	return nil
}

func (m *TerminalMenu) Create(ctx context.Context, item Item) error {
	m.mu.Lock()
	if lo.ContainsBy(m.items, func(it Item) bool { return it.ID == item.ID }) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
	}
	if item.ParentID != "" && !lo.ContainsBy(m.items, func(it Item) bool { return it.ID == item.ParentID }) {
		m.mu.Unlock()
		return fmt.Errorf("parent %s of menu item %s does not exist", item.ParentID, item.ID)
	}
	m.items = append(m.items, item)
	fn, snapshot := m.onChange, m.snapshot()
	m.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
	return nil
}

// Items returns a copy of all items.
func (m *TerminalMenu) Items() []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Children returns the items under parentID.
func (m *TerminalMenu) Children(parentID string) []Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Filter(m.items, func(it Item, _ int) bool { return it.ParentID == parentID })
}

// Roots returns the top-level items.
func (m *TerminalMenu) Roots() []Item {
	return m.Children("")
}

// Render draws the menu as an indented tree.
func (m *TerminalMenu) Render() string {
	return RenderItems(m.Items())
}

// RenderItems draws items as an indented tree.
func RenderItems(items []Item) string {
	if len(items) == 0 {
		return emptyStyle.Render("(no shortcuts for this tab)")
	}

	var b strings.Builder
	for _, root := range lo.Filter(items, func(it Item, _ int) bool { return it.ParentID == "" }) {
		b.WriteString(parentStyle.Render(root.Title))
		b.WriteString("\n")
		for _, child := range lo.Filter(items, func(it Item, _ int) bool { return it.ParentID == root.ID }) {
			b.WriteString(childStyle.Render("› " + child.Title))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *TerminalMenu) snapshot() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}
