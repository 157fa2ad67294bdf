// Package localtabs opens navigation targets in the system browser.
package localtabs

import (
	"context"
	"fmt"
	"sync"

	"github.com/kernel/sitenav/internal/menu"
	"github.com/pkg/browser"
	"github.com/samber/lo"
)

// Opener opens a URL outside the process.
type Opener func(url string) error

// Tabs implements menu.TabService on top of the system browser. The system
// browser cannot be inspected, so only the tabs opened here are known, and
// the most recently opened one is treated as active.
type Tabs struct {
	open Opener

	mu     sync.Mutex
	tabs   []menu.Tab
	nextID int
}

// New returns Tabs that open URLs with browser.OpenURL.
func New() *Tabs {
	return NewWithOpener(browser.OpenURL)
}

func NewWithOpener(open Opener) *Tabs {
	return &Tabs{open: open}
}

// Seed records url as an already open tab, e.g. the page the user passed on
// the command line.
func (t *Tabs) Seed(url string) menu.Tab {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.add(url)
}

func (t *Tabs) Query(ctx context.Context) ([]menu.Tab, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]menu.Tab, len(t.tabs))
	copy(out, t.tabs)
	return out, nil
}

func (t *Tabs) Get(ctx context.Context, id int) (*menu.Tab, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tab, ok := lo.Find(t.tabs, func(tab menu.Tab) bool { return tab.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %d", menu.ErrTabNotFound, id)
	}
	return &tab, nil
}

func (t *Tabs) Active(ctx context.Context) (*menu.Tab, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tab, ok := lo.Find(t.tabs, func(tab menu.Tab) bool { return tab.Active })
	if !ok {
		return nil, nil
	}
	return &tab, nil
}

// Activate opens the tab's URL again, which most browsers answer by focusing
// an existing tab or opening a new one.
func (t *Tabs) Activate(ctx context.Context, id int) error {
	tab, err := t.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := t.open(tab.URL); err != nil {
		return fmt.Errorf("failed to open %s: %w", tab.URL, err)
	}
	t.mu.Lock()
	t.setActive(id)
	t.mu.Unlock()
	return nil
}

func (t *Tabs) FocusWindow(ctx context.Context, windowID int) error {
	return nil
}

func (t *Tabs) Create(ctx context.Context, url string) (*menu.Tab, error) {
	if err := t.open(url); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", url, err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	tab := t.add(url)
	return &tab, nil
}

func (t *Tabs) add(url string) menu.Tab {
	tab := menu.Tab{ID: t.nextID, URL: url, Status: menu.StatusComplete, Active: true}
	t.nextID++
	t.tabs = append(t.tabs, tab)
	t.setActive(tab.ID)
	return tab
}

func (t *Tabs) setActive(id int) {
	for i := range t.tabs {
		t.tabs[i].Active = t.tabs[i].ID == id
	}
}
