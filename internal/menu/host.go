// Package menu keeps a "Go to" navigation menu in sync with the site of the
// active browser tab.
package menu

import (
	"context"
	"errors"
	"fmt"
)

// StatusComplete is the tab status reported once a page finished loading.
const StatusComplete = "complete"

var (
	// ErrDuplicateItem is returned by a MenuService when an item id is reused.
	ErrDuplicateItem = errors.New("duplicate menu item id")
	// ErrTabNotFound is returned by a TabService for an unknown tab id.
	ErrTabNotFound = errors.New("tab not found")
)

// Tab describes one open browser tab.
type Tab struct {
	ID       int    `json:"id"`
	WindowID int    `json:"windowId"`
	URL      string `json:"url"`
	Status   string `json:"status"`
	Active   bool   `json:"active"`
}

// Item is one entry of the menu. Top-level items have an empty ParentID.
type Item struct {
	ID       string
	ParentID string
	Title    string
}

// TabService is the subset of browser tab and window control the synchronizer needs.
type TabService interface {
	Query(ctx context.Context) ([]Tab, error)
	Get(ctx context.Context, id int) (*Tab, error)
	// Active returns the active tab of the current window, or nil if there is none.
	Active(ctx context.Context) (*Tab, error)
	Activate(ctx context.Context, id int) error
	FocusWindow(ctx context.Context, windowID int) error
	Create(ctx context.Context, url string) (*Tab, error)
}

// MenuService is a native-style menu that supports create and remove-all only.
type MenuService interface {
	RemoveAll(ctx context.Context) error
	Create(ctx context.Context, item Item) error
}

// ParentID returns the id of the "Go to" entry for a tab.
func ParentID(tabID int) string {
	return fmt.Sprintf("gotoMenu_%d", tabID)
}

// OptionItemID returns the id of the entry for the option titled title.
func OptionItemID(title string, tabID int) string {
	return fmt.Sprintf("%s_%d", title, tabID)
}
