// Package kbrowser drives the tabs of a Kernel browser through Playwright
// execution and reports tab changes as menu events.
package kbrowser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kernel/kernel-go-sdk"
	"github.com/kernel/kernel-go-sdk/option"
	"github.com/kernel/sitenav/internal/menu"
	"github.com/kernel/sitenav/pkg/util"
	"github.com/samber/lo"
)

const defaultTimeoutSec = 30

// PlaywrightService defines the subset of the Kernel SDK Playwright client that we use.
type PlaywrightService interface {
	Execute(ctx context.Context, id string, body kernel.BrowserPlaywrightExecuteParams, opts ...option.RequestOption) (*kernel.BrowserPlaywrightExecuteResponse, error)
}

// Host implements menu.TabService for one Kernel browser session. The browser
// has a single window, so window ids are always 0.
type Host struct {
	playwright PlaywrightService
	browserID  string
	timeoutSec int64
}

func NewHost(playwright PlaywrightService, browserID string) *Host {
	return &Host{
		playwright: playwright,
		browserID:  browserID,
		timeoutSec: defaultTimeoutSec,
	}
}

// BrowserID returns the Kernel session the host controls.
func (h *Host) BrowserID() string {
	return h.browserID
}

func (h *Host) Query(ctx context.Context) ([]menu.Tab, error) {
	var tabs []menu.Tab
	if err := h.execute(ctx, ListTabsScript, &tabs); err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}
	return tabs, nil
}

func (h *Host) Get(ctx context.Context, id int) (*menu.Tab, error) {
	tabs, err := h.Query(ctx)
	if err != nil {
		return nil, err
	}
	tab, ok := lo.Find(tabs, func(t menu.Tab) bool { return t.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %d", menu.ErrTabNotFound, id)
	}
	return &tab, nil
}

// Active returns the first visible page, or nil when every page is hidden.
func (h *Host) Active(ctx context.Context) (*menu.Tab, error) {
	tabs, err := h.Query(ctx)
	if err != nil {
		return nil, err
	}
	tab, ok := lo.Find(tabs, func(t menu.Tab) bool { return t.Active })
	if !ok {
		return nil, nil
	}
	return &tab, nil
}

func (h *Host) Activate(ctx context.Context, id int) error {
	script := fmt.Sprintf("process.env.SITENAV_TAB_ID = '%d';\n\n%s", id, ActivateTabScript)
	if err := h.execute(ctx, script, nil); err != nil {
		return fmt.Errorf("failed to activate tab %d: %w", id, err)
	}
	return nil
}

// FocusWindow is a no-op: bringing a page to the front already focuses the
// only window.
func (h *Host) FocusWindow(ctx context.Context, windowID int) error {
	return nil
}

func (h *Host) Create(ctx context.Context, url string) (*menu.Tab, error) {
	script := fmt.Sprintf("process.env.SITENAV_URL = %s;\n\n%s", jsString(url), OpenTabScript)
	var tab menu.Tab
	if err := h.execute(ctx, script, &tab); err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	return &tab, nil
}

func (h *Host) execute(ctx context.Context, script string, out any) error {
	result, err := h.playwright.Execute(ctx, h.browserID, kernel.BrowserPlaywrightExecuteParams{
		Code:       script,
		TimeoutSec: kernel.Opt(h.timeoutSec),
	})
	if err != nil {
		return util.CleanedUpSdkError{Err: err}
	}
	if !result.Success {
		if result.Error != "" {
			return fmt.Errorf("script failed: %s", result.Error)
		}
		return fmt.Errorf("script failed")
	}
	if out == nil || result.Result == nil {
		return nil
	}

	resultBytes, err := json.Marshal(result.Result)
	if err != nil {
		return fmt.Errorf("failed to parse result: %w", err)
	}
	if err := json.Unmarshal(resultBytes, out); err != nil {
		return fmt.Errorf("failed to parse result: %w", err)
	}
	return nil
}

// jsString returns s as a JavaScript string literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
