package menu

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kernel/sitenav/internal/resolver"
	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
)

// ParentTitle is the title of the top-level menu entry.
const ParentTitle = "Go to"

const internalScheme = "chrome://"

// ConfigSource provides the current configuration.
type ConfigSource interface {
	Get(ctx context.Context) (*siteconfig.Config, error)
}

// Synchronizer rebuilds the menu from scratch whenever the active tab or the
// configuration changes, and navigates when an option is clicked. Handlers run
// one at a time; failures are logged and never returned.
type Synchronizer struct {
	config ConfigSource
	tabs   TabService
	menu   MenuService
	logger *pterm.Logger

	mu sync.Mutex
}

// SynchronizerOptions configures a Synchronizer.
type SynchronizerOptions struct {
	Config ConfigSource
	Tabs   TabService
	Menu   MenuService
	Logger *pterm.Logger
}

func NewSynchronizer(opts SynchronizerOptions) *Synchronizer {
	logger := opts.Logger
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Synchronizer{
		config: opts.Config,
		tabs:   opts.Tabs,
		menu:   opts.Menu,
		logger: logger,
	}
}

// Run handles events in arrival order until ctx is done or events is closed.
func (s *Synchronizer) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Dispatch(ctx, ev)
		}
	}
}

// Dispatch handles a single event.
func (s *Synchronizer) Dispatch(ctx context.Context, ev Event) {
	switch e := ev.(type) {
	case TabUpdated:
		s.TabUpdated(ctx, e.TabID, e.Status, e.Tab)
	case TabActivated:
		s.TabActivated(ctx, e.TabID)
	case ConfigImported:
		s.ConfigImported(ctx)
	case MenuClicked:
		s.Clicked(ctx, e.ItemID, e.Tab)
	default:
		s.logger.Warn("ignoring unknown event", s.logger.Args("event", fmt.Sprintf("%T", ev)))
	}
}

// TabUpdated rebuilds the menu when the active tab finished loading. Updates of
// background tabs are ignored.
func (s *Synchronizer) TabUpdated(ctx context.Context, tabID int, status string, tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status != StatusComplete || !usableURL(tab.URL) {
		return
	}

	active, err := s.tabs.Active(ctx)
	if err != nil {
		s.logger.Warn("failed to query active tab", s.logger.Args("error", err))
		return
	}
	if active == nil || active.ID != tabID {
		s.logger.Debug("tab update completed in a background tab", s.logger.Args("tab", tabID))
		return
	}

	s.logger.Debug("tab update completed in the active tab", s.logger.Args("tab", tabID, "url", tab.URL))
	s.refresh(ctx, tab.URL, tabID)
}

// TabActivated rebuilds the menu for a newly active tab, or clears it when the
// tab has no usable URL.
func (s *Synchronizer) TabActivated(ctx context.Context, tabID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tab, err := s.tabs.Get(ctx, tabID)
	if err != nil {
		s.logger.Warn("failed to get activated tab", s.logger.Args("tab", tabID, "error", err))
		return
	}
	if tab == nil || !usableURL(tab.URL) {
		s.logger.Debug("tab activated without a usable URL, menu removed", s.logger.Args("tab", tabID))
		s.removeAll(ctx)
		return
	}
	s.refresh(ctx, tab.URL, tab.ID)
}

// ConfigImported rebuilds the menu for every open tab.
func (s *Synchronizer) ConfigImported(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tabs, err := s.tabs.Query(ctx)
	if err != nil {
		s.logger.Warn("failed to query tabs", s.logger.Args("error", err))
		return
	}
	for _, tab := range tabs {
		if usableURL(tab.URL) {
			s.refresh(ctx, tab.URL, tab.ID)
		}
	}
}

// Refresh rebuilds the menu for rawURL shown in tab tabID.
func (s *Synchronizer) Refresh(ctx context.Context, rawURL string, tabID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx, rawURL, tabID)
}

// Clicked resolves tab again and navigates to the option whose item id is itemID.
func (s *Synchronizer) Clicked(ctx context.Context, itemID string, tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if itemID == ParentID(tab.ID) || tab.URL == "" {
		return
	}

	option, ok := s.selectedOption(ctx, itemID, tab)
	if !ok {
		return
	}
	s.logger.Info("selected option", s.logger.Args("title", option.Title, "url", option.URL))
	s.navigate(ctx, option.URL)
}

// Navigate brings an existing tab showing target to the front, or opens a new one.
func (s *Synchronizer) Navigate(ctx context.Context, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigate(ctx, target)
}

// Options returns the options currently offered for rawURL.
func (s *Synchronizer) Options(ctx context.Context, rawURL string) ([]siteconfig.Option, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}
	u, err := resolver.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return resolver.OptionsFor(resolver.Resolve(u, cfg), cfg), nil
}

func (s *Synchronizer) refresh(ctx context.Context, rawURL string, tabID int) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load configuration", s.logger.Args("error", err))
		return
	}

	u, err := resolver.ParseURL(rawURL)
	if err != nil {
		s.logger.Warn("failed to process tab URL", s.logger.Args("url", rawURL, "error", err))
		s.removeAll(ctx)
		return
	}

	site := resolver.Resolve(u, cfg)
	s.removeAll(ctx)
	if site == nil {
		s.logger.Debug("no supported domain, menu removed", s.logger.Args("url", rawURL))
		return
	}
	s.build(ctx, resolver.OptionsFor(site, cfg), tabID)
}

func (s *Synchronizer) build(ctx context.Context, options []siteconfig.Option, tabID int) {
	if len(options) == 0 {
		return
	}

	parent := ParentID(tabID)
	if err := s.menu.Create(ctx, Item{ID: parent, Title: ParentTitle}); err != nil {
		s.logger.Warn("failed to create menu entry", s.logger.Args("id", parent, "error", err))
	}
	for _, option := range options {
		item := Item{ID: OptionItemID(option.Title, tabID), ParentID: parent, Title: option.Title}
		if err := s.menu.Create(ctx, item); err != nil {
			s.logger.Warn("failed to create menu item", s.logger.Args("id", item.ID, "error", err))
		}
	}
}

func (s *Synchronizer) removeAll(ctx context.Context) {
	if err := s.menu.RemoveAll(ctx); err != nil {
		s.logger.Warn("failed to clear menu", s.logger.Args("error", err))
	}
}

func (s *Synchronizer) selectedOption(ctx context.Context, itemID string, tab Tab) (siteconfig.Option, bool) {
	options, err := s.Options(ctx, tab.URL)
	if err != nil {
		s.logger.Warn("failed to process menu click", s.logger.Args("url", tab.URL, "error", err))
		return siteconfig.Option{}, false
	}
	return lo.Find(options, func(o siteconfig.Option) bool {
		return OptionItemID(o.Title, tab.ID) == itemID
	})
}

// navigate matches open tabs by literal string prefix of their URL.
func (s *Synchronizer) navigate(ctx context.Context, target string) {
	tabs, err := s.tabs.Query(ctx)
	if err != nil {
		s.logger.Warn("failed to query tabs", s.logger.Args("error", err))
		return
	}

	existing, ok := lo.Find(tabs, func(t Tab) bool { return strings.HasPrefix(t.URL, target) })
	if ok {
		s.logger.Info("switching to existing tab", s.logger.Args("tab", existing.ID))
		if err := s.tabs.Activate(ctx, existing.ID); err != nil {
			s.logger.Warn("failed to activate tab", s.logger.Args("tab", existing.ID, "error", err))
		}
		if err := s.tabs.FocusWindow(ctx, existing.WindowID); err != nil {
			s.logger.Warn("failed to focus window", s.logger.Args("window", existing.WindowID, "error", err))
		}
		return
	}

	s.logger.Info("opening new tab", s.logger.Args("url", target))
	if _, err := s.tabs.Create(ctx, target); err != nil {
		s.logger.Warn("failed to open tab", s.logger.Args("url", target, "error", err))
	}
}

func usableURL(raw string) bool {
	return raw != "" && !strings.HasPrefix(raw, internalScheme)
}
