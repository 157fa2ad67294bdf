package kbrowser

import (
	"context"
	"time"

	"github.com/kernel/sitenav/internal/menu"
	"github.com/pterm/pterm"
)

// DefaultPollInterval is how often the watcher lists tabs.
const DefaultPollInterval = 2 * time.Second

// Watcher turns periodic tab snapshots into menu events.
type Watcher struct {
	tabs     menu.TabService
	interval time.Duration
	logger   *pterm.Logger

	last     map[int]menu.Tab
	activeID int
}

func NewWatcher(tabs menu.TabService, interval time.Duration, logger *pterm.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Watcher{
		tabs:     tabs,
		interval: interval,
		logger:   logger,
		last:     make(map[int]menu.Tab),
		activeID: -1,
	}
}

// Run polls until ctx is done, sending events for every observed change.
func (w *Watcher) Run(ctx context.Context, events chan<- menu.Event) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		for _, ev := range w.Poll(ctx) {
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll takes one snapshot and returns the events since the previous one. An
// activation is reported before load completions.
func (w *Watcher) Poll(ctx context.Context) []menu.Event {
	tabs, err := w.tabs.Query(ctx)
	if err != nil {
		w.logger.Warn("failed to poll tabs", w.logger.Args("error", err))
		return nil
	}

	var events []menu.Event
	for _, tab := range tabs {
		if tab.Active {
			if tab.ID != w.activeID {
				w.activeID = tab.ID
				events = append(events, menu.TabActivated{TabID: tab.ID})
			}
			break
		}
	}

	current := make(map[int]menu.Tab, len(tabs))
	for _, tab := range tabs {
		current[tab.ID] = tab
		prev, seen := w.last[tab.ID]
		if tab.Status != menu.StatusComplete {
			continue
		}
		if !seen || prev.URL != tab.URL || prev.Status != menu.StatusComplete {
			events = append(events, menu.TabUpdated{TabID: tab.ID, Status: tab.Status, Tab: tab})
		}
	}
	w.last = current

	return events
}
