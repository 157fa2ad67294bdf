package cmd

import (
	"context"
	"fmt"

	"github.com/kernel/sitenav/internal/menu"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
)

// OptionPicker asks the user to choose one of titles.
type OptionPicker func(titles []string) (string, error)

func interactivePicker(titles []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(titles).
		WithDefaultText(menu.ParentTitle).
		Show()
}

// tabNavigator builds the menu for a single tab and follows one of its entries.
type tabNavigator struct {
	tabs   menu.TabService
	config menu.ConfigSource
	logger *pterm.Logger
	pick   OptionPicker
}

// Go shows the options for tab and navigates to the one titled option, or to
// the one the user picks when option is empty.
func (n tabNavigator) Go(ctx context.Context, tab menu.Tab, option string) error {
	m := menu.NewTerminalMenu()
	s := menu.NewSynchronizer(menu.SynchronizerOptions{
		Config: n.config,
		Tabs:   n.tabs,
		Menu:   m,
		Logger: n.logger,
	})

	if _, err := s.Options(ctx, tab.URL); err != nil {
		return err
	}
	s.Refresh(ctx, tab.URL, tab.ID)

	items := m.Children(menu.ParentID(tab.ID))
	if len(items) == 0 {
		pterm.Warning.Printf("No shortcuts for %s\n", tab.URL)
		return nil
	}

	title := option
	if title == "" {
		pick := n.pick
		if pick == nil {
			pick = interactivePicker
		}
		picked, err := pick(lo.Map(items, func(it menu.Item, _ int) string { return it.Title }))
		if err != nil {
			return fmt.Errorf("failed to select an option: %w", err)
		}
		title = picked
	}

	item, ok := lo.Find(items, func(it menu.Item) bool { return it.Title == title })
	if !ok {
		return fmt.Errorf("no option titled %q for %s", title, tab.URL)
	}

	pterm.Info.Printf("Going to %s\n", item.Title)
	s.Clicked(ctx, item.ID, tab)
	return nil
}
