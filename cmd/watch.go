package cmd

import (
	"context"
	"time"

	"github.com/kernel/sitenav/internal/kbrowser"
	"github.com/kernel/sitenav/internal/menu"
	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/kernel/sitenav/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// WatchStore is the configuration source of a watch session.
type WatchStore interface {
	menu.ConfigSource
	Invalidate()
	Subscribe(fn func(ctx context.Context))
}

// WatchCmd keeps the menu of a Kernel browser in sync until interrupted.
type WatchCmd struct {
	tabs        menu.TabService
	store       WatchStore
	storagePath string
	logger      *pterm.Logger
	render      func(string)
}

type WatchInput struct {
	Interval time.Duration
}

func (w WatchCmd) Watch(ctx context.Context, in WatchInput) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := w.logger
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}

	render := w.render
	if render == nil {
		render = func(s string) { pterm.Println(s) }
	}

	m := menu.NewTerminalMenu()
	changed := false
	m.OnChange(func([]menu.Item) { changed = true })

	s := menu.NewSynchronizer(menu.SynchronizerOptions{
		Config: w.store,
		Tabs:   w.tabs,
		Menu:   m,
		Logger: logger,
	})

	events := make(chan menu.Event, 16)
	send := func(ev menu.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	w.store.Subscribe(func(context.Context) { send(menu.ConfigImported{}) })

	watcher := kbrowser.NewWatcher(w.tabs, in.Interval, logger)
	go func() { _ = watcher.Run(ctx, events) }()

	if w.storagePath != "" {
		go func() {
			err := siteconfig.Watch(ctx, w.storagePath, siteconfig.DefaultDebounce, logger, func() {
				logger.Info("configuration changed on disk, reloading")
				w.store.Invalidate()
				send(menu.ConfigImported{})
			})
			if err != nil {
				logger.Warn("configuration reload disabled", logger.Args("error", err))
			}
		}()
	}

	last := ""
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			s.Dispatch(ctx, ev)
			if !changed {
				continue
			}
			changed = false
			if out := m.Render(); out != last {
				last = out
				render(out)
			}
		}
	}
}

var watchCmd = &cobra.Command{
	Use:   "watch <browser-id>",
	Short: "Keep the shortcut menu in sync with a Kernel browser",
	Long: `Poll the tabs of a Kernel browser and redraw the "Go to" menu whenever the
active tab changes or finishes loading. The menu also refreshes when the
configuration is imported from another terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("interval", kbrowser.DefaultPollInterval, "How often to poll the browser tabs")
}

func runWatch(cmd *cobra.Command, args []string) error {
	store, storage, logger, err := getStore(cmd)
	if err != nil {
		return err
	}
	client, err := util.GetKernelClient(cmd)
	if err != nil {
		return err
	}
	interval, _ := cmd.Flags().GetDuration("interval")

	svc := client.Browsers.Playwright
	w := WatchCmd{
		tabs:        kbrowser.NewHost(&svc, args[0]),
		store:       store,
		storagePath: storage.Path(),
		logger:      logger,
	}
	pterm.Info.Printf("Watching browser %s (Ctrl+C to stop)\n", args[0])
	return w.Watch(cmd.Context(), WatchInput{Interval: interval})
}
