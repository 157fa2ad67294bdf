package cmd

import (
	"context"

	"github.com/kernel/sitenav/internal/localtabs"
	"github.com/spf13/cobra"
)

// OpenCmd navigates from a URL using the system browser.
type OpenCmd struct {
	tabs      *localtabs.Tabs
	navigator tabNavigator
}

type OpenInput struct {
	URL    string
	Option string
}

func (o OpenCmd) Open(ctx context.Context, in OpenInput) error {
	tab := o.tabs.Seed(in.URL)
	return o.navigator.Go(ctx, tab, in.Option)
}

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Pick a shortcut for a URL and open it in the system browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().String("option", "", "Title of the option to follow (prompts when omitted)")
}

func runOpen(cmd *cobra.Command, args []string) error {
	store, _, logger, err := getStore(cmd)
	if err != nil {
		return err
	}
	option, _ := cmd.Flags().GetString("option")

	tabs := localtabs.New()
	o := OpenCmd{
		tabs:      tabs,
		navigator: tabNavigator{tabs: tabs, config: store, logger: logger},
	}
	return o.Open(cmd.Context(), OpenInput{URL: args[0], Option: option})
}
