package cmd

import (
	"context"

	"github.com/kernel/sitenav/internal/kbrowser"
	"github.com/kernel/sitenav/internal/menu"
	"github.com/kernel/sitenav/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// GotoCmd navigates from the active tab of a Kernel browser.
type GotoCmd struct {
	tabs      menu.TabService
	navigator tabNavigator
}

type GotoInput struct {
	Option string
}

func (g GotoCmd) Goto(ctx context.Context, in GotoInput) error {
	tab, err := g.tabs.Active(ctx)
	if err != nil {
		return err
	}
	if tab == nil {
		pterm.Warning.Println("The browser has no active tab")
		return nil
	}
	return g.navigator.Go(ctx, *tab, in.Option)
}

var gotoCmd = &cobra.Command{
	Use:   "goto <browser-id>",
	Short: "Pick a shortcut for the active tab of a Kernel browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoto,
}

func init() {
	rootCmd.AddCommand(gotoCmd)
	gotoCmd.Flags().String("option", "", "Title of the option to follow (prompts when omitted)")
}

func runGoto(cmd *cobra.Command, args []string) error {
	store, _, logger, err := getStore(cmd)
	if err != nil {
		return err
	}
	client, err := util.GetKernelClient(cmd)
	if err != nil {
		return err
	}
	option, _ := cmd.Flags().GetString("option")

	svc := client.Browsers.Playwright
	host := kbrowser.NewHost(&svc, args[0])
	g := GotoCmd{
		tabs:      host,
		navigator: tabNavigator{tabs: host, config: store, logger: logger},
	}
	return g.Goto(cmd.Context(), GotoInput{Option: option})
}
