package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/kernel/sitenav/internal/menu"
	"github.com/kernel/sitenav/internal/resolver"
	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/kernel/sitenav/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ResolveCmd shows how a URL is classified.
type ResolveCmd struct {
	config menu.ConfigSource
}

type ResolveInput struct {
	URL    string
	Output string
}

type resolveResult struct {
	URL       string              `json:"url"`
	Supported bool                `json:"supported"`
	Kind      resolver.Kind       `json:"kind,omitempty"`
	Domain    string              `json:"domain,omitempty"`
	Cluster   siteconfig.ID       `json:"cluster,omitempty"`
	Env       siteconfig.ID       `json:"env,omitempty"`
	Path      string              `json:"path,omitempty"`
	Options   []siteconfig.Option `json:"options"`
}

func (r ResolveCmd) Resolve(ctx context.Context, in ResolveInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	cfg, err := r.config.Get(ctx)
	if err != nil {
		return err
	}
	u, err := resolver.ParseURL(in.URL)
	if err != nil {
		return err
	}

	site := resolver.Resolve(u, cfg)
	res := resolveResult{URL: in.URL, Options: resolver.OptionsFor(site, cfg)}
	if site != nil {
		res.Supported = true
		res.Kind = site.Kind
		res.Path = site.Path
		if site.Kind == resolver.KindDomain {
			res.Domain = site.Rule.DomainName
			res.Cluster = site.Rule.Cluster
			res.Env = site.Rule.Env
		}
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(res)
	}

	if !res.Supported {
		pterm.Warning.Printf("%s is not a supported site\n", in.URL)
		return nil
	}

	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"URL", res.URL})
	rows = append(rows, []string{"Kind", string(res.Kind)})
	if res.Kind == resolver.KindDomain {
		rows = append(rows, []string{"Domain", res.Domain})
		rows = append(rows, []string{"Cluster", util.OrDash(res.Cluster.String())})
		rows = append(rows, []string{"Env", util.OrDash(res.Env.String())})
	} else {
		rows = append(rows, []string{"Console", res.Path})
	}
	PrintTableNoPad(rows, true)

	if len(res.Options) == 0 {
		pterm.Info.Println("No options for this environment")
		return nil
	}
	pterm.Println()
	PrintTableNoPad(optionRows(res.Options), true)
	return nil
}

func optionRows(options []siteconfig.Option) pterm.TableData {
	rows := pterm.TableData{{"Title", "URL"}}
	for _, o := range options {
		rows = append(rows, []string{util.OrDash(o.Title), util.OrDash(strings.TrimSpace(o.URL))})
	}
	return rows
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Show the site and navigation options for a URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	store, _, _, err := getStore(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")

	r := ResolveCmd{config: store}
	return r.Resolve(cmd.Context(), ResolveInput{URL: args[0], Output: output})
}
