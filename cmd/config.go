package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kernel/sitenav/internal/importer"
	"github.com/kernel/sitenav/internal/message"
	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/kernel/sitenav/pkg/util"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// ConfigStore is the subset of siteconfig.Store the config commands use.
type ConfigStore interface {
	Get(ctx context.Context) (*siteconfig.Config, error)
	Import(ctx context.Context, raw json.RawMessage) bool
}

// ConfigCmd handles configuration operations.
type ConfigCmd struct {
	store       ConfigStore
	storagePath string
	importer    *importer.Importer
}

func NewConfigCmd(store ConfigStore, storagePath string, logger *pterm.Logger) ConfigCmd {
	router := message.NewRouter()
	router.HandleImportConfig(store)
	return ConfigCmd{
		store:       store,
		storagePath: storagePath,
		importer:    importer.New(router, logger),
	}
}

type ConfigShowInput struct {
	Output string
}

// Show prints the current configuration.
func (c ConfigCmd) Show(ctx context.Context, in ConfigShowInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	cfg, err := c.store.Get(ctx)
	if err != nil {
		return err
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(cfg)
	}

	if len(cfg.Domains) == 0 {
		pterm.Info.Println("No domains configured")
	} else {
		rows := pterm.TableData{{"Domain", "Paths", "Cluster", "Env"}}
		for _, d := range cfg.Domains {
			rows = append(rows, []string{
				d.DomainName,
				util.JoinOrDash(d.PossiblePaths...),
				util.OrDash(d.Cluster.String()),
				util.OrDash(d.Env.String()),
			})
		}
		PrintTableNoPad(rows, true)
	}

	if len(cfg.Clusters) == 0 {
		return nil
	}
	pterm.Println()
	rows := pterm.TableData{{"Cluster", "Env", "Options"}}
	for _, cl := range cfg.Clusters {
		for _, env := range cl.Envs {
			titles := lo.Map(env.Options, func(o siteconfig.Option, _ int) string { return o.Title })
			rows = append(rows, []string{
				util.OrDash(cl.ID.String()),
				util.OrDash(env.ID.String()),
				util.JoinOrDash(titles...),
			})
		}
	}
	PrintTableNoPad(rows, true)
	return nil
}

type ConfigImportInput struct {
	Paths []string
}

// Import replaces the configuration with the first file in Paths.
func (c ConfigCmd) Import(ctx context.Context, in ConfigImportInput) error {
	status := c.importer.HandleFiles(ctx, in.Paths)
	if status != importer.StatusImported {
		return errors.New(status)
	}
	pterm.Success.Println(status)
	return nil
}

// Path prints the storage file location.
func (c ConfigCmd) Path(ctx context.Context) error {
	pterm.Println(c.storagePath)
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the site configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configImportCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Replace the configuration with a JSON file",
	Long: `Replace the configuration with the contents of a JSON file. Only the first
file is imported; use - to read from standard input.`,
	RunE: runConfigImport,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the storage file",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configImportCmd)
	configCmd.AddCommand(configPathCmd)

	configShowCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func getConfigCmd(cmd *cobra.Command) (ConfigCmd, error) {
	store, storage, logger, err := getStore(cmd)
	if err != nil {
		return ConfigCmd{}, err
	}
	return NewConfigCmd(store, storage.Path(), logger), nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	c, err := getConfigCmd(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return c.Show(cmd.Context(), ConfigShowInput{Output: output})
}

func runConfigImport(cmd *cobra.Command, args []string) error {
	c, err := getConfigCmd(cmd)
	if err != nil {
		return err
	}
	return c.Import(cmd.Context(), ConfigImportInput{Paths: args})
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	c, err := getConfigCmd(cmd)
	if err != nil {
		return err
	}
	return c.Path(cmd.Context())
}
