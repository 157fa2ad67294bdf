package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StorageEnv overrides the default storage file location.
const StorageEnv = "SITENAV_STORAGE"

var rootCmd = &cobra.Command{
	Use:   "sitenav",
	Short: "Jump between the environments of the site in your browser tab",
	Long: `sitenav matches the URL of a browser tab against a list of known domains and
offers "Go to" shortcuts to the other environments of the same cluster, plus the
hybris Backoffice and HAC consoles.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("api-key", "", "Kernel API key (defaults to KERNEL_API_KEY or the keyring)")
	rootCmd.PersistentFlags().String("storage", "", "Path of the storage file (defaults to SITENAV_STORAGE or the user config dir)")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "Log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute(ctx context.Context, version string) error {
	return fang.Execute(ctx, rootCmd, fang.WithVersion(version))
}

var logLevels = map[string]pterm.LogLevel{
	"debug": pterm.LogLevelDebug,
	"info":  pterm.LogLevelInfo,
	"warn":  pterm.LogLevelWarn,
	"error": pterm.LogLevelError,
}

// logLevelFlag is a pflag.Value that only accepts the names in logLevels.
type logLevelFlag string

var _ pflag.Value = (*logLevelFlag)(nil)

var logLevel = logLevelFlag("warn")

func (f *logLevelFlag) String() string { return string(*f) }

func (f *logLevelFlag) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if _, ok := logLevels[v]; !ok {
		return fmt.Errorf("use debug, info, warn or error")
	}
	*f = logLevelFlag(v)
	return nil
}

func (f *logLevelFlag) Type() string { return "level" }

// getLogger builds the logger selected by --log-level.
func getLogger(cmd *cobra.Command) (*pterm.Logger, error) {
	name := string(logLevel)
	if fl := cmd.Flags().Lookup("log-level"); fl != nil {
		name = fl.Value.String()
	}
	level, ok := logLevels[name]
	if !ok {
		return nil, fmt.Errorf("unsupported --log-level value %q", name)
	}
	return pterm.DefaultLogger.WithLevel(level), nil
}

// getStoragePath applies --storage, then SITENAV_STORAGE, then the default.
func getStoragePath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("storage"); strings.TrimSpace(p) != "" {
		return p, nil
	}
	if p := os.Getenv(StorageEnv); strings.TrimSpace(p) != "" {
		return p, nil
	}
	return siteconfig.DefaultStoragePath()
}

// getStore opens the configuration store used by every command.
func getStore(cmd *cobra.Command) (*siteconfig.Store, *siteconfig.FileStorage, *pterm.Logger, error) {
	logger, err := getLogger(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	path, err := getStoragePath(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	storage := siteconfig.NewFileStorage(path)
	return siteconfig.NewStore(storage, siteconfig.Bundled, logger), storage, logger, nil
}

// PrintTableNoPad renders rows as an unboxed table.
func PrintTableNoPad(rows pterm.TableData, hasHeader bool) {
	table := pterm.DefaultTable.WithData(rows).WithBoxed(false)
	if hasHeader {
		table = table.WithHasHeader()
	}
	_ = table.Render()
}
