package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kernel/sitenav/pkg/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

// KeyStore persists the Kernel API key.
type KeyStore interface {
	Get() (string, error)
	Set(key string) error
	Delete() error
}

type keyringStore struct{}

func (keyringStore) Get() (string, error) {
	return keyring.Get(util.KeyringService, util.KeyringUser)
}

func (keyringStore) Set(key string) error {
	return keyring.Set(util.KeyringService, util.KeyringUser, key)
}

func (keyringStore) Delete() error {
	return keyring.Delete(util.KeyringService, util.KeyringUser)
}

// AuthCmd handles API key operations.
type AuthCmd struct {
	keys   KeyStore
	prompt func() (string, error)
}

func promptAPIKey() (string, error) {
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show("Kernel API key")
}

type AuthLoginInput struct {
	APIKey string
}

func (a AuthCmd) Login(ctx context.Context, in AuthLoginInput) error {
	key := strings.TrimSpace(in.APIKey)
	if key == "" {
		prompt := a.prompt
		if prompt == nil {
			prompt = promptAPIKey
		}
		entered, err := prompt()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		key = strings.TrimSpace(entered)
	}
	if key == "" {
		return errors.New("API key must not be empty")
	}

	if err := a.keys.Set(key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	pterm.Success.Println("API key stored in the system keyring")
	return nil
}

func (a AuthCmd) Logout(ctx context.Context) error {
	err := a.keys.Delete()
	if errors.Is(err, keyring.ErrNotFound) {
		pterm.Info.Println("No API key stored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove API key: %w", err)
	}
	pterm.Success.Println("API key removed from the system keyring")
	return nil
}

type AuthStatusInput struct {
	FlagKey string
}

// Status reports which source supplies the API key, in resolution order.
func (a AuthCmd) Status(ctx context.Context, in AuthStatusInput) error {
	source, key := "", ""
	switch {
	case strings.TrimSpace(in.FlagKey) != "":
		source, key = "--api-key flag", strings.TrimSpace(in.FlagKey)
	case strings.TrimSpace(os.Getenv(util.APIKeyEnv)) != "":
		source, key = util.APIKeyEnv, strings.TrimSpace(os.Getenv(util.APIKeyEnv))
	default:
		stored, err := a.keys.Get()
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		if stored != "" {
			source, key = "system keyring", stored
		}
	}

	if key == "" {
		pterm.Warning.Println("Not logged in. Run 'sitenav auth login' to store an API key.")
		return nil
	}

	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Source", source})
	rows = append(rows, []string{"API Key", maskKey(key)})
	PrintTableNoPad(rows, true)
	return nil
}

// maskKey keeps the last four characters of key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Kernel API key",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a Kernel API key in the system keyring",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Kernel API key",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the Kernel API key comes from",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("api-key")
	a := AuthCmd{keys: keyringStore{}}
	return a.Login(cmd.Context(), AuthLoginInput{APIKey: key})
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	a := AuthCmd{keys: keyringStore{}}
	return a.Logout(cmd.Context())
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("api-key")
	a := AuthCmd{keys: keyringStore{}}
	return a.Status(cmd.Context(), AuthStatusInput{FlagKey: key})
}
