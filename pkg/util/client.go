package util

import (
	"errors"
	"os"
	"strings"

	"github.com/kernel/kernel-go-sdk"
	"github.com/kernel/kernel-go-sdk/option"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService and KeyringUser locate the stored Kernel API key.
	KeyringService = "sitenav"
	KeyringUser    = "kernel-api-key"

	APIKeyEnv  = "KERNEL_API_KEY"
	BaseURLEnv = "KERNEL_BASE_URL"
)

// ErrNoAPIKey is returned when no API key is configured anywhere.
var ErrNoAPIKey = errors.New("no Kernel API key configured: pass --api-key, set KERNEL_API_KEY, or run 'sitenav auth login'")

// ResolveAPIKey picks the API key from the flag value, the environment, then
// the OS keyring, in that order.
func ResolveAPIKey(flagValue string) (string, error) {
	if k := strings.TrimSpace(flagValue); k != "" {
		return k, nil
	}
	if k := strings.TrimSpace(os.Getenv(APIKeyEnv)); k != "" {
		return k, nil
	}
	k, err := keyring.Get(KeyringService, KeyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoAPIKey
	}
	if err != nil {
		return "", err
	}
	return k, nil
}

// NewKernelClient builds a Kernel API client.
func NewKernelClient(apiKey, baseURL string) kernel.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return kernel.NewClient(opts...)
}

// GetKernelClient builds a client from the root command's flags and environment.
func GetKernelClient(cmd *cobra.Command) (kernel.Client, error) {
	flagKey, _ := cmd.Flags().GetString("api-key")
	apiKey, err := ResolveAPIKey(flagKey)
	if err != nil {
		return kernel.Client{}, err
	}
	return NewKernelClient(apiKey, os.Getenv(BaseURLEnv)), nil
}
