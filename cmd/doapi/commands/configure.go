package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
	"github.com/cowwoc/digitalocean-sub002/pkg/doclient"
)

// cliConfig is the on-disk shape of ~/.doapi/config.yml.
type cliConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url,omitempty"`
	Output  string `yaml:"output,omitempty"`
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	var (
		token   string
		baseURL string
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure API credentials",
		Long:  "Store the API token and endpoint in the doapi config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				fmt.Print("API token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}

				fmt.Println()

				token = strings.TrimSpace(string(byteToken))
			}

			if token == "" {
				return doapi.ErrTokenRequired
			}

			// Verify the token before persisting it.
			client, err := doclient.New(&doapi.Config{Token: token, BaseURL: baseURL})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer func() {
				_ = client.Close()
			}()

			if _, err := client.Projects().List(context.Background(), &doapi.ListOptions{PerPage: 1}); err != nil {
				return fmt.Errorf("token verification failed: %w", err)
			}

			path, err := saveConfig(&cliConfig{
				Token:   token,
				BaseURL: baseURL,
				Output:  viper.GetString("output"),
			})
			if err != nil {
				return err
			}

			fmt.Println("Configuration saved to", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API access token (prompted when omitted)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API endpoint URL")

	return cmd
}

func saveConfig(config *cliConfig) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	configDir := filepath.Join(home, ".doapi")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	encoded, err := yaml.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	path := filepath.Join(configDir, "config.yml")

	// The file holds a credential.
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return path, nil
}
