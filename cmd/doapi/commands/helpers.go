package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cowwoc/digitalocean-sub002/pkg/doapi"
	"github.com/cowwoc/digitalocean-sub002/pkg/doclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	NotAvailable = "N/A"
)

// Common static errors used throughout the commands package.
var (
	ErrTokenNotConfigured = errors.New("no API token configured; run 'doapi configure' or pass --token")
	ErrDropletIDRequired  = errors.New("droplet ID is required")
	ErrClusterIDRequired  = errors.New("cluster ID is required")
	ErrVPCIDRequired      = errors.New("VPC ID is required")
	ErrProjectIDRequired  = errors.New("project ID is required")
)

// createClient builds an API client from the effective configuration: flags
// override environment variables override the config file.
func createClient() (doapi.Client, error) {
	token := viper.GetString("token")
	if token == "" {
		return nil, ErrTokenNotConfigured
	}

	config := &doapi.Config{
		Token:   token,
		BaseURL: viper.GetString("base_url"),
		Debug:   viper.GetBool("verbose"),
	}

	client, err := doclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// renderOutput encodes value as JSON or YAML per the output flag, or calls
// renderTable for the default table format.
func renderOutput(value interface{}, renderTable func() error) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(value)
	case OutputFormatYAML:
		return yaml.NewEncoder(os.Stdout).Encode(value)
	default:
		return renderTable()
	}
}

// renderRows writes one table with the given header and rows.
func renderRows(header []string, rows [][]string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header(toAny(header)...)

	for _, row := range rows {
		_ = table.Append(toAny(row)...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toAny(values []string) []interface{} {
	converted := make([]interface{}, len(values))
	for i, value := range values {
		converted[i] = value
	}

	return converted
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return NotAvailable
	}

	return value.Format(time.RFC3339)
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return NotAvailable
	}

	return strings.Join(tags, ", ")
}

func orNotAvailable(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}
