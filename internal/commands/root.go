// Package commands is the linklyctl command tree.
package commands

import (
	"fmt"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/config"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	apiKey      string
	workspaceID string
	baseURL     string
	timeout     time.Duration
	output      string
}

// NewRootCommand builds linklyctl. Credential flags default to the same
// environment variables the server reads.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "linklyctl",
		Short:         "Operate Linkly links and click triggers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `linklyctl runs the connector's operations from a terminal.

Credentials come from --api-key/--workspace-id or LINKLY_API_KEY and
LINKLY_WORKSPACE_ID. Trigger commands also read TRIGGER_NODES_FILE,
PUBLIC_BASE_URL and the STATE_BACKEND settings.

Examples:
  # List workspace links
  linklyctl links list

  # Create a link with extra fields
  linklyctl links create --url https://example.com --field name=promo --field enabled=true

  # Register the callback for a trigger node
  linklyctl trigger activate all-clicks`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.output {
			case "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (use json or yaml)", opts.output)
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.apiKey, "api-key", "", "Linkly API key (default $LINKLY_API_KEY)")
	flags.StringVar(&opts.workspaceID, "workspace-id", "", "Linkly workspace id (default $LINKLY_WORKSPACE_ID)")
	flags.StringVar(&opts.baseURL, "base-url", "", "Linkly API base URL (default $LINKLY_BASE_URL)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout (default $LINKLY_TIMEOUT)")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")

	cmd.AddCommand(newLinksCommand(opts))
	cmd.AddCommand(newCredentialsCommand(opts))
	cmd.AddCommand(newTriggerCommand(opts))

	return cmd
}

// loadConfig reads the environment and overlays explicitly set flags.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.apiKey != "" {
		cfg.Linkly.APIKey = o.apiKey
	}
	if o.workspaceID != "" {
		cfg.Linkly.WorkspaceID = o.workspaceID
	}
	if o.baseURL != "" {
		cfg.Linkly.BaseURL = o.baseURL
	}
	if o.timeout > 0 {
		cfg.Linkly.Timeout = o.timeout
	}
	return cfg, nil
}
