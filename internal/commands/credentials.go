package commands

import (
	"github.com/IgorGrieder/linkly-connector/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newCredentialsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Inspect the Linkly credential",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check the credential against Linkly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			client, err := bootstrap.LinklyClient(cfg.Linkly, bootstrap.Credential(cfg.Linkly))
			if err != nil {
				return err
			}
			if err := client.TestCredentials(cmd.Context()); err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.output, map[string]string{
				"status":  "OK",
				"message": "Connection successful",
			})
		},
	})

	return cmd
}
