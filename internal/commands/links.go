package commands

import (
	"fmt"
	"strings"

	"github.com/IgorGrieder/linkly-connector/internal/bootstrap"
	"github.com/IgorGrieder/linkly-connector/internal/processing/links"
	"github.com/spf13/cobra"
)

func newLinksCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Create, read, update and delete Linkly links",
	}

	cmd.AddCommand(newLinksCreateCmd(opts))
	cmd.AddCommand(newLinksGetCmd(opts))
	cmd.AddCommand(newLinksListCmd(opts))
	cmd.AddCommand(newLinksUpdateCmd(opts))
	cmd.AddCommand(newLinksDeleteCmd(opts))
	cmd.AddCommand(newLinksOptionsCmd(opts))

	return cmd
}

// fieldsHelp lists the link fields Linkly accepts besides url.
func fieldsHelp() string {
	return "Known fields: " + strings.Join(links.Fields, ", ") + "."
}

func linkService(opts *globalOptions) (*links.Service, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := bootstrap.LinklyClient(cfg.Linkly, bootstrap.Credential(cfg.Linkly))
	if err != nil {
		return nil, err
	}
	return links.NewService(client), nil
}

func newLinksCreateCmd(opts *globalOptions) *cobra.Command {
	var (
		url    string
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "create --url <destination>",
		Short: "Create a link",
		Long:  "Create a link. Extra fields are passed with --field key=value.\n\n" + fieldsHelp(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			additional, err := parseFields(fields)
			if err != nil {
				return err
			}
			svc, err := linkService(opts)
			if err != nil {
				return err
			}
			resp, err := svc.Create(cmd.Context(), url, additional)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.output, resp)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "destination URL")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "extra link field as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newLinksGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <link-id>",
		Short: "Show one link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := links.ParseLinkID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}
			svc, err := linkService(opts)
			if err != nil {
				return err
			}
			resp, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.output, resp)
		},
	}
}

func newLinksListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspace links (first page)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := linkService(opts)
			if err != nil {
				return err
			}
			all, err := svc.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.output, all)
		},
	}
}

func newLinksUpdateCmd(opts *globalOptions) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "update <link-id> --field key=value...",
		Short: "Update link fields",
		Long: "Update link fields. Empty values are dropped before sending, so a\n" +
			"field cannot be cleared with --field name=.\n\n" + fieldsHelp(),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := links.ParseLinkID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}
			updates, err := parseFields(fields)
			if err != nil {
				return err
			}
			svc, err := linkService(opts)
			if err != nil {
				return err
			}
			resp, err := svc.Update(cmd.Context(), id, updates)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.output, resp)
		},
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "link field as key=value (repeatable)")

	return cmd
}

func newLinksDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <link-id>",
		Short: "Delete a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := links.ParseLinkID(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}
			svc, err := linkService(opts)
			if err != nil {
				return err
			}
			resp, err := svc.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.output, resp)
		},
	}
}

func newLinksOptionsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List links as name/value pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := linkService(opts)
			if err != nil {
				return err
			}
			options, err := svc.Options(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.output, options)
		},
	}
}
