package commands

import (
	"context"

	"github.com/IgorGrieder/linkly-connector/internal/bootstrap"
	"github.com/IgorGrieder/linkly-connector/internal/events"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/logger"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/spf13/cobra"
)

func newTriggerCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Manage the Linkly webhook behind a trigger node",
		Long: `Manage the Linkly webhook registration of a configured trigger node.

Nodes come from TRIGGER_NODES_FILE. Subscription records are kept in the
backend selected by STATE_BACKEND, so use the server's settings (a memory
backend forgets everything when the command exits).`,
	}

	cmd.AddCommand(newTriggerCheckCmd(opts))
	cmd.AddCommand(newTriggerActivateCmd(opts))
	cmd.AddCommand(newTriggerDeactivateCmd(opts))
	cmd.AddCommand(newTriggerStateCmd(opts))

	return cmd
}

// withTriggers opens the node state backend, runs fn and closes it.
func withTriggers(ctx context.Context, opts *globalOptions, fn func(*trigger.Service) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	client, err := bootstrap.LinklyClient(cfg.Linkly, bootstrap.Credential(cfg.Linkly))
	if err != nil {
		return err
	}
	nodes, err := bootstrap.Nodes(cfg)
	if err != nil {
		return err
	}
	state, err := bootstrap.OpenState(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = state.Close(context.Background()) }()

	hooks := trigger.NewSubscriptionManager(client, state.Store, client.WorkspaceID(), logger.Named("trigger"))
	svc := trigger.NewService(nodes, hooks, state.Store, events.NewLogPublisher(logger.Named("clicks")))
	return fn(svc)
}

type triggerResult struct {
	Node   string `json:"node"`
	Exists *bool  `json:"exists,omitempty"`
	Status string `json:"status,omitempty"`
}

func newTriggerCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <node-id>",
		Short: "Report whether Linkly has the node's callback registered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTriggers(cmd.Context(), opts, func(svc *trigger.Service) error {
				exists, err := svc.Check(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts.output, triggerResult{Node: args[0], Exists: &exists})
			})
		},
	}
}

func newTriggerActivateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <node-id>",
		Short: "Register the node's callback with Linkly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTriggers(cmd.Context(), opts, func(svc *trigger.Service) error {
				if err := svc.Activate(cmd.Context(), args[0]); err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts.output, triggerResult{Node: args[0], Status: "active"})
			})
		},
	}
}

func newTriggerDeactivateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <node-id>",
		Short: "Remove the node's callback from Linkly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTriggers(cmd.Context(), opts, func(svc *trigger.Service) error {
				if err := svc.Deactivate(cmd.Context(), args[0]); err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts.output, triggerResult{Node: args[0], Status: "inactive"})
			})
		},
	}
}

func newTriggerStateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state <node-id>",
		Short: "Show the node and its stored subscription record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTriggers(cmd.Context(), opts, func(svc *trigger.Service) error {
				st, err := svc.Status(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts.output, st)
			})
		},
	}
}
