// Package bootstrap builds the shared runtime pieces from configuration:
// the Linkly gateway, trigger nodes and the node state backend.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/IgorGrieder/linkly-connector/internal/config"
	"github.com/IgorGrieder/linkly-connector/internal/linkly"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/IgorGrieder/linkly-connector/pkg/httpclient"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Credential returns the configured workspace credential.
func Credential(cfg config.LinklyConfig) linkly.Credential {
	return linkly.Credential{APIKey: cfg.APIKey, WorkspaceID: cfg.WorkspaceID}
}

// LinklyClient builds a gateway for cred using the configured base URL,
// timeout and circuit breaker.
func LinklyClient(cfg config.LinklyConfig, cred linkly.Credential) (*linkly.Client, error) {
	doer := httpclient.NewClient(cfg.Timeout,
		httpclient.WithCircuitBreaker(cfg.BreakerMaxFailures, cfg.BreakerResetTimeout),
		httpclient.WithTransport(otelhttp.NewTransport(http.DefaultTransport)),
	)
	client, err := linkly.NewClient(cred,
		linkly.WithBaseURL(cfg.BaseURL),
		linkly.WithHTTPClient(doer),
	)
	if err != nil {
		return nil, fmt.Errorf("build linkly client: %w", err)
	}
	return client, nil
}

// Nodes loads the trigger node file and attaches each node's callback URL.
func Nodes(cfg *config.Config) ([]trigger.Node, error) {
	defs, err := config.LoadNodes(cfg.Trigger.NodesFile)
	if err != nil {
		return nil, err
	}
	nodes := make([]trigger.Node, 0, len(defs))
	for _, d := range defs {
		nodes = append(nodes, trigger.Node{
			ID:         d.ID,
			Event:      d.Event,
			LinkID:     d.LinkID,
			WebhookURL: trigger.WebhookURL(cfg.Trigger.PublicBaseURL, d.ID),
		})
	}
	return nodes, nil
}

// CredentialChecker tests cred, or the configured credential when cred is nil.
func CredentialChecker(cfg config.LinklyConfig, configured *linkly.Client) func(context.Context, *linkly.Credential) error {
	return func(ctx context.Context, cred *linkly.Credential) error {
		if cred == nil {
			if configured == nil {
				return Credential(cfg).Validate()
			}
			return configured.TestCredentials(ctx)
		}
		client, err := LinklyClient(cfg, *cred)
		if err != nil {
			return err
		}
		return client.TestCredentials(ctx)
	}
}
