package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/IgorGrieder/linkly-connector/pkg/httputils"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

// WebhookHandler is the public intake Linkly posts clicks to. It answers
// before the click is emitted.
type WebhookHandler struct {
	svc         *trigger.Service
	emitTimeout time.Duration
	log         *zap.Logger

	pending sync.WaitGroup
}

func NewWebhookHandler(svc *trigger.Service, emitTimeout time.Duration, log *zap.Logger) *WebhookHandler {
	if emitTimeout <= 0 {
		emitTimeout = 5 * time.Second
	}
	return &WebhookHandler{svc: svc, emitTimeout: emitTimeout, log: log}
}

type webhookResponse struct {
	Message string `json:"message"`
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	nodeID := r.PathValue("nodeID")
	if _, err := h.svc.Node(nodeID); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrNodeNotFound)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	payload, err := trigger.DecodePayload(body)
	if err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}

	httputils.RespondJSON(w, http.StatusOK, webhookResponse{Message: constants.MsgWorkflowWasStarted})

	// Keeps request values (trace span) but outlives the response.
	ctx := context.WithoutCancel(r.Context())
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, h.emitTimeout)
		defer cancel()

		click, err := h.svc.Receive(ctx, nodeID, payload)
		if err != nil {
			h.log.Warn("failed to emit click",
				zap.String("node", nodeID),
				zap.String("click_id", click.ID),
				zap.Error(err),
			)
		}
	}()
}

// Drain waits for in-flight emissions or until ctx is done.
func (h *WebhookHandler) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("webhook emissions still pending"), ctx.Err())
	}
}
