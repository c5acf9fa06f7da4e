package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
	"github.com/IgorGrieder/linkly-connector/internal/linkly"
	"github.com/IgorGrieder/linkly-connector/pkg/httputils"
	"go.uber.org/zap"
)

// CredentialChecker tests cred against Linkly, or the server's own
// credential when cred is nil.
type CredentialChecker func(ctx context.Context, cred *linkly.Credential) error

type CredentialsHandler struct {
	check CredentialChecker
	log   *zap.Logger
}

func NewCredentialsHandler(check CredentialChecker, log *zap.Logger) *CredentialsHandler {
	return &CredentialsHandler{check: check, log: log}
}

type credentialsTestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Test accepts an optional {api_key, workspace_id} body.
func (h *CredentialsHandler) Test(w http.ResponseWriter, r *http.Request) {
	var cred *linkly.Credential

	var req linkly.Credential
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	default:
		if err := req.Validate(); err != nil {
			httputils.WriteAPIErrorMessage(w, r, constants.ErrInvalidRequestBody, err.Error())
			return
		}
		cred = &req
	}

	if err := h.check(r.Context(), cred); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessCredentialsValid, credentialsTestResponse{
		Status:  "OK",
		Message: "Connection successful",
	})
}
