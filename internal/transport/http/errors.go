package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
	"github.com/IgorGrieder/linkly-connector/internal/linkly"
	"github.com/IgorGrieder/linkly-connector/internal/processing/clicks"
	"github.com/IgorGrieder/linkly-connector/internal/processing/links"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/IgorGrieder/linkly-connector/pkg/httputils"
	"go.uber.org/zap"
)

// writeServiceError maps domain and gateway errors onto API errors.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var upstream *linkly.APIError
	switch {
	case errors.Is(err, links.ErrInvalidLinkID):
		httputils.WriteAPIError(w, r, constants.ErrInvalidLinkID)
	case errors.Is(err, links.ErrUnknownOperation), errors.Is(err, links.ErrUnknownResource):
		httputils.WriteAPIErrorMessage(w, r, constants.ErrUnknownOperation, err.Error())
	case errors.Is(err, trigger.ErrNodeNotFound):
		httputils.WriteAPIError(w, r, constants.ErrNodeNotFound)
	case errors.Is(err, trigger.ErrSubscriptionNotCreated), errors.Is(err, trigger.ErrSubscriptionNotDeleted):
		httputils.WriteAPIErrorMessage(w, r, constants.ErrSubscriptionFailed, err.Error())
	case errors.Is(err, clicks.ErrInvalidRange):
		httputils.WriteAPIErrorMessage(w, r, constants.ErrInvalidRequestBody, "from must not be after to")
	case linkly.IsNotFound(err):
		httputils.WriteAPIError(w, r, constants.ErrLinkNotFound)
	case linkly.IsAuthError(err):
		httputils.WriteAPIErrorMessage(w, r, constants.ErrInvalidCredentials, err.Error())
	case linkly.IsRateLimited(err):
		httputils.WriteAPIErrorMessage(w, r, constants.ErrRateLimited, err.Error())
	case errors.As(err, &upstream):
		log.Warn("linkly request failed", zap.Error(err))
		httputils.WriteAPIErrorMessage(w, r, constants.ErrUpstream, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		httputils.WriteAPIErrorMessage(w, r, constants.ErrUpstream, "linkly request timed out")
	default:
		log.Error("request failed", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
	}
}
