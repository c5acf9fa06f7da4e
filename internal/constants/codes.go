package constants

// Error codes used in API responses.
// These are the machine-readable codes returned in the "error" field.
const (
	// Common error codes
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeRateLimited    = "RATE_LIMITED"

	// Linkly-specific codes
	CodeInvalidURL         = "INVALID_URL"
	CodeInvalidLinkID      = "INVALID_LINK_ID"
	CodeLinkNotFound       = "LINK_NOT_FOUND"
	CodeNodeNotFound       = "NODE_NOT_FOUND"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeSubscriptionFailed = "SUBSCRIPTION_FAILED"
	CodeUnknownOperation   = "UNKNOWN_OPERATION"

	// Success codes
	CodeLinkCreated        = "LINK_CREATED"
	CodeLinkFound          = "LINK_FOUND"
	CodeLinksListed        = "LINKS_LISTED"
	CodeLinkUpdated        = "LINK_UPDATED"
	CodeLinkDeleted        = "LINK_DELETED"
	CodeBatchExecuted      = "BATCH_EXECUTED"
	CodeCredentialsValid   = "CREDENTIALS_VALID"
	CodeTriggerActivated   = "TRIGGER_ACTIVATED"
	CodeTriggerDeactivated = "TRIGGER_DEACTIVATED"
	CodeTriggerFound       = "TRIGGER_FOUND"
	CodeTriggersListed     = "TRIGGERS_LISTED"
	CodeClickStatsFound    = "CLICK_STATS_FOUND"
)
