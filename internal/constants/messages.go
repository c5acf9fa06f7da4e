package constants

// Error messages used in API responses.
// These are the human-readable messages returned in the "message" field.
const (
	// Common messages
	MsgInvalidRequestBody = "Invalid request body"
	MsgInternalError      = "An internal error occurred"
	MsgUnauthorized       = "Unauthorized"
	MsgRateLimited        = "Too many requests"

	// Linkly-specific messages
	MsgInvalidURL         = "Invalid URL (must be http or https)"
	MsgInvalidLinkID      = "Link id must be a positive integer"
	MsgLinkNotFound       = "Link not found"
	MsgNodeNotFound       = "Trigger node not found"
	MsgUpstreamError      = "Linkly API request failed"
	MsgInvalidCredentials = "Linkly rejected the credentials"
	MsgSubscriptionFailed = "Webhook subscription could not be changed"
	MsgUnknownOperation   = "Unknown resource or operation"
	MsgWorkflowWasStarted = "Workflow was started"
)
