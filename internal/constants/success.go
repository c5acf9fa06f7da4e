package constants

import "net/http"

// APISuccess represents a standardized API success response with code and HTTP status.
// Use these predefined success constants for consistent API responses across the application.
type APISuccess struct {
	Code   string
	Status int
}

// Link-related success responses
var (
	SuccessLinkCreated = APISuccess{
		Code:   CodeLinkCreated,
		Status: http.StatusCreated,
	}
	SuccessLinkFound = APISuccess{
		Code:   CodeLinkFound,
		Status: http.StatusOK,
	}
	SuccessLinksListed = APISuccess{
		Code:   CodeLinksListed,
		Status: http.StatusOK,
	}
	SuccessLinkUpdated = APISuccess{
		Code:   CodeLinkUpdated,
		Status: http.StatusOK,
	}
	SuccessLinkDeleted = APISuccess{
		Code:   CodeLinkDeleted,
		Status: http.StatusOK,
	}
	SuccessBatchExecuted = APISuccess{
		Code:   CodeBatchExecuted,
		Status: http.StatusOK,
	}
	SuccessCredentialsValid = APISuccess{
		Code:   CodeCredentialsValid,
		Status: http.StatusOK,
	}
)

// Trigger-related success responses
var (
	SuccessTriggerActivated = APISuccess{
		Code:   CodeTriggerActivated,
		Status: http.StatusOK,
	}
	SuccessTriggerDeactivated = APISuccess{
		Code:   CodeTriggerDeactivated,
		Status: http.StatusOK,
	}
	SuccessTriggerFound = APISuccess{
		Code:   CodeTriggerFound,
		Status: http.StatusOK,
	}
	SuccessTriggersListed = APISuccess{
		Code:   CodeTriggersListed,
		Status: http.StatusOK,
	}
)

// Click stats success responses
var (
	SuccessClickStatsFound = APISuccess{
		Code:   CodeClickStatsFound,
		Status: http.StatusOK,
	}
)
