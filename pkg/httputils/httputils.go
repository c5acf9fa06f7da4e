package httputils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CorrelationIDHeader = "X-Correlation-Id"

// APIResponse wraps all API responses with metadata
type APIResponse struct {
	ResponseTime  time.Time `json:"responseTime" example:"2024-01-15T10:30:00Z"`
	CorrelationId string    `json:"correlationId" example:"550e8400-e29b-41d4-a716-446655440000"`
	Code          string    `json:"code,omitempty" example:"LINK_CREATED"`
	Data          any       `json:"data,omitempty"`
	Error         string    `json:"error,omitempty" example:"INVALID_REQUEST"`
	Message       string    `json:"message,omitempty" example:"Request processed successfully"`
}

// GetCorrelationID returns the request's correlation id or a fresh UUID v4.
func GetCorrelationID(r *http.Request) string {
	correlationID := r.Header.Get(CorrelationIDHeader)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	return correlationID
}

// WriteAPIError writes apiErr in the response envelope.
func WriteAPIError(w http.ResponseWriter, r *http.Request, apiErr constants.APIError) {
	WriteAPIErrorMessage(w, r, apiErr, apiErr.Message)
}

// WriteAPIErrorMessage writes apiErr with a message describing this failure.
func WriteAPIErrorMessage(w http.ResponseWriter, r *http.Request, apiErr constants.APIError, message string) {
	correlationID := GetCorrelationID(r)
	if message == "" {
		message = apiErr.Message
	}

	writeJSON(w, correlationID, apiErr.Status, APIResponse{
		ResponseTime:  time.Now().UTC(),
		CorrelationId: correlationID,
		Error:         apiErr.Code,
		Message:       message,
	})
}

// WriteAPISuccess writes data in the response envelope.
func WriteAPISuccess(w http.ResponseWriter, r *http.Request, apiSuccess constants.APISuccess, data any) {
	correlationID := GetCorrelationID(r)

	writeJSON(w, correlationID, apiSuccess.Status, APIResponse{
		ResponseTime:  time.Now().UTC(),
		CorrelationId: correlationID,
		Code:          apiSuccess.Code,
		Data:          data,
	})
}

// RespondJSON writes data as-is, without the envelope.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode json response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, correlationID string, status int, body APIResponse) {
	w.Header().Set(CorrelationIDHeader, correlationID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("failed to encode json response", zap.Error(err))
	}
}
