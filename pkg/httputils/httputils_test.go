package httputils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
)

func TestWriteAPIErrorKeepsCorrelationID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationIDHeader, "corr-1")
	rr := httptest.NewRecorder()

	WriteAPIErrorMessage(rr, req, constants.ErrUpstream, "linkly said no")

	if rr.Code != constants.ErrUpstream.Status {
		t.Fatalf("expected %d, got %d", constants.ErrUpstream.Status, rr.Code)
	}
	if got := rr.Header().Get(CorrelationIDHeader); got != "corr-1" {
		t.Fatalf("expected correlation id echoed, got %q", got)
	}

	var body APIResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != constants.ErrUpstream.Code || body.Message != "linkly said no" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestWriteAPISuccessGeneratesCorrelationID(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAPISuccess(rr, httptest.NewRequest(http.MethodGet, "/", nil), constants.SuccessLinkFound, map[string]any{"id": 1})

	if rr.Header().Get(CorrelationIDHeader) == "" {
		t.Fatalf("expected a generated correlation id")
	}
	var body APIResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != constants.SuccessLinkFound.Code {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestRespondJSONWritesRawBody(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondJSON(rr, http.StatusOK, map[string]string{"message": "Workflow was started"})

	if got := rr.Body.String(); got != "{\"message\":\"Workflow was started\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}
