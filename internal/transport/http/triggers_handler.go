package http

import (
	"net/http"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/IgorGrieder/linkly-connector/pkg/httputils"
	"go.uber.org/zap"
)

// TriggersHandler exposes node activation to the workflow host.
type TriggersHandler struct {
	svc *trigger.Service
	log *zap.Logger
}

func NewTriggersHandler(svc *trigger.Service, log *zap.Logger) *TriggersHandler {
	return &TriggersHandler{svc: svc, log: log}
}

type triggerResponse struct {
	trigger.Status
	Exists bool `json:"exists"`
}

func (h *TriggersHandler) List(w http.ResponseWriter, r *http.Request) {
	httputils.WriteAPISuccess(w, r, constants.SuccessTriggersListed, h.svc.Nodes())
}

// Get reports the stored state and whether Linkly still has the callback.
func (h *TriggersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("nodeID")

	status, err := h.svc.Status(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	exists, err := h.svc.Check(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessTriggerFound, triggerResponse{Status: status, Exists: exists})
}

func (h *TriggersHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("nodeID")
	if err := h.svc.Activate(r.Context(), id); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	h.writeStatus(w, r, id, constants.SuccessTriggerActivated)
}

func (h *TriggersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("nodeID")
	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	h.writeStatus(w, r, id, constants.SuccessTriggerDeactivated)
}

func (h *TriggersHandler) writeStatus(w http.ResponseWriter, r *http.Request, id string, ok constants.APISuccess) {
	status, err := h.svc.Status(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, ok, status)
}
