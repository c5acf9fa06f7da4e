package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/constants"
	appvalidation "github.com/IgorGrieder/linkly-connector/internal/infrastructure/validation"
	"github.com/IgorGrieder/linkly-connector/internal/processing/clicks"
	"github.com/IgorGrieder/linkly-connector/internal/processing/links"
	"github.com/IgorGrieder/linkly-connector/pkg/httputils"
	"go.uber.org/zap"
)

type LinksHandler struct {
	svc    *links.Service
	clicks *clicks.Service
	log    *zap.Logger
}

// NewLinksHandler serves the link API. clickSvc may be nil when no click
// stats store is configured.
func NewLinksHandler(svc *links.Service, clickSvc *clicks.Service, log *zap.Logger) *LinksHandler {
	return &LinksHandler{svc: svc, clicks: clickSvc, log: log}
}

type createLinkRequest struct {
	URL              string         `json:"url" validate:"notblank"`
	AdditionalFields map[string]any `json:"additionalFields,omitempty"`
}

type executeRequest struct {
	Resource       string         `json:"resource" validate:"notblank"`
	Operation      string         `json:"operation" validate:"notblank"`
	ContinueOnFail bool           `json:"continueOnFail"`
	Items          []links.Params `json:"items" validate:"required,min=1"`
}

type clickStatsResponse struct {
	LinkID int64               `json:"linkId"`
	From   string              `json:"from"`
	To     string              `json:"to"`
	Daily  []clicks.DailyCount `json:"daily"`
}

type clickStatsQuery struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

func (h *LinksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		httputils.WriteAPIErrorMessage(w, r, constants.ErrInvalidRequestBody, "url is required")
		return
	}

	link, err := h.svc.Create(r.Context(), req.URL, req.AdditionalFields)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessLinkCreated, link)
}

func (h *LinksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := links.ParseLinkID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	link, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessLinkFound, link)
}

func (h *LinksHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessLinksListed, items)
}

func (h *LinksHandler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessLinksListed, opts)
}

// Update takes the fields to change as the request body.
func (h *LinksHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := links.ParseLinkID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || fields == nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}

	link, err := h.svc.Update(r.Context(), id, fields)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessLinkUpdated, link)
}

func (h *LinksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := links.ParseLinkID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	res, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessLinkDeleted, res)
}

// Execute runs a batch of link operations, one per item.
func (h *LinksHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		field, _ := appvalidation.FirstInvalidField(err)
		httputils.WriteAPIErrorMessage(w, r, constants.ErrInvalidRequestBody, "invalid "+field)
		return
	}

	out, err := h.svc.Execute(r.Context(), req.Resource, req.Operation, req.Items, req.ContinueOnFail)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessBatchExecuted, out)
}

// Clicks returns zero-filled daily click counts recorded by the consumer.
func (h *LinksHandler) Clicks(w http.ResponseWriter, r *http.Request) {
	id, err := links.ParseLinkID(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	q := clickStatsQuery{From: r.URL.Query().Get("from"), To: r.URL.Query().Get("to")}
	if err := appvalidation.Validate(q); err != nil {
		httputils.WriteAPIErrorMessage(w, r, constants.ErrInvalidRequestBody, "from and to are required (YYYY-MM-DD)")
		return
	}
	from, _ := time.Parse(time.DateOnly, q.From)
	to, _ := time.Parse(time.DateOnly, q.To)

	daily, err := h.clicks.DailyStats(r.Context(), id, from, to)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessClickStatsFound, clickStatsResponse{
		LinkID: id,
		From:   q.From,
		To:     q.To,
		Daily:  daily,
	})
}
