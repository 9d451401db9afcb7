package billing

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/batipro-erp/batipro-erp/internal/finance"
	"github.com/batipro-erp/batipro-erp/internal/platform/httpx"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func documentID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create document failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}

	var req UpdateDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	doc, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}

	detail, err := h.service.Detail(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := shared.LimitOffset(r, 50, 500)
	req := ListDocumentsRequest{Limit: limit, Offset: offset}

	q := r.URL.Query()
	if v := q.Get("kind"); v != "" {
		kind := finance.DocumentKind(v)
		req.Kind = &kind
	}
	if v := q.Get("status"); v != "" {
		status := finance.DocumentStatus(v)
		req.Status = &status
	}
	if v := q.Get("client_id"); v != "" {
		clientID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", "client_id must be numeric")
			return
		}
		req.ClientID = &clientID
	}
	window, err := shared.DateWindowFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	req.DateFrom = window.Start
	req.DateTo = window.End

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list documents failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"documents":  items,
		"pagination": shared.NewPagination(limit, offset, total),
	})
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}
	doc, err := h.service.ValidateInvoice(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}
	doc, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}
	doc, err := h.service.SendQuote(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) Refuse(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}
	doc, err := h.service.RefuseQuote(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

// Accept converts an accepted quote into a fresh draft invoice and
// returns the invoice.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}
	invoice, err := h.service.AcceptQuote(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}

	var req RecordPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	payment, detail, err := h.service.RecordPayment(r.Context(), id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"payment":  payment,
		"document": detail,
	})
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}
	payments, err := h.service.ListPayments(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": payments})
}

// Receivables serves the per-client outstanding balance report.
func (h *Handler) Receivables(w http.ResponseWriter, r *http.Request) {
	window, err := shared.DateWindowFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
		return
	}

	report, err := h.service.Receivables(r.Context(), window)
	if err != nil {
		h.logger.Error("receivables report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}
