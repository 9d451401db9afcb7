package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/batipro-erp/batipro-erp/internal/platform/httpx"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

// Handler serves PDF endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/ping", h.ping)
	r.Get("/documents/{id}/pdf", h.documentPDF)
	r.Get("/reports/receivables/pdf", h.receivablesPDF)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.service.gotenberg.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Renderer Unavailable", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) documentPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "document id must be numeric")
		return
	}

	pdf, filename, err := h.service.DocumentPDF(r.Context(), id)
	if err != nil {
		h.logger.Error("render document pdf", slog.Int64("document_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	servePDF(w, pdf, filename)
}

func (h *Handler) receivablesPDF(w http.ResponseWriter, r *http.Request) {
	window, err := shared.DateWindowFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Window", err.Error())
		return
	}

	pdf, err := h.service.ReceivablesPDF(r.Context(), window)
	if err != nil {
		h.logger.Error("render receivables pdf", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	servePDF(w, pdf, "creances.pdf")
}

func servePDF(w http.ResponseWriter, pdf []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
