package httpx

import (
	"errors"
	"net/http"

	"github.com/batipro-erp/batipro-erp/internal/finance"
	"github.com/batipro-erp/batipro-erp/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Payment rejections carry their reason code so API clients can render
// the exact refusal message.
func RespondError(w http.ResponseWriter, err error) {
	var rejected *finance.PaymentRejectedError
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrInvalidStatus):
		Problem(w, http.StatusConflict, "Invalid Status Transition", err.Error())
	case errors.Is(err, shared.ErrInsufficientStock):
		Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.As(err, &rejected):
		JSON(w, http.StatusUnprocessableEntity, ProblemDetail{
			Title:  "Payment Rejected",
			Status: http.StatusUnprocessableEntity,
			Detail: rejected.Detail,
			Reason: string(rejected.Reason),
		})
	case errors.Is(err, finance.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
