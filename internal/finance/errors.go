package finance

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel all input validation failures wrap, so
// transport layers can map the whole family to a 400.
var ErrValidation = errors.New("finance: validation failed")

// ValidationError reports an out-of-domain pricing input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("finance: invalid %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RejectionReason codes why a payment was refused admission.
type RejectionReason string

const (
	ReasonNonPositiveAmount RejectionReason = "NON_POSITIVE_AMOUNT"
	ReasonExceedsBalance    RejectionReason = "EXCEEDS_BALANCE"
	ReasonDocumentCancelled RejectionReason = "DOCUMENT_CANCELLED"
	ReasonWrongDocumentKind RejectionReason = "WRONG_DOCUMENT_KIND"
)

// ErrPaymentRejected is the sentinel every admission failure wraps.
var ErrPaymentRejected = errors.New("finance: payment rejected")

// PaymentRejectedError carries the precise admission failure so the
// caller can render an exact message.
type PaymentRejectedError struct {
	Reason RejectionReason
	Detail string
}

func (e *PaymentRejectedError) Error() string {
	return fmt.Sprintf("finance: payment rejected (%s): %s", e.Reason, e.Detail)
}

func (e *PaymentRejectedError) Unwrap() error { return ErrPaymentRejected }

// RejectionReasonOf extracts the reason code from an admission error,
// or "" when err is not a payment rejection.
func RejectionReasonOf(err error) RejectionReason {
	var pr *PaymentRejectedError
	if errors.As(err, &pr) {
		return pr.Reason
	}
	return ""
}
