package errors

import (
	"fmt"
	"time"
)

// ErrorCode identifies an application error class.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeConflict   ErrorCode = "CONFLICT"

	// Wallet errors
	ErrCodeWalletNotConnected ErrorCode = "WALLET_NOT_CONNECTED"
	ErrCodeNoSignerAvailable  ErrorCode = "NO_SIGNER_AVAILABLE"
	ErrCodeNoAccountInSession ErrorCode = "NO_ACCOUNT_IN_SESSION"
	ErrCodeRelayUnavailable   ErrorCode = "RELAY_UNAVAILABLE"
	ErrCodeAccountNotFound    ErrorCode = "ACCOUNT_NOT_FOUND"

	// Mint protocol errors
	ErrCodePrecondition   ErrorCode = "PRECONDITION_FAILED"
	ErrCodePricingNotSet  ErrorCode = "PRICING_NOT_READY"
	ErrCodePaymentFailed  ErrorCode = "PAYMENT_FAILED"
	ErrCodeReconciliation ErrorCode = "RECONCILIATION_FAILED"

	// External collaborators
	ErrCodeMintAPI    ErrorCode = "MINT_API_ERROR"
	ErrCodeMirrorNode ErrorCode = "MIRROR_NODE_ERROR"
	ErrCodeCacheError ErrorCode = "CACHE_ERROR"
)

// AppError is the typed error crossing the HTTP boundary.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsPrecondition reports whether the error was detected before any ledger
// interaction and is safe to retry immediately.
func (e *AppError) IsPrecondition() bool {
	switch e.Code {
	case ErrCodePrecondition, ErrCodePricingNotSet, ErrCodeWalletNotConnected, ErrCodeValidation:
		return true
	}
	return false
}

// IsReconciliation reports whether a payment went through without a
// confirmed mint. These must stay visible together with the transaction id.
func (e *AppError) IsReconciliation() bool {
	return e.Code == ErrCodeReconciliation
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewPreconditionError reports a failed mint precondition check.
func NewPreconditionError(check, reason string) *AppError {
	return New(ErrCodePrecondition, fmt.Sprintf("Precondition failed (%s): %s", check, reason)).
		WithDetail("check", check)
}

// NewReconciliationError reports a payment that was sent without a confirmed
// mint. The transaction id is attached so the user can report or retry it.
func NewReconciliationError(transactionID, reason string) *AppError {
	return New(ErrCodeReconciliation, fmt.Sprintf("Payment sent but mint not confirmed: %s", reason)).
		WithDetail("transaction_id", transactionID)
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
