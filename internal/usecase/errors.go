package usecase

import "errors"

// Machine-readable reason codes returned to API clients. Every failure path
// of the commit and payment flows resolves to exactly one of these.
const (
	CodeOK                       = "OK"
	CodeAddressInvalid           = "ADDRESS_INVALID"
	CodePaymentMethodUnsupported = "PAYMENT_METHOD_UNSUPPORTED"
	CodeSKUNotFound              = "SKU_NOT_FOUND"
	CodeInsufficientStock        = "INSUFFICIENT_STOCK"
	CodeCommitConflict           = "COMMIT_CONFLICT"
	CodeCommitFailed             = "COMMIT_FAILED"
	CodeOrderNotPending          = "ORDER_NOT_PENDING"
	CodePaymentFailed            = "PAYMENT_FAILED"
)

var (
	ErrAddressInvalid           = errors.New("address does not exist or belongs to another user")
	ErrPaymentMethodUnsupported = errors.New("unsupported payment method")
	ErrSKUNotFound              = errors.New("sku not found")
	ErrInsufficientStock        = errors.New("insufficient stock")
	ErrCommitConflict           = errors.New("stock contention, retries exhausted")
	ErrCommitFailed             = errors.New("order commit failed")
	ErrOrderNotPending          = errors.New("order is not awaiting payment")
	ErrPaymentFailed            = errors.New("payment failed")
)

// ReasonCode maps an error from the order flows to its wire code.
func ReasonCode(err error) string {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrAddressInvalid):
		return CodeAddressInvalid
	case errors.Is(err, ErrPaymentMethodUnsupported):
		return CodePaymentMethodUnsupported
	case errors.Is(err, ErrSKUNotFound):
		return CodeSKUNotFound
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrCommitConflict):
		return CodeCommitConflict
	case errors.Is(err, ErrOrderNotPending):
		return CodeOrderNotPending
	case errors.Is(err, ErrPaymentFailed):
		return CodePaymentFailed
	default:
		return CodeCommitFailed
	}
}
