package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so the sentinels below
// work with errors.Is regardless of the message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

const (
	ErrCodeInvalidTransition       = "INVALID_TRANSITION"
	ErrCodeInvalidAmount           = "INVALID_AMOUNT"
	ErrCodeMissingRequiredField    = "MISSING_REQUIRED_FIELD"
	ErrCodeOrderNotFound           = "ORDER_NOT_FOUND"
	ErrCodeOrderExpired            = "ORDER_EXPIRED"
	ErrCodeRetryLimitExceeded      = "RETRY_LIMIT_EXCEEDED"
	ErrCodeBookingDataIncomplete   = "BOOKING_DATA_INCOMPLETE"
	ErrCodeMaterializationConflict = "MATERIALIZATION_CONFLICT"
	ErrCodeRefundNotAllowed        = "REFUND_NOT_ALLOWED"
	ErrCodeRefundNotFound          = "REFUND_NOT_FOUND"
	ErrCodeCartNotFound            = "CART_NOT_FOUND"
	ErrCodeInvalidBookingData      = "INVALID_BOOKING_DATA"
	ErrCodeBookingNotFound         = "BOOKING_NOT_FOUND"
	ErrCodeUserNotFound            = "USER_NOT_FOUND"
	ErrCodeServiceNotFound         = "SERVICE_NOT_FOUND"
	ErrCodeCartNotPayable          = "CART_NOT_PAYABLE"
	ErrCodeBookingMismatch         = "BOOKING_MISMATCH"
)

var (
	ErrInvalidTransition       = &DomainError{Code: ErrCodeInvalidTransition, Message: "invalid status transition"}
	ErrInvalidAmount           = &DomainError{Code: ErrCodeInvalidAmount, Message: "invalid amount"}
	ErrMissingRequiredField    = &DomainError{Code: ErrCodeMissingRequiredField, Message: "missing required field"}
	ErrOrderNotFound           = &DomainError{Code: ErrCodeOrderNotFound, Message: "payment order not found"}
	ErrOrderExpired            = &DomainError{Code: ErrCodeOrderExpired, Message: "payment order has expired"}
	ErrRetryLimitExceeded      = &DomainError{Code: ErrCodeRetryLimitExceeded, Message: "retry limit exceeded"}
	ErrBookingDataIncomplete   = &DomainError{Code: ErrCodeBookingDataIncomplete, Message: "booking data incomplete"}
	ErrMaterializationConflict = &DomainError{Code: ErrCodeMaterializationConflict, Message: "booking already materialized"}
	ErrRefundNotAllowed        = &DomainError{Code: ErrCodeRefundNotAllowed, Message: "refund not allowed"}
	ErrRefundNotFound          = &DomainError{Code: ErrCodeRefundNotFound, Message: "refund not found"}
	ErrCartNotFound            = &DomainError{Code: ErrCodeCartNotFound, Message: "cart not found"}
	ErrInvalidBookingData      = &DomainError{Code: ErrCodeInvalidBookingData, Message: "invalid booking data"}
	ErrBookingNotFound         = &DomainError{Code: ErrCodeBookingNotFound, Message: "booking not found"}
	ErrUserNotFound            = &DomainError{Code: ErrCodeUserNotFound, Message: "user not found"}
	ErrServiceNotFound         = &DomainError{Code: ErrCodeServiceNotFound, Message: "astrology service not found"}
	ErrCartNotPayable          = &DomainError{Code: ErrCodeCartNotPayable, Message: "cart cannot be paid for"}
	ErrBookingMismatch         = &DomainError{Code: ErrCodeBookingMismatch, Message: "payment does not match its booking target"}
)

func NewInvalidTransitionError(from, to OrderStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewInvalidAmountError(amount int64) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %d: must be a positive number of paisa", amount),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewOrderNotFoundError(merchantOrderID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeOrderNotFound,
		Message: fmt.Sprintf("payment order %s not found", merchantOrderID),
	}
}

func NewOrderExpiredError(merchantOrderID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeOrderExpired,
		Message: fmt.Sprintf("payment order %s has expired", merchantOrderID),
	}
}

func NewRetryLimitExceededError(merchantOrderID string, attempts int) *DomainError {
	return &DomainError{
		Code:    ErrCodeRetryLimitExceeded,
		Message: fmt.Sprintf("payment order %s already used %d retry attempts", merchantOrderID, attempts),
	}
}

func NewBookingDataIncompleteError(missing []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeBookingDataIncomplete,
		Message: fmt.Sprintf("booking metadata missing required fields: %s", strings.Join(missing, ", ")),
	}
}

func NewInvalidBookingDataError(field string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidBookingData,
		Message: fmt.Sprintf("booking field %s is malformed", field),
		Err:     err,
	}
}

func NewRefundNotAllowedError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeRefundNotAllowed,
		Message: reason,
	}
}

func NewCartNotFoundError(cartID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCartNotFound,
		Message: fmt.Sprintf("cart %s not found", cartID),
	}
}

func NewUserNotFoundError(userID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUserNotFound,
		Message: fmt.Sprintf("user %s not found", userID),
	}
}

func NewServiceNotFoundError(serviceID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeServiceNotFound,
		Message: fmt.Sprintf("astrology service %s not found or inactive", serviceID),
	}
}

func NewCartNotPayableError(cartID, reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCartNotPayable,
		Message: fmt.Sprintf("cart %s cannot be paid for: %s", cartID, reason),
	}
}

// NewBookingMismatchError reports a paid order that must not be turned into
// a booking without a human looking at it.
func NewBookingMismatchError(reason string) *DomainError {
	return &DomainError{
		Code:    ErrCodeBookingMismatch,
		Message: reason,
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
