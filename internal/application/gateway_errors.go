package application

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrGatewayAuth means the OAuth credential exchange failed. The current
// operation cannot continue without a token.
var ErrGatewayAuth = errors.New("gateway authentication failed")

// GatewayError is a non-2xx answer from the gateway.
type GatewayError struct {
	Code       string
	Message    string
	StatusCode int
}

type GatewayErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func (e *GatewayError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.IsRateLimited()
}

func (e *GatewayError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}
