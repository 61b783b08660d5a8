package application_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want application.ErrorCategory
	}{
		{"deadline", context.DeadlineExceeded, application.CategoryTransient},
		{"gateway auth", fmt.Errorf("token: %w", application.ErrGatewayAuth), application.CategoryInfrastructure},
		{"retry limit", domain.NewRetryLimitExceededError("OKPUJA_A", 3), application.CategoryBusinessRule},
		{"not found", domain.NewOrderNotFoundError("OKPUJA_A"), application.CategoryClientError},
		{"incomplete booking", domain.NewBookingDataIncompleteError([]string{"birth_time"}), application.CategoryClientError},
		{"rate limited", &application.GatewayError{Code: "TOO_MANY_REQUESTS", StatusCode: http.StatusTooManyRequests}, application.CategoryTransient},
		{"gateway 5xx", &application.GatewayError{StatusCode: http.StatusBadGateway}, application.CategoryTransient},
		{"gateway 4xx", &application.GatewayError{Code: "BAD_REQUEST", StatusCode: http.StatusBadRequest}, application.CategoryPermanent},
		{"unknown", errors.New("boom"), application.CategoryTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.CategorizeError(tt.err))
		})
	}
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, application.ToHTTPStatus(domain.NewOrderNotFoundError("x")))
	assert.Equal(t, http.StatusConflict, application.ToHTTPStatus(domain.NewOrderExpiredError("x")))
	assert.Equal(t, http.StatusBadRequest, application.ToHTTPStatus(domain.NewInvalidAmountError(0)))
	assert.Equal(t, http.StatusBadGateway, application.ToHTTPStatus(application.ErrGatewayAuth))
	assert.Equal(t, http.StatusForbidden, application.ToHTTPStatus(application.NewForbiddenError("staff only")))
	assert.Equal(t, http.StatusInternalServerError, application.ToHTTPStatus(errors.New("boom")))
}

func TestToErrorCode(t *testing.T) {
	assert.Equal(t, domain.ErrCodeOrderNotFound, application.ToErrorCode(domain.NewOrderNotFoundError("x")))
	assert.Equal(t, domain.ErrCodeRetryLimitExceeded, application.ToErrorCode(fmt.Errorf("wrap: %w", domain.NewRetryLimitExceededError("x", 3))))
	assert.Equal(t, application.ErrCodeGatewayAuth, application.ToErrorCode(application.ErrGatewayAuth))
	assert.Equal(t, "BAD_REQUEST", application.ToErrorCode(&application.GatewayError{Code: "bad_request", StatusCode: 400}))
	assert.Equal(t, application.ErrCodeInternal, application.ToErrorCode(errors.New("boom")))
}
