package phonepe_test

import (
	"errors"
	"testing"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/phonepe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWebhookAuthorization(t *testing.T) {
	// sha256("hook:pass")
	valid := phonepe.WebhookAuthorization("hook", "pass")
	assert.Len(t, valid, 64)

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"exact hash", valid, true},
		{"scheme prefix", "SHA256 " + valid, true},
		{"wrong hash", phonepe.WebhookAuthorization("hook", "other"), false},
		{"empty", "", false},
		{"raw credentials", "hook:pass", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phonepe.VerifyWebhookAuthorization(tt.header, "hook", "pass"))
		})
	}
}

func TestParseWebhook_OrderCompleted(t *testing.T) {
	body := []byte(`{
		"event": "checkout.order.completed",
		"payload": {
			"merchantOrderId": "OKPUJA_CART_ABC",
			"orderId": "OMO1",
			"state": "COMPLETED",
			"amount": 50000,
			"paymentDetails": [{"transactionId": "T1", "state": "COMPLETED"}]
		}
	}`)

	event, err := phonepe.ParseWebhook(body)
	require.NoError(t, err)
	assert.True(t, event.IsOrderEvent())

	status := event.OrderStatus()
	assert.Equal(t, "OKPUJA_CART_ABC", status.MerchantOrderID)
	assert.Equal(t, application.GatewayCompleted, status.State)
	assert.Equal(t, "T1", status.TransactionID)
}

func TestParseWebhook_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"empty body", "", phonepe.ErrEmptyWebhook},
		{"whitespace body", "   ", phonepe.ErrEmptyWebhook},
		{"malformed json", "{not json", phonepe.ErrMalformedWebhook},
		{"missing event", `{"payload":{}}`, phonepe.ErrMalformedWebhook},
		{"order event without id", `{"event":"checkout.order.failed","payload":{"state":"FAILED"}}`, phonepe.ErrMalformedWebhook},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := phonepe.ParseWebhook([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestWebhookEvent_RefundStatus(t *testing.T) {
	event, err := phonepe.ParseWebhook([]byte(`{"event":"pg.refund.accepted","payload":{"merchantRefundId":"REFUND_1","refundId":"R1","state":"CONFIRMED"}}`))
	require.NoError(t, err)
	assert.True(t, event.IsRefundEvent())
	assert.Equal(t, application.GatewayPending, event.RefundStatus().State)

	event, err = phonepe.ParseWebhook([]byte(`{"event":"pg.refund.completed","payload":{"merchantRefundId":"REFUND_1","state":"COMPLETED"}}`))
	require.NoError(t, err)
	assert.Equal(t, application.GatewayCompleted, event.RefundStatus().State)
}
