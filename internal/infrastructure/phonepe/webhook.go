package phonepe

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
)

const (
	EventOrderCompleted = "checkout.order.completed"
	EventOrderFailed    = "checkout.order.failed"
	EventRefundAccepted = "pg.refund.accepted"
	EventRefundComplete = "pg.refund.completed"
	EventRefundFailed   = "pg.refund.failed"
)

var (
	ErrEmptyWebhook     = errors.New("empty webhook body")
	ErrMalformedWebhook = errors.New("malformed webhook body")
)

// WebhookAuthorization is the value PhonePe sends in the Authorization header:
// the hex SHA-256 of "username:password".
func WebhookAuthorization(username, password string) string {
	sum := sha256.Sum256([]byte(username + ":" + password))
	return hex.EncodeToString(sum[:])
}

// VerifyWebhookAuthorization compares the header in constant time. A leading
// "SHA256 " scheme marker is tolerated.
func VerifyWebhookAuthorization(header, username, password string) bool {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "SHA256 ") {
		header = strings.TrimSpace(header[7:])
	}
	if header == "" {
		return false
	}
	expected := WebhookAuthorization(username, password)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(header)), []byte(expected)) == 1
}

type WebhookPayload struct {
	MerchantOrderID         string          `json:"merchantOrderId"`
	OriginalMerchantOrderID string          `json:"originalMerchantOrderId"`
	MerchantRefundID        string          `json:"merchantRefundId"`
	OrderID                 string          `json:"orderId"`
	RefundID                string          `json:"refundId"`
	State                   string          `json:"state"`
	Amount                  int64           `json:"amount"`
	PaymentDetails          []paymentDetail `json:"paymentDetails"`
}

type WebhookEvent struct {
	Event   string          `json:"event"`
	Payload WebhookPayload  `json:"payload"`
	Raw     json.RawMessage `json:"-"`
}

func (e *WebhookEvent) IsOrderEvent() bool {
	return e.Event == EventOrderCompleted || e.Event == EventOrderFailed
}

func (e *WebhookEvent) IsRefundEvent() bool {
	return strings.HasPrefix(e.Event, "pg.refund.")
}

// OrderStatus converts an order event into the shape a status check returns.
func (e *WebhookEvent) OrderStatus() *application.GatewayStatus {
	state := application.NormalizeGatewayState(e.Payload.State)
	switch e.Event {
	case EventOrderCompleted:
		if state == application.GatewayPending {
			state = application.GatewayCompleted
		}
	case EventOrderFailed:
		state = application.GatewayFailed
	}
	return &application.GatewayStatus{
		MerchantOrderID: e.Payload.MerchantOrderID,
		GatewayOrderID:  e.Payload.OrderID,
		State:           state,
		TransactionID:   transactionID(e.Payload.PaymentDetails),
		CompletedAt:     completedAt(e.Payload.PaymentDetails),
		Amount:          e.Payload.Amount,
		Raw:             e.Raw,
	}
}

// RefundStatus maps refund events. An accepted refund is still in flight.
func (e *WebhookEvent) RefundStatus() *application.GatewayRefundStatus {
	state := application.GatewayPending
	switch e.Event {
	case EventRefundComplete:
		state = application.GatewayCompleted
	case EventRefundFailed:
		state = application.GatewayFailed
	}
	return &application.GatewayRefundStatus{
		MerchantRefundID: e.Payload.MerchantRefundID,
		GatewayRefundID:  e.Payload.RefundID,
		State:            state,
		Amount:           e.Payload.Amount,
		Raw:              e.Raw,
	}
}

func ParseWebhook(body []byte) (*WebhookEvent, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmptyWebhook
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if event.Event == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedWebhook)
	}
	if event.IsOrderEvent() && event.Payload.MerchantOrderID == "" {
		return nil, fmt.Errorf("%w: missing merchantOrderId", ErrMalformedWebhook)
	}
	if event.IsRefundEvent() && event.Payload.MerchantRefundID == "" {
		return nil, fmt.Errorf("%w: missing merchantRefundId", ErrMalformedWebhook)
	}
	event.Raw = json.RawMessage(body)
	return &event, nil
}
