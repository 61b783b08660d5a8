package domain

import (
	"encoding/json"
	"slices"
	"time"
)

type RefundStatus string

const (
	RefundProcessing RefundStatus = "PROCESSING"
	RefundSuccess    RefundStatus = "SUCCESS"
	RefundFailed     RefundStatus = "FAILED"
)

type Refund struct {
	ID               string
	PaymentOrderID   string
	MerchantRefundID string
	Amount           int64
	Reason           string
	Status           RefundStatus
	GatewayRefundID  *string
	GatewayResponse  json.RawMessage
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// NewRefund validates a refund request against the paid order. alreadyRefunded
// is the sum of refunds that have not failed.
func NewRefund(id string, order *PaymentOrder, amount, alreadyRefunded int64, reason string, now time.Time) (*Refund, error) {
	if order.Status != StatusSuccess {
		return nil, NewRefundNotAllowedError("refunds are only allowed for successful payments")
	}
	if amount <= 0 {
		return nil, NewInvalidAmountError(amount)
	}
	if amount > order.Amount {
		return nil, NewRefundNotAllowedError("refund amount exceeds payment amount")
	}
	if alreadyRefunded+amount > order.Amount {
		return nil, NewRefundNotAllowedError("refund amount exceeds the remaining refundable balance")
	}

	now = NormalizeTimestamp(now)
	return &Refund{
		ID:               id,
		PaymentOrderID:   order.ID,
		MerchantRefundID: NewMerchantRefundID(),
		Amount:           amount,
		Reason:           reason,
		Status:           RefundProcessing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (r *Refund) Succeed(gatewayRefundID string, completedAt time.Time, raw json.RawMessage) error {
	if err := r.transition(RefundSuccess); err != nil {
		return err
	}
	if gatewayRefundID != "" {
		r.GatewayRefundID = &gatewayRefundID
	}
	completedAt = NormalizeTimestamp(completedAt)
	r.CompletedAt = &completedAt
	r.GatewayResponse = raw
	return nil
}

func (r *Refund) Fail(raw json.RawMessage) error {
	if err := r.transition(RefundFailed); err != nil {
		return err
	}
	r.GatewayResponse = raw
	return nil
}

func (r *Refund) IsTerminal() bool {
	return r.Status == RefundSuccess || r.Status == RefundFailed
}

func (r *Refund) transition(target RefundStatus) error {
	if r.Status == RefundProcessing && slices.Contains([]RefundStatus{RefundSuccess, RefundFailed}, target) {
		r.Status = target
		return nil
	}
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: "cannot transition refund from " + string(r.Status) + " to " + string(target),
	}
}
