package postgres

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

func toDomainOrder(m PaymentOrderModel) (*domain.PaymentOrder, error) {
	metadata := domain.Metadata{}
	if len(m.Metadata) > 0 {
		dec := json.NewDecoder(bytes.NewReader(m.Metadata))
		dec.UseNumber()
		if err := dec.Decode(&metadata); err != nil {
			return nil, fmt.Errorf("decode metadata of %s: %w", m.MerchantOrderID, err)
		}
	}

	return &domain.PaymentOrder{
		ID:                   m.ID,
		MerchantOrderID:      m.MerchantOrderID,
		UserID:               m.UserID,
		CartID:               m.CartID,
		Amount:               m.Amount,
		Currency:             m.Currency,
		PaymentMethod:        m.PaymentMethod,
		Description:          m.Description,
		Status:               domain.OrderStatus(m.Status),
		Metadata:             metadata,
		CheckoutURL:          m.CheckoutURL,
		GatewayOrderID:       m.GatewayOrderID,
		GatewayTransactionID: m.GatewayTransactionID,
		GatewayResponse:      json.RawMessage(m.GatewayResponse),
		TimeoutMinutes:       m.TimeoutMinutes,
		MaxRetryAttempts:     m.MaxRetryAttempts,
		RetryCount:           m.RetryCount,
		RetriedAt:            m.RetriedAt,
		NeedsReview:          m.NeedsReview,
		ReviewReason:         m.ReviewReason,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
		ExpiresAt:            m.ExpiresAt,
		CompletedAt:          m.CompletedAt,
	}, nil
}

func toOrderModel(o *domain.PaymentOrder) (*PaymentOrderModel, error) {
	metadata := o.Metadata
	if metadata == nil {
		metadata = domain.Metadata{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata of %s: %w", o.MerchantOrderID, err)
	}

	retriedAt := o.RetriedAt
	if retriedAt == nil {
		retriedAt = []time.Time{}
	}

	return &PaymentOrderModel{
		ID:                   o.ID,
		MerchantOrderID:      o.MerchantOrderID,
		UserID:               o.UserID,
		CartID:               o.CartID,
		Amount:               o.Amount,
		Currency:             o.Currency,
		PaymentMethod:        o.PaymentMethod,
		Description:          o.Description,
		Status:               string(o.Status),
		Metadata:             metaJSON,
		CheckoutURL:          o.CheckoutURL,
		GatewayOrderID:       o.GatewayOrderID,
		GatewayTransactionID: o.GatewayTransactionID,
		GatewayResponse:      nullableJSON(o.GatewayResponse),
		TimeoutMinutes:       o.TimeoutMinutes,
		MaxRetryAttempts:     o.MaxRetryAttempts,
		RetryCount:           o.RetryCount,
		RetriedAt:            retriedAt,
		NeedsReview:          o.NeedsReview,
		ReviewReason:         o.ReviewReason,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
		ExpiresAt:            o.ExpiresAt,
		CompletedAt:          o.CompletedAt,
	}, nil
}

func toDomainRefund(m RefundModel) *domain.Refund {
	return &domain.Refund{
		ID:               m.ID,
		PaymentOrderID:   m.PaymentOrderID,
		MerchantRefundID: m.MerchantRefundID,
		Amount:           m.Amount,
		Reason:           m.Reason,
		Status:           domain.RefundStatus(m.Status),
		GatewayRefundID:  m.GatewayRefundID,
		GatewayResponse:  json.RawMessage(m.GatewayResponse),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		CompletedAt:      m.CompletedAt,
	}
}

func toDomainBooking(m BookingModel) *domain.Booking {
	return &domain.Booking{
		ID:              m.ID,
		BookID:          m.BookID,
		UserID:          m.UserID,
		CartID:          m.CartID,
		PaymentOrderID:  m.PaymentOrderID,
		MerchantOrderID: m.MerchantOrderID,
		SelectedDate:    m.SelectedDate,
		SelectedTime:    domain.TimeOfDayFromMicroseconds(m.SelectedTime.Microseconds),
		AddressID:       m.AddressID,
		Status:          domain.BookingStatus(m.Status),
		CreatedAt:       m.CreatedAt,
	}
}

func toDomainAstrologyBooking(m AstrologyBookingModel) (*domain.AstrologyBooking, error) {
	var audit domain.PaymentAudit
	if err := json.Unmarshal(m.PaymentInfo, &audit); err != nil {
		return nil, fmt.Errorf("decode payment info of %s: %w", m.AstroBookID, err)
	}
	return &domain.AstrologyBooking{
		ID:              m.ID,
		AstroBookID:     m.AstroBookID,
		PaymentOrderID:  m.PaymentOrderID,
		MerchantOrderID: m.MerchantOrderID,
		UserID:          m.UserID,
		ServiceID:       m.ServiceID,
		Language:        m.Language,
		PreferredDate:   m.PreferredDate,
		PreferredTime:   domain.TimeOfDayFromMicroseconds(m.PreferredTime.Microseconds),
		BirthPlace:      m.BirthPlace,
		BirthDate:       m.BirthDate,
		BirthTime:       domain.TimeOfDayFromMicroseconds(m.BirthTime.Microseconds),
		Gender:          domain.Gender(m.Gender),
		Questions:       m.Questions,
		ContactEmail:    m.ContactEmail,
		ContactPhone:    m.ContactPhone,
		Status:          domain.BookingStatus(m.Status),
		Payment:         audit,
		CreatedAt:       m.CreatedAt,
	}, nil
}

func pgTime(t domain.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Microseconds(), Valid: true}
}

// nullableJSON stores an absent payload as SQL NULL instead of an empty JSON value.
func nullableJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
