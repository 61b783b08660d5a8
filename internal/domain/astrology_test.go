package domain_test

import (
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func astrologyMetadata() domain.Metadata {
	return domain.Metadata{
		"booking_type":          "astrology",
		"service_id":            float64(7),
		"user_id":               "4f1c2b8e-7a0d-4d62-9b1e-1f2a3b4c5d6e",
		"language":              "Hindi",
		"preferred_date":        "2026-04-10",
		"preferred_time":        "11:30:00",
		"birth_place":           "Bhubaneswar",
		"birth_date":            "1990-07-21",
		"birth_time":            "05:45:00",
		"gender":                "female",
		"questions":             "Career",
		"contact_email":         "devotee@example.com",
		"contact_phone":         "9999999999",
		"frontend_redirect_url": "https://astro.example.com",
	}
}

func TestAstrologyRequestFromMetadata(t *testing.T) {
	t.Run("reads every field", func(t *testing.T) {
		req, err := domain.AstrologyRequestFromMetadata(astrologyMetadata())
		require.NoError(t, err)

		assert.Equal(t, "7", req.ServiceID)
		assert.Equal(t, "Hindi", req.Language)
		assert.Equal(t, "05:45:00", req.BirthTime)
		assert.Equal(t, "https://astro.example.com", req.FrontendRedirectURL)
	})

	t.Run("missing birth_time", func(t *testing.T) {
		m := astrologyMetadata()
		delete(m, "birth_time")

		req, err := domain.AstrologyRequestFromMetadata(m)

		assert.Nil(t, req)
		assert.ErrorIs(t, err, domain.ErrBookingDataIncomplete)
		assert.Contains(t, err.Error(), "birth_time")
	})

	t.Run("lists every missing field", func(t *testing.T) {
		m := astrologyMetadata()
		delete(m, "contact_email")
		m["language"] = "  "

		_, err := domain.AstrologyRequestFromMetadata(m)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "contact_email")
		assert.Contains(t, err.Error(), "language")
	})
}

func TestAstrologyBookingRequest_MetadataRoundTrip(t *testing.T) {
	req, err := domain.AstrologyRequestFromMetadata(astrologyMetadata())
	require.NoError(t, err)

	back, err := domain.AstrologyRequestFromMetadata(req.Metadata())
	require.NoError(t, err)

	assert.Equal(t, req, back)
	assert.Equal(t, domain.BookingTypeAstrology, req.Metadata().BookingType())
}

func TestBuildAstrologyBooking(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	txID := "T2603011000"
	order := &domain.PaymentOrder{
		ID:                   "order-1",
		MerchantOrderID:      "OKPUJA_ASTRO_ABCDEF123456",
		Amount:               110000,
		Status:               domain.StatusSuccess,
		GatewayTransactionID: &txID,
		CompletedAt:          &now,
	}

	t.Run("confirmed booking with payment audit", func(t *testing.T) {
		req, err := domain.AstrologyRequestFromMetadata(astrologyMetadata())
		require.NoError(t, err)

		booking, err := domain.BuildAstrologyBooking("b-1", req, order, now)
		require.NoError(t, err)

		assert.Equal(t, domain.BookingConfirmed, booking.Status)
		assert.Equal(t, domain.GenderFemale, booking.Gender)
		assert.Equal(t, domain.TimeOfDay{Hour: 11, Minute: 30}, booking.PreferredTime)
		assert.Equal(t, int64(110000), booking.Payment.Amount)
		assert.Equal(t, txID, booking.Payment.GatewayTransactionID)
		assert.Equal(t, &now, booking.Payment.CompletedAt)
		assert.Contains(t, booking.AstroBookID, "ASTRO_BOOK_20260301_")
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		m := astrologyMetadata()
		m["birth_date"] = "21-07-1990"
		req, err := domain.AstrologyRequestFromMetadata(m)
		require.NoError(t, err)

		_, err = domain.BuildAstrologyBooking("b-1", req, order, now)

		assert.ErrorIs(t, err, domain.ErrInvalidBookingData)
	})

	t.Run("rejects unknown gender", func(t *testing.T) {
		m := astrologyMetadata()
		m["gender"] = "unknown"
		req, err := domain.AstrologyRequestFromMetadata(m)
		require.NoError(t, err)

		_, err = domain.BuildAstrologyBooking("b-1", req, order, now)

		assert.ErrorIs(t, err, domain.ErrInvalidBookingData)
	})
}
