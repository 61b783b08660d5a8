package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"

	"github.com/shopspring/decimal"
)

// Paisa is an amount in minor units of INR.
type Paisa int64

// Rupees converts to major units for display.
func (p Paisa) Rupees() decimal.Decimal {
	return decimal.New(int64(p), -2)
}

// Metadata keys written at checkout time and read back during materialization.
const (
	MetaBookingType         = "booking_type"
	MetaCartID              = "cart_id"
	MetaFrontendRedirectURL = "frontend_redirect_url"

	BookingTypeAstrology = "astrology"
)

// Metadata is the opaque JSON blob stored with a payment order.
type Metadata map[string]any

// String reads a key as text, accepting the numeric ids JSON decoding produces.
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func (m Metadata) BookingType() string {
	return m.String(MetaBookingType)
}

// With returns a copy of m with key set.
func (m Metadata) With(key string, value any) Metadata {
	out := make(Metadata, len(m)+1)
	maps.Copy(out, m)
	out[key] = value
	return out
}
