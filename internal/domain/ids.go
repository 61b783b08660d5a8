package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RefundIDPrefix        = "REFUND"
	BookingCodePrefix     = "BK"
	AstroBookingPrefix    = "ASTRO_BOOK"
	OrderKindCart         = "CART"
	OrderKindAstrology    = "ASTRO"
	merchantIDSuffixChars = 12
)

func randomHex(n int) string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:n]
}

// NewMerchantOrderID builds ids like OKPUJA_CART_1A2B3C4D5E6F. kind may be empty.
func NewMerchantOrderID(prefix, kind string) string {
	parts := []string{prefix}
	if kind != "" {
		parts = append(parts, kind)
	}
	parts = append(parts, randomHex(merchantIDSuffixChars))
	return strings.Join(parts, "_")
}

func NewMerchantRefundID() string {
	return RefundIDPrefix + "_" + randomHex(merchantIDSuffixChars)
}

func NewBookingCode() string {
	return BookingCodePrefix + "-" + randomHex(8)
}

func NewAstroBookingCode(now time.Time) string {
	return AstroBookingPrefix + "_" + now.UTC().Format("20060102") + "_" + randomHex(6)
}

// MerchantOrderIDMatcher finds merchant order ids embedded in arbitrary text,
// such as gateway redirect parameters that arrive under unexpected names.
type MerchantOrderIDMatcher struct {
	re *regexp.Regexp
}

func NewMerchantOrderIDMatcher(prefix string) *MerchantOrderIDMatcher {
	return &MerchantOrderIDMatcher{
		re: regexp.MustCompile(regexp.QuoteMeta(strings.ToUpper(prefix)) + `_[A-Z0-9_]+`),
	}
}

func (m *MerchantOrderIDMatcher) Find(value string) (string, bool) {
	found := m.re.FindString(value)
	return found, found != ""
}
