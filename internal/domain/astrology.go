package domain

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// AstrologyBookingRequest is the booking form captured at checkout and carried
// in the payment order metadata until the payment succeeds.
type AstrologyBookingRequest struct {
	ServiceID           string `json:"service_id" validate:"required"`
	UserID              string `json:"user_id" validate:"required"`
	Language            string `json:"language" validate:"required"`
	PreferredDate       string `json:"preferred_date" validate:"required"`
	PreferredTime       string `json:"preferred_time" validate:"required"`
	BirthPlace          string `json:"birth_place"`
	BirthDate           string `json:"birth_date" validate:"required"`
	BirthTime           string `json:"birth_time" validate:"required"`
	Gender              string `json:"gender" validate:"required"`
	Questions           string `json:"questions"`
	ContactEmail        string `json:"contact_email" validate:"required"`
	ContactPhone        string `json:"contact_phone" validate:"required"`
	FrontendRedirectURL string `json:"frontend_redirect_url"`
}

var astrologyValidator = newAstrologyValidator()

func newAstrologyValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// AstrologyRequestFromMetadata reads the booking form back out of order metadata.
// A missing required field yields a BOOKING_DATA_INCOMPLETE error naming every gap.
func AstrologyRequestFromMetadata(m Metadata) (*AstrologyBookingRequest, error) {
	req := &AstrologyBookingRequest{}
	fields := reflect.ValueOf(req).Elem()
	for i := 0; i < fields.NumField(); i++ {
		key := strings.SplitN(fields.Type().Field(i).Tag.Get("json"), ",", 2)[0]
		fields.Field(i).SetString(strings.TrimSpace(m.String(key)))
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *AstrologyBookingRequest) Validate() error {
	err := astrologyValidator.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return NewBookingDataIncompleteError(missing)
}

// Metadata flattens the request for storage on the payment order.
func (r *AstrologyBookingRequest) Metadata() Metadata {
	m := Metadata{MetaBookingType: BookingTypeAstrology}
	fields := reflect.ValueOf(r).Elem()
	for i := 0; i < fields.NumField(); i++ {
		key := strings.SplitN(fields.Type().Field(i).Tag.Get("json"), ",", 2)[0]
		if v := fields.Field(i).String(); v != "" {
			m[key] = v
		}
	}
	return m
}

// BuildAstrologyBooking turns a validated request and a paid order into a
// CONFIRMED booking. Dates must be ISO and times HH:MM[:SS].
func BuildAstrologyBooking(id string, req *AstrologyBookingRequest, order *PaymentOrder, now time.Time) (*AstrologyBooking, error) {
	preferredDate, err := ParseISODate(req.PreferredDate)
	if err != nil {
		return nil, NewInvalidBookingDataError("preferred_date", err)
	}
	preferredTime, err := ParseClockTime(req.PreferredTime)
	if err != nil {
		return nil, NewInvalidBookingDataError("preferred_time", err)
	}
	birthDate, err := ParseISODate(req.BirthDate)
	if err != nil {
		return nil, NewInvalidBookingDataError("birth_date", err)
	}
	birthTime, err := ParseClockTime(req.BirthTime)
	if err != nil {
		return nil, NewInvalidBookingDataError("birth_time", err)
	}

	gender := Gender(strings.ToUpper(req.Gender))
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return nil, NewInvalidBookingDataError("gender", errors.New("must be MALE, FEMALE or OTHER"))
	}

	audit := PaymentAudit{
		MerchantOrderID: order.MerchantOrderID,
		Amount:          order.Amount,
		CompletedAt:     order.CompletedAt,
	}
	if order.GatewayTransactionID != nil {
		audit.GatewayTransactionID = *order.GatewayTransactionID
	}

	return &AstrologyBooking{
		ID:              id,
		AstroBookID:     NewAstroBookingCode(now),
		PaymentOrderID:  order.ID,
		MerchantOrderID: order.MerchantOrderID,
		UserID:          req.UserID,
		ServiceID:       req.ServiceID,
		Language:        req.Language,
		PreferredDate:   preferredDate,
		PreferredTime:   preferredTime,
		BirthPlace:      req.BirthPlace,
		BirthDate:       birthDate,
		BirthTime:       birthTime,
		Gender:          gender,
		Questions:       req.Questions,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Status:          BookingConfirmed,
		Payment:         audit,
		CreatedAt:       NormalizeTimestamp(now),
	}, nil
}
