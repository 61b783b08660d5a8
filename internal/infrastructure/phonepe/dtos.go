package phonepe

import "time"

type oauthTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	IssuedAt    int64  `json:"issued_at"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   int64  `json:"expires_at"`
}

type payRequest struct {
	MerchantOrderID string            `json:"merchantOrderId"`
	Amount          int64             `json:"amount"`
	ExpireAfter     int64             `json:"expireAfter,omitempty"`
	MetaInfo        map[string]string `json:"metaInfo,omitempty"`
	PaymentFlow     paymentFlow       `json:"paymentFlow"`
}

type paymentFlow struct {
	Type         string       `json:"type"`
	Message      string       `json:"message,omitempty"`
	MerchantUrls merchantUrls `json:"merchantUrls"`
}

type merchantUrls struct {
	RedirectURL string `json:"redirectUrl"`
}

type payResponse struct {
	OrderID     string `json:"orderId"`
	State       string `json:"state"`
	ExpireAt    int64  `json:"expireAt"`
	RedirectURL string `json:"redirectUrl"`
}

type paymentDetail struct {
	PaymentMode   string `json:"paymentMode"`
	TransactionID string `json:"transactionId"`
	Timestamp     int64  `json:"timestamp"`
	Amount        int64  `json:"amount"`
	State         string `json:"state"`
	ErrorCode     string `json:"errorCode,omitempty"`
}

type orderStatusResponse struct {
	OrderID        string          `json:"orderId"`
	State          string          `json:"state"`
	Amount         int64           `json:"amount"`
	ExpireAt       int64           `json:"expireAt"`
	PaymentDetails []paymentDetail `json:"paymentDetails"`
}

type refundRequest struct {
	MerchantRefundID        string `json:"merchantRefundId"`
	OriginalMerchantOrderID string `json:"originalMerchantOrderId"`
	Amount                  int64  `json:"amount"`
}

type refundResponse struct {
	RefundID string `json:"refundId"`
	Amount   int64  `json:"amount"`
	State    string `json:"state"`
}

type refundStatusResponse struct {
	MerchantRefundID        string          `json:"merchantRefundId"`
	OriginalMerchantOrderID string          `json:"originalMerchantOrderId"`
	RefundID                string          `json:"refundId"`
	Amount                  int64           `json:"amount"`
	State                   string          `json:"state"`
	PaymentDetails          []paymentDetail `json:"paymentDetails"`
}

// transactionID picks the completed attempt if there is one, else the latest attempt.
func transactionID(details []paymentDetail) string {
	for i := len(details) - 1; i >= 0; i-- {
		if details[i].State == "COMPLETED" && details[i].TransactionID != "" {
			return details[i].TransactionID
		}
	}
	if len(details) > 0 {
		return details[len(details)-1].TransactionID
	}
	return ""
}

// completedAt is the timestamp of the completed attempt, zero if none carries one.
func completedAt(details []paymentDetail) time.Time {
	for i := len(details) - 1; i >= 0; i-- {
		if details[i].State == "COMPLETED" && details[i].Timestamp > 0 {
			return time.UnixMilli(details[i].Timestamp)
		}
	}
	return time.Time{}
}
