package e2e

import (
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/infrastructure/phonepe"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite runs against a deployed service talking to the PhonePe UAT
// sandbox. The user in E2E_USER_ID must exist in the service's database.
type E2ETestSuite struct {
	suite.Suite
	client  *TestClient
	userID  string
	webhook [2]string
}

func TestE2ESuite(t *testing.T) {
	if os.Getenv("RUN_E2E_TESTS") != "true" {
		t.Skip("Skipping E2E tests (set RUN_E2E_TESTS=true to run)")
	}
	suite.Run(t, new(E2ETestSuite))
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *E2ETestSuite) SetupSuite() {
	s.client = NewTestClient(
		env("E2E_BASE_URL", "http://localhost:8000"),
		env("OKPUJA_AUTH__JWT_SECRET", "dev-secret"),
		env("OKPUJA_AUTH__ISSUER", "okpuja"),
	)
	s.userID = env("E2E_USER_ID", "e2e-user")
	s.webhook = [2]string{env("OKPUJA_WEBHOOK__USERNAME", "okpuja"), env("OKPUJA_WEBHOOK__PASSWORD", "okpuja")}
	WaitForService(s.T(), s.client, 30*time.Second)
}

func (s *E2ETestSuite) TestDocsAreServed() {
	resp, _ := s.client.Do(s.T(), http.MethodGet, "/openapi.json", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.client.Do(s.T(), http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *E2ETestSuite) TestCreateAndPollPayment() {
	t := s.T()
	token := s.client.Token(t, s.userID, false)

	resp, raw := s.client.Do(t, http.MethodPost, "/payments/", token, map[string]any{
		"amount":      100,
		"description": "e2e smoke test",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var checkout rest.Checkout
	Data(t, raw, &checkout)
	assert.NotEmpty(t, checkout.PaymentURL)
	assert.Equal(t, "INITIATED", checkout.Status)
	assert.Equal(t, "1.00", checkout.AmountInRupees)

	resp, raw = s.client.Do(t, http.MethodGet, "/payments/status/"+checkout.MerchantOrderID+"/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var payment rest.Payment
	Data(t, raw, &payment)
	assert.Equal(t, checkout.MerchantOrderID, payment.MerchantOrderID)

	resp, _ = s.client.Do(t, http.MethodGet, "/payments/status/"+checkout.MerchantOrderID+"/", s.client.Token(t, "someone-else", false), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.client.Do(t, http.MethodGet, "/payments/redirect/?merchantOrderId="+checkout.MerchantOrderID, "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Location"))
}

func (s *E2ETestSuite) TestRejectsUnauthenticated() {
	resp, raw := s.client.Do(s.T(), http.MethodPost, "/payments/", "", map[string]any{"amount": 100})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("UNAUTHORIZED", ErrorCode(s.T(), raw))

	resp, _ = s.client.Do(s.T(), http.MethodPost, "/admin/payments/sweep/", s.client.Token(s.T(), s.userID, false), nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *E2ETestSuite) TestWebhookAuthorization() {
	body := map[string]any{
		"event":   "checkout.order.completed",
		"payload": map[string]any{"merchantOrderId": "OKPUJA_CART_E2EMISSING", "state": "COMPLETED"},
	}

	resp, _ := s.client.Do(s.T(), http.MethodPost, "/payments/webhook/phonepe/", "", body,
		"Authorization", strings.Repeat("0", 64))
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.client.Do(s.T(), http.MethodPost, "/payments/webhook/phonepe/", "", body,
		"Authorization", phonepe.WebhookAuthorization(s.webhook[0], s.webhook[1]))
	s.Equal(http.StatusNotFound, resp.StatusCode)
}
