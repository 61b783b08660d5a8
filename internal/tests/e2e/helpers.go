package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest"
	"github.com/DanielPopoola/okpuja-payments/internal/interfaces/rest/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestClient calls a running payments service.
type TestClient struct {
	baseURL    string
	secret     []byte
	issuer     string
	httpClient *http.Client
}

func NewTestClient(baseURL, jwtSecret, issuer string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		secret:  []byte(jwtSecret),
		issuer:  issuer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Redirect responses are what the redirect tests assert on.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Token signs a bearer token the way the account service would.
func (c *TestClient) Token(t *testing.T, userID string, staff bool) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID:  userID,
		IsStaff: staff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}).SignedString(c.secret)
	require.NoError(t, err)
	return signed
}

// Do sends body as JSON and returns the status and raw response body.
func (c *TestClient) Do(t *testing.T, method, path, token string, body any, header ...string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// Data decodes the data field of a success envelope into dst.
func Data(t *testing.T, raw []byte, dst any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	require.True(t, env.Success, string(raw))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func ErrorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var env rest.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return env.Error.Code
}

func WaitForService(t *testing.T, c *TestClient, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := c.httpClient.Get(c.baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("payments service not ready after %s", timeout)
}
