// Package phonepe talks to the PhonePe Standard Checkout V2 API.
package phonepe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/DanielPopoola/okpuja-payments/internal/config"
	"github.com/DanielPopoola/okpuja-payments/internal/metrics"
)

const (
	uatOAuthBaseURL  = "https://api-preprod.phonepe.com/apis/identity-manager"
	uatPGBaseURL     = "https://api-preprod.phonepe.com/apis/pg-sandbox"
	prodOAuthBaseURL = "https://api.phonepe.com/apis/identity-manager"
	prodPGBaseURL    = "https://api.phonepe.com/apis/pg"

	defaultTokenLifetime = time.Hour
)

type Client struct {
	clientID      string
	clientSecret  string
	clientVersion string
	oauthBaseURL  string
	pgBaseURL     string
	tokenMargin   time.Duration

	httpClient *http.Client
	tokens     TokenStore
	refreshMu  sync.Mutex
	now        func() time.Time
	logger     *slog.Logger
}

type Option func(*Client)

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg config.PhonePeConfig, tokens TokenStore, logger *slog.Logger, opts ...Option) *Client {
	oauthBase, pgBase := uatOAuthBaseURL, uatPGBaseURL
	if strings.EqualFold(cfg.Env, "production") || strings.EqualFold(cfg.Env, "prod") {
		oauthBase, pgBase = prodOAuthBaseURL, prodPGBaseURL
	}
	if cfg.OAuthBaseURL != "" {
		oauthBase = cfg.OAuthBaseURL
	}
	if cfg.PGBaseURL != "" {
		pgBase = cfg.PGBaseURL
	}

	c := &Client{
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		clientVersion: cfg.ClientVersion,
		oauthBaseURL:  strings.TrimRight(oauthBase, "/"),
		pgBaseURL:     strings.TrimRight(pgBase, "/"),
		tokenMargin:   cfg.TokenMargin,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tokens: tokens,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ application.GatewayClient = (*Client)(nil)

// AccessToken returns the cached token while it is valid and exchanges the
// client credentials for a new one otherwise.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if tok, ok := c.cachedToken(ctx); ok {
		return tok, nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if tok, ok := c.cachedToken(ctx); ok {
		return tok, nil
	}

	token, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}
	if err := c.tokens.Set(ctx, token); err != nil {
		c.logger.Warn("failed to cache gateway token", "error", err)
	}
	return token.AccessToken, nil
}

func (c *Client) cachedToken(ctx context.Context) (string, bool) {
	token, ok, err := c.tokens.Get(ctx)
	if err != nil {
		c.logger.Warn("failed to read cached gateway token", "error", err)
		return "", false
	}
	if !ok || !token.ValidAt(c.now()) {
		return "", false
	}
	return token.AccessToken, true
}

func (c *Client) fetchToken(ctx context.Context) (Token, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_version", c.clientVersion)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthBaseURL+"/v1/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("%w: error creating request: %v", application.ErrGatewayAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	issuedAt := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", application.ErrGatewayAuth, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Token{}, fmt.Errorf("%w: status %d: %s", application.ErrGatewayAuth, resp.StatusCode, string(body))
	}

	var tokenResp oauthTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return Token{}, fmt.Errorf("%w: error decoding token response: %v", application.ErrGatewayAuth, err)
	}
	if tokenResp.AccessToken == "" {
		return Token{}, fmt.Errorf("%w: empty access token", application.ErrGatewayAuth)
	}

	return Token{
		AccessToken: tokenResp.AccessToken,
		ExpiresAt:   c.tokenExpiry(tokenResp, issuedAt),
	}, nil
}

func (c *Client) tokenExpiry(resp oauthTokenResponse, issuedAt time.Time) time.Time {
	var expiry time.Time
	switch {
	case resp.ExpiresIn > 0:
		expiry = issuedAt.Add(time.Duration(resp.ExpiresIn) * time.Second)
	case resp.ExpiresAt > 0:
		expiry = time.Unix(resp.ExpiresAt, 0)
	default:
		expiry = issuedAt.Add(defaultTokenLifetime)
	}
	return expiry.Add(-c.tokenMargin)
}

func (c *Client) CreatePaymentURL(ctx context.Context, req application.CheckoutRequest) (*application.CheckoutResult, error) {
	body := payRequest{
		MerchantOrderID: req.MerchantOrderID,
		Amount:          req.Amount,
		ExpireAfter:     int64(req.Timeout / time.Second),
		MetaInfo:        req.UDF,
		PaymentFlow: paymentFlow{
			Type:    "PG_CHECKOUT",
			Message: req.Message,
			MerchantUrls: merchantUrls{
				RedirectURL: req.RedirectURL,
			},
		},
	}

	resp, raw, err := sendRequest[payRequest, payResponse](c, ctx, "pay", http.MethodPost, c.pgBaseURL+"/checkout/v2/pay", &body)
	if err != nil {
		if gwErr, ok := application.IsGatewayError(err); ok {
			return &application.CheckoutResult{
				Success:    false,
				StatusCode: gwErr.StatusCode,
				ErrorCode:  gwErr.Code,
				Message:    gwErr.Message,
				Raw:        raw,
			}, nil
		}
		return nil, err
	}

	if resp.RedirectURL == "" {
		return &application.CheckoutResult{
			Success:    false,
			StatusCode: http.StatusOK,
			Message:    "gateway response did not include a redirect url",
			Raw:        raw,
		}, nil
	}

	return &application.CheckoutResult{
		Success:        true,
		PaymentURL:     resp.RedirectURL,
		GatewayOrderID: resp.OrderID,
		StatusCode:     http.StatusOK,
		Raw:            raw,
	}, nil
}

func (c *Client) CheckStatus(ctx context.Context, merchantOrderID string) (*application.GatewayStatus, error) {
	endpoint := fmt.Sprintf("%s/checkout/v2/order/%s/status", c.pgBaseURL, url.PathEscape(merchantOrderID))
	resp, raw, err := sendRequest[any, orderStatusResponse](c, ctx, "status", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	return &application.GatewayStatus{
		MerchantOrderID: merchantOrderID,
		GatewayOrderID:  resp.OrderID,
		State:           application.NormalizeGatewayState(resp.State),
		TransactionID:   transactionID(resp.PaymentDetails),
		CompletedAt:     completedAt(resp.PaymentDetails),
		Amount:          resp.Amount,
		Raw:             raw,
	}, nil
}

func (c *Client) CreateRefund(ctx context.Context, req application.GatewayRefundRequest) (*application.GatewayRefundResult, error) {
	body := refundRequest{
		MerchantRefundID:        req.MerchantRefundID,
		OriginalMerchantOrderID: req.OriginalMerchantOrderID,
		Amount:                  req.Amount,
	}

	resp, raw, err := sendRequest[refundRequest, refundResponse](c, ctx, "refund", http.MethodPost, c.pgBaseURL+"/payments/v2/refund", &body)
	if err != nil {
		if gwErr, ok := application.IsGatewayError(err); ok {
			return &application.GatewayRefundResult{
				Success:    false,
				State:      application.GatewayFailed,
				StatusCode: gwErr.StatusCode,
				Message:    gwErr.Message,
				Raw:        raw,
			}, nil
		}
		return nil, err
	}

	return &application.GatewayRefundResult{
		Success:         true,
		GatewayRefundID: resp.RefundID,
		State:           application.NormalizeGatewayState(resp.State),
		StatusCode:      http.StatusOK,
		Raw:             raw,
	}, nil
}

func (c *Client) CheckRefundStatus(ctx context.Context, merchantRefundID string) (*application.GatewayRefundStatus, error) {
	endpoint := fmt.Sprintf("%s/payments/v2/refund/%s/status", c.pgBaseURL, url.PathEscape(merchantRefundID))
	resp, raw, err := sendRequest[any, refundStatusResponse](c, ctx, "refund_status", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	return &application.GatewayRefundStatus{
		MerchantRefundID: merchantRefundID,
		GatewayRefundID:  resp.RefundID,
		State:            application.NormalizeGatewayState(resp.State),
		Amount:           resp.Amount,
		Raw:              raw,
	}, nil
}

// sendRequest performs an authorized call. A 401 drops the cached token and
// repeats the call once with a fresh one. The raw body is returned alongside
// any non-2xx GatewayError so callers can store it.
func sendRequest[Req any, Resp any](c *Client, ctx context.Context, operation, method, url string, reqBody *Req) (*Resp, json.RawMessage, error) {
	var payload []byte
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, nil, fmt.Errorf("error marshalling json: %w", err)
		}
		payload = jsonData
	}

	start := time.Now()
	status, body, err := c.do(ctx, method, url, payload)
	if err == nil && status == http.StatusUnauthorized {
		if invErr := c.tokens.Invalidate(ctx); invErr != nil {
			c.logger.Warn("failed to invalidate gateway token", "error", invErr)
		}
		status, body, err = c.do(ctx, method, url, payload)
	}
	metrics.ObserveGatewayCall(operation, status, time.Since(start))
	if err != nil {
		return nil, nil, err
	}

	raw := json.RawMessage(body)
	if !json.Valid(body) {
		raw = nil
	}

	if status < 200 || status > 299 {
		gwErr := &application.GatewayError{StatusCode: status}
		var errResp application.GatewayErrorResponse
		if json.Unmarshal(body, &errResp) == nil {
			gwErr.Code = errResp.Code
			gwErr.Message = errResp.Message
		}
		if gwErr.Message == "" {
			gwErr.Message = strings.TrimSpace(string(body))
		}
		return nil, raw, gwErr
	}

	var gwResp Resp
	if err := json.Unmarshal(body, &gwResp); err != nil {
		return nil, raw, fmt.Errorf("error decoding json response: %w", err)
	}

	return &gwResp, raw, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) (int, []byte, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return 0, nil, err
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Authorization", "O-Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, nil, fmt.Errorf("error reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}
