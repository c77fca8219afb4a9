// Package gateway wraps the Razorpay REST API: remote order creation,
// payment lookup and checkout signature verification.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

const DefaultBaseURL = "https://api.razorpay.com/v1"

// Credentials are the gateway key pair, read from settings per request.
type Credentials struct {
	KeyID     string
	KeySecret string
}

// Payment is the gateway's descriptor for a payment attempt.
type Payment struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
	Method  string `json:"method,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Client talks to the gateway with a bounded timeout. A timeout or
// transport failure surfaces as domain.ErrGatewayUnavailable, never as an
// invalid payment.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
}

func New(creds Credentials, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		creds:   creds,
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateOrder registers a remote order for the given rupee amount and
// returns the gateway's order reference. The gateway bills in paise, so
// the amount is multiplied by 100 here and nowhere else.
func (c *Client) CreateOrder(ctx context.Context, amountRupees int64, currency, receipt string) (string, error) {
	body := map[string]interface{}{
		"amount":   amountRupees * 100,
		"currency": currency,
		"receipt":  receipt,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.Wrap(domain.ErrGatewayUnavailable, "gateway returned no order id")
	}
	return out.ID, nil
}

// FetchPayment looks up a payment by its gateway reference. Used as the
// fallback path when the client did not echo the order reference back.
func (c *Client) FetchPayment(ctx context.Context, paymentRef string) (*Payment, error) {
	var p Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentRef, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.SetBasicAuth(c.creds.KeyID, c.creds.KeySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(domain.ErrGatewayUnavailable, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Wrapf(domain.ErrGatewayUnavailable, "%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(domain.ErrGatewayUnavailable, "%s %s: decode: %v", method, path, err)
		}
	}
	return nil
}

// Signature computes the checkout signature the gateway sends back after a
// successful payment: hex HMAC-SHA256 over "orderRef|paymentRef".
func Signature(orderRef, paymentRef, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderRef, paymentRef)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a candidate signature in constant time.
func VerifySignature(candidate, orderRef, paymentRef, secret string) bool {
	expected := Signature(orderRef, paymentRef, secret)
	return hmac.Equal([]byte(candidate), []byte(expected))
}
