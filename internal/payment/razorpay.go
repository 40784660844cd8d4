// internal/payment/razorpay.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const defaultRazorpayURL = "https://api.razorpay.com"

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
	RetryMax  int
}

type Razorpay struct {
	client  *retryablehttp.Client
	keyID   string
	secret  string
	baseURL string
}

func NewRazorpay(cfg RazorpayConfig) *Razorpay {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.CheckRetry = retryUnprocessed
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = retryLogger{entry: logrus.WithField("gateway", "razorpay")}
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultRazorpayURL
	}

	return &Razorpay{
		client:  client,
		keyID:   cfg.KeyID,
		secret:  cfg.KeySecret,
		baseURL: baseURL,
	}
}

func (r *Razorpay) Name() string { return "razorpay" }

type razorpayOrderBody struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type razorpayErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (r *Razorpay) CreateOrder(ctx context.Context, req CreateOrderRequest) (*RemoteOrder, error) {
	if r.keyID == "" || r.secret == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(razorpayOrderBody{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.SetBasicAuth(r.keyID, r.secret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, &Error{Gateway: r.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, &Error{Gateway: r.Name(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr razorpayErrorBody
		message := http.StatusText(resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Description != "" {
			message = apiErr.Error.Description
		}
		return nil, &Error{Gateway: r.Name(), StatusCode: resp.StatusCode, Message: message}
	}

	var order RemoteOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, &Error{Gateway: r.Name(), Message: "malformed order response", Err: err}
	}
	return &order, nil
}

func (r *Razorpay) VerifyPayment(ctx context.Context, v Verification) (bool, error) {
	if r.secret == "" {
		return false, ErrNotConfigured
	}
	return VerifySignature(r.secret, v.OrderID, v.PaymentID, v.Signature), nil
}

// retryUnprocessed retries only responses that say the request was not
// acted upon. Transport errors are not retried since order creation is not
// idempotent.
func retryUnprocessed(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil || resp == nil {
		return false, nil
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true, nil
	}
	return false, nil
}

type retryLogger struct {
	entry *logrus.Entry
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fieldsOf(keysAndValues)).Error(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fieldsOf(keysAndValues)).Debug(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fieldsOf(keysAndValues)).Debug(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fieldsOf(keysAndValues)).Warn(msg)
}

func fieldsOf(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
