// internal/payment/razorpay_test.go
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRazorpay(url string, timeout time.Duration, retries int) *Razorpay {
	return NewRazorpay(RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: testSecret,
		BaseURL:   url,
		Timeout:   timeout,
		RetryMax:  retries,
	})
}

func TestRazorpay_CreateOrder(t *testing.T) {
	var received razorpayOrderBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, testSecret, pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "order_EKwxwAgItmmXdp",
			"entity":      "order",
			"amount":      received.Amount,
			"amount_paid": 0,
			"amount_due":  received.Amount,
			"currency":    received.Currency,
			"receipt":     received.Receipt,
			"status":      "created",
			"attempts":    0,
			"created_at":  1582628071,
		})
	}))
	defer server.Close()

	gw := newTestRazorpay(server.URL, time.Second, 0)
	order, err := gw.CreateOrder(context.Background(), CreateOrderRequest{
		Amount:   80000,
		Currency: "INR",
		Receipt:  "order_rcptid_abc",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(80000), received.Amount)
	assert.Equal(t, "INR", received.Currency)
	assert.Equal(t, "order_EKwxwAgItmmXdp", order.ID)
	assert.Equal(t, "created", order.Status)
	assert.Equal(t, "order_rcptid_abc", order.Receipt)
}

func TestRazorpay_CreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be at least INR 1.00"}}`))
	}))
	defer server.Close()

	_, err := newTestRazorpay(server.URL, time.Second, 0).CreateOrder(context.Background(), CreateOrderRequest{Amount: 10, Currency: "INR"})
	require.Error(t, err)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Equal(t, "The amount must be at least INR 1.00", gwErr.Message)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestRazorpay_CreateOrderTimeout(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := newTestRazorpay(server.URL, 50*time.Millisecond, 3).CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR"})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "timed out requests are not retried")
}

func TestRazorpay_RetriesUnavailable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"order_2","amount":100,"currency":"INR","status":"created"}`))
	}))
	defer server.Close()

	order, err := newTestRazorpay(server.URL, time.Second, 2).CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, "order_2", order.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRazorpay_NotConfigured(t *testing.T) {
	gw := NewRazorpay(RazorpayConfig{})
	_, err := gw.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = gw.VerifyPayment(context.Background(), Verification{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRazorpay_VerifyPayment(t *testing.T) {
	gw := newTestRazorpay("http://unused", time.Second, 0)
	sig := Sign(testSecret, "order_1", "pay_1")

	ok, err := gw.VerifyPayment(context.Background(), Verification{OrderID: "order_1", PaymentID: "pay_1", Signature: sig})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gw.VerifyPayment(context.Background(), Verification{OrderID: "order_1", PaymentID: "pay_2", Signature: sig})
	require.NoError(t, err)
	assert.False(t, ok)
}
