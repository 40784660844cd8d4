// internal/payment/gateway.go

// Package payment talks to the external payment gateway: remote order
// creation and payment verification.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
)

var (
	// ErrTimeout means the gateway did not answer in time. The remote side may
	// or may not have acted on the request.
	ErrTimeout = errors.New("payment gateway timed out")
	// ErrNotConfigured is returned when no gateway credentials are present.
	ErrNotConfigured = errors.New("payment gateway is not configured")
)

const receiptPrefix = "order_rcptid_"

type CreateOrderRequest struct {
	// Amount in minor currency units.
	Amount   int64
	Currency string
	Receipt  string
}

// RemoteOrder is the gateway side order handle.
type RemoteOrder struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity,omitempty"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes,omitempty"`
	CreatedAt  int64             `json:"created_at"`

	// ClientSecret is set by gateways that confirm on the client (stripe).
	ClientSecret string `json:"client_secret,omitempty"`
}

type Verification struct {
	OrderID   string
	PaymentID string
	Signature string
}

type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*RemoteOrder, error)
	// VerifyPayment reports whether the payment for the gateway order is
	// authentic. A false result with a nil error is a verification failure.
	VerifyPayment(ctx context.Context, v Verification) (bool, error)
}

// Error is a non-timeout failure reported by the gateway.
type Error struct {
	Gateway    string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Gateway, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Gateway, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Gateway, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ParseReceipt extracts the local order id from an order_rcptid_<id> receipt.
func ParseReceipt(receipt string) (string, bool) {
	if !strings.HasPrefix(receipt, receiptPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(receipt, receiptPrefix)
	return id, id != ""
}

// Receipt builds the receipt that links a gateway order to a local order.
func Receipt(localOrderID string) string {
	return receiptPrefix + localOrderID
}

// ToMinorUnits converts an amount in major units (rupees) to minor units (paise).
// Amounts beyond the int64 range saturate.
func ToMinorUnits(amount float64) int64 {
	if amount*100 >= math.MaxInt64 {
		return math.MaxInt64
	}
	if amount*100 <= math.MinInt64 {
		return math.MinInt64
	}
	if amount < 0 {
		return -int64(-amount*100 + 0.5)
	}
	return int64(amount*100 + 0.5)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
