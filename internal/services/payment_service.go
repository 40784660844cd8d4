// internal/services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopfront/storefront-api/internal/events"
	"github.com/shopfront/storefront-api/internal/models"
	"github.com/shopfront/storefront-api/internal/payment"
	"github.com/shopfront/storefront-api/internal/pricing"
	"github.com/shopfront/storefront-api/internal/store"
)

const (
	VerificationSuccess = "success"
	VerificationFailure = "failure"
)

type PaymentService struct {
	gateway   payment.Gateway
	orders    store.OrderStore
	publisher events.Publisher
	currency  string
	tolerance int64
	now       func() time.Time
}

type PaymentOptions struct {
	Currency  string
	Tolerance int64
}

// CreateGatewayOrderRequest carries the amount in major units (rupees).
type CreateGatewayOrderRequest struct {
	Amount   float64 `json:"amount" validate:"required,gt=0,max=10000000"`
	Currency string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Receipt  string  `json:"receipt,omitempty" validate:"omitempty,max=64"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type VerificationResult struct {
	Status string        `json:"status"`
	Order  *models.Order `json:"order,omitempty"`
}

func NewPaymentService(gateway payment.Gateway, orders store.OrderStore, publisher events.Publisher, opts PaymentOptions) *PaymentService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	currency := strings.ToUpper(opts.Currency)
	if currency == "" {
		currency = "INR"
	}
	return &PaymentService{
		gateway:   gateway,
		orders:    orders,
		publisher: publisher,
		currency:  currency,
		tolerance: opts.Tolerance,
		now:       time.Now,
	}
}

// CreateGatewayOrder opens an order with the gateway. A receipt of the form
// order_rcptid_<id> links the gateway order to that local order, which must
// exist and whose total must match the amount.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, req *CreateGatewayOrderRequest) (*payment.RemoteOrder, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.currency
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("rcptid_%d", s.now().UnixMilli())
	}
	amount := payment.ToMinorUnits(req.Amount)

	var local *models.Order
	if rawID, ok := payment.ParseReceipt(receipt); ok {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, NewValidationError("receipt", "receipt", "receipt does not reference a valid order id")
		}
		local, err = s.orders.GetOrder(ctx, id)
		if err != nil {
			return nil, storeError("get order", "order", err)
		}
		if !pricing.WithinTolerance(local.TotalAmount*100, amount, s.tolerance*100) {
			return nil, NewValidationError("amount", "total_mismatch",
				fmt.Sprintf("amount %.2f does not match order total %d", req.Amount, local.TotalAmount))
		}
	}

	remote, err := s.gateway.CreateOrder(ctx, payment.CreateOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, s.gatewayError("create gateway order", err)
	}

	if local != nil {
		if err := s.orders.SetGatewayOrderID(ctx, local.ID, remote.ID); err != nil {
			return nil, storeError("set gateway order id", "order", err)
		}
	}
	return remote, nil
}

// Verify checks the gateway signature and marks the linked order paid. A
// mismatch is reported in the result, not as an error, and changes nothing.
func (s *PaymentService) Verify(ctx context.Context, req *VerifyPaymentRequest) (*VerificationResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	ok, err := s.gateway.VerifyPayment(ctx, payment.Verification{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		return nil, s.gatewayError("verify payment", err)
	}
	if !ok {
		logrus.WithFields(logrus.Fields{
			"gateway":          s.gateway.Name(),
			"gateway_order_id": req.OrderID,
		}).Warn("Payment signature mismatch")
		return &VerificationResult{Status: VerificationFailure}, nil
	}

	order, changed, err := s.orders.MarkOrderPaid(ctx, req.OrderID)
	if err != nil {
		return nil, storeError("mark order paid", "order", err)
	}
	if changed {
		if err := s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderPaid, order)); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Warn("Failed to publish order event")
		}
	}
	return &VerificationResult{Status: VerificationSuccess, Order: order}, nil
}

func (s *PaymentService) gatewayError(op string, err error) error {
	if errors.Is(err, payment.ErrTimeout) {
		logrus.WithError(err).WithField("op", op).Warn("Payment gateway timed out")
		return ErrGatewayTimeout
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"op":      op,
		"gateway": s.gateway.Name(),
	}).Error("Payment gateway call failed")
	return &GatewayError{Err: err}
}
