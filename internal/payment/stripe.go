// internal/payment/stripe.go
package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
)

// Stripe maps gateway orders onto PaymentIntents. The intent id is the
// gateway order id and verification checks that the intent succeeded.
type Stripe struct{}

func NewStripe(secretKey string) *Stripe {
	stripe.Key = secretKey
	return &Stripe{}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateOrder(ctx context.Context, req CreateOrderRequest) (*RemoteOrder, error) {
	if stripe.Key == "" {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.Receipt != "" {
		params.AddMetadata("receipt", req.Receipt)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, s.wrap(err)
	}

	return &RemoteOrder{
		ID:           pi.ID,
		Entity:       "payment_intent",
		Amount:       pi.Amount,
		AmountDue:    pi.Amount - pi.AmountReceived,
		AmountPaid:   pi.AmountReceived,
		Currency:     strings.ToUpper(string(pi.Currency)),
		Receipt:      req.Receipt,
		Status:       string(pi.Status),
		Notes:        pi.Metadata,
		CreatedAt:    pi.Created,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (s *Stripe) VerifyPayment(ctx context.Context, v Verification) (bool, error) {
	if stripe.Key == "" {
		return false, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(v.OrderID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return false, nil
		}
		return false, s.wrap(err)
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}

func (s *Stripe) wrap(err error) error {
	if isTimeout(err) {
		return ErrTimeout
	}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &Error{Gateway: s.Name(), StatusCode: stripeErr.HTTPStatusCode, Message: stripeErr.Msg, Err: err}
	}
	return &Error{Gateway: s.Name(), Err: err}
}
