package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"storefront/pkg/store/domain/model"
	store "storefront/pkg/store/domain/service"
)

var ErrEmptyCart = model.ErrEmptyCart

const (
	FreeShippingThresholdCents int64 = 150000
	ShippingFeeCents           int64 = 15000

	DefaultPaymentDelay = 2500 * time.Millisecond
)

type Quote struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ShippingCents int64 `json:"shippingCents"`
	TotalCents    int64 `json:"totalCents"`
}

type CheckoutService interface {
	Quote() Quote
	PlaceOrder(ctx context.Context, details model.CustomerDetails) (string, error)
}

func NewCheckoutService(store store.StoreService, paymentDelay time.Duration) CheckoutService {
	return &checkoutService{store: store, paymentDelay: paymentDelay}
}

type checkoutService struct {
	store        store.StoreService
	paymentDelay time.Duration
}

// Quote prices the current cart. Shipping is free above the threshold.
func (s *checkoutService) Quote() Quote {
	subtotal := model.CartTotalCents(s.store.Cart())
	shipping := ShippingFeeCents
	if subtotal > FreeShippingThresholdCents {
		shipping = 0
	}
	return Quote{SubtotalCents: subtotal, ShippingCents: shipping, TotalCents: subtotal + shipping}
}

// PlaceOrder simulates payment authorisation, then checks the cart out.
// Payment always succeeds once the delay has passed. The cart is checked again
// after the delay since a concurrent order may have emptied it.
func (s *checkoutService) PlaceOrder(ctx context.Context, details model.CustomerDetails) (string, error) {
	if len(s.store.Cart()) == 0 {
		return "", ErrEmptyCart
	}

	timer := time.NewTimer(s.paymentDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "payment interrupted")
	case <-timer.C:
	}

	orderID, err := s.store.CheckoutNonEmpty(details)
	if err != nil {
		return "", err
	}

	logrus.WithFields(logrus.Fields{"order_id": orderID, "customer": details.Email}).Info("order placed")
	return orderID, nil
}
