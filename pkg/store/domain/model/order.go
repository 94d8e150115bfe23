package model

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrUnknownOrderStatus      = errors.New("unknown order status")
	ErrInvalidStatusTransition = errors.New("order status cannot move backwards or leave a terminal state")
	ErrEmptyCart               = errors.New("cannot check out an empty cart")
)

type OrderStatus string

const (
	Pending        OrderStatus = "pending"
	Confirmed      OrderStatus = "confirmed"
	Processing     OrderStatus = "processing"
	OutForDelivery OrderStatus = "out-for-delivery"
	Delivered      OrderStatus = "delivered"
	Cancelled      OrderStatus = "cancelled"
)

// fulfilment order of the forward chain; cancelled sits outside it.
var statusRank = map[OrderStatus]int{
	Pending:        0,
	Confirmed:      1,
	Processing:     2,
	OutForDelivery: 3,
	Delivered:      4,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == Cancelled
}

func (s OrderStatus) Terminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether next is a forward move along the fulfilment
// chain, or a cancellation of an order that has not finished yet.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == Cancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// CartItem is a snapshot of a product taken when it entered the cart.
type CartItem struct {
	ProductID  int    `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image"`
}

func (i CartItem) LineTotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// OrderItem is the cart snapshot frozen into a placed order.
type OrderItem = CartItem

type Order struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	CustomerPhone   string      `json:"customerPhone"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Date            time.Time   `json:"date"`
	Status          OrderStatus `json:"status"`
	TotalCents      int64       `json:"totalCents"`
	Items           []OrderItem `json:"items"`
}

// CustomerDetails is what the checkout form collects.
type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func CartTotalCents(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotalCents()
	}
	return total
}
