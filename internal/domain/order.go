package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// orderTransitions lists the statuses reachable from each status.
// delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:  {PaymentStatusPaid},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID                uuid.UUID     `json:"id"`
	UserID            string        `json:"userId"`
	Items             []CartItem    `json:"items"`
	Subtotal          Money         `json:"subtotal"`
	Tax               Money         `json:"tax"`
	Shipping          Money         `json:"shipping"`
	Total             Money         `json:"total"`
	Status            OrderStatus   `json:"status"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	PaymentMethod     string        `json:"paymentMethod"`
	ShippingAddress   Address       `json:"shippingAddress"`
	BillingAddress    Address       `json:"billingAddress"`
	TrackingNumber    string        `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time    `json:"estimatedDelivery,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = make([]CartItem, len(o.Items))
		for i, item := range o.Items {
			c.Items[i] = item.Clone()
		}
	}
	if o.EstimatedDelivery != nil {
		ed := *o.EstimatedDelivery
		c.EstimatedDelivery = &ed
	}
	return c
}

// SetStatus moves the order along the status graph and bumps UpdatedAt.
func (o *Order) SetStatus(next OrderStatus, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("status[%s] is not valid", next)
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.Status = next
	o.touch(now)
	return nil
}

func (o *Order) SetPaymentStatus(next PaymentStatus, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("paymentStatus[%s] is not valid", next)
	}
	if !o.PaymentStatus.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.PaymentStatus, next)
	}

	o.PaymentStatus = next
	o.touch(now)
	return nil
}

// touch keeps UpdatedAt strictly increasing even when the clock has not advanced.
func (o *Order) touch(now time.Time) {
	if !now.After(o.UpdatedAt) {
		now = o.UpdatedAt.Add(time.Nanosecond)
	}
	o.UpdatedAt = now
}
