package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderCreated struct {
	OrderID   uuid.UUID          `json:"orderId"`
	UserID    string             `json:"userId"`
	Total     domain.Money       `json:"total"`
	ItemCount int                `json:"itemCount"`
	Status    domain.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

type OrderStatusChanged struct {
	OrderID       uuid.UUID            `json:"orderId"`
	UserID        string               `json:"userId"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func orderStatusChanged(o domain.Order) OrderStatusChanged {
	return OrderStatusChanged{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		UpdatedAt:     o.UpdatedAt,
	}
}
