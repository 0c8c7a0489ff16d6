// Package payment holds the simulated payment gateway: every charge succeeds after a fixed delay.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type Simulated struct {
	delay time.Duration
}

func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{delay: delay}
}

var _ port.PaymentGateway = (*Simulated)(nil)

// Charge waits for the configured delay and reports the payment as paid.
// If ctx ends first the charge is abandoned and ctx.Err() is returned.
func (s *Simulated) Charge(ctx context.Context, req port.PaymentRequest) (domain.PaymentStatus, error) {
	if req.UserID == "" {
		return "", fmt.Errorf("userID is empty")
	}
	if req.Amount.Amount.IsNegative() {
		return "", fmt.Errorf("amount is negative")
	}

	if s.delay <= 0 {
		return domain.PaymentStatusPaid, nil
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return domain.PaymentStatusPaid, nil
	}
}
