package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrOutOfStock         = errors.New("out of stock")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidInput       = errors.New("invalid input")
)
