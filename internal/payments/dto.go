package payments

import "github.com/skillbridge/skillbridge-backend/internal/orders"

// CheckoutSessionDTO returns the hosted checkout handle to the frontend.
type CheckoutSessionDTO struct {
	SessionID  string `json:"session_id"`
	SessionURL string `json:"session_url"`
}

// ConfirmPaymentResult reports the order state after a confirm callback.
// AlreadyPaid is set when the callback was a replay and nothing changed.
type ConfirmPaymentResult struct {
	Order       *orders.OrderDTO `json:"order"`
	AlreadyPaid bool             `json:"already_paid"`
}
