package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/skillbridge/skillbridge-backend/api/middleware"
	"github.com/skillbridge/skillbridge-backend/api/responses"
	"github.com/skillbridge/skillbridge-backend/api/validators"
	"github.com/skillbridge/skillbridge-backend/internal/payments"
	"github.com/skillbridge/skillbridge-backend/pkg/logger"
)

type checkoutSessionRequest struct {
	OrderUUID uuid.UUID `json:"order_uuid" validate:"required"`
	// ServiceID is accepted for older clients; the line item always
	// comes from the order itself.
	ServiceID *uuid.UUID `json:"service_id,omitempty"`
}

type paymentCallbackRequest struct {
	OrderUUID uuid.UUID `json:"order_uuid" validate:"required"`
}

// CreateCheckoutSession opens a Stripe Checkout session for an unpaid order.
func CreateCheckoutSession(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutSessionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := svc.CreateCheckoutSession(r.Context(), middleware.ActorID(r.Context()), req.OrderUUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"checkout_url": session.SessionURL})
	}
}

// PaymentSuccess marks the order paid after the hosted checkout redirects back.
// Replays are acknowledged without re-applying the payment.
func PaymentSuccess(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentCallbackRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ConfirmPayment(r.Context(), req.OrderUUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if result.AlreadyPaid {
			logg.Info(r.Context(), "payment.confirm.replayed")
		}
		responses.WriteSuccess(w, result.Order)
	}
}

// PaymentCanceled acknowledges an abandoned checkout. The order is untouched
// so the buyer can retry later.
func PaymentCanceled(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentCallbackRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(logg.WithOrderID(r.Context(), req.OrderUUID.String()), "payment.canceled")
		responses.WriteSuccess(w, map[string]string{"status": "canceled"})
	}
}

// PaymentFailed acknowledges a failed charge reported by the frontend.
func PaymentFailed(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentCallbackRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Warn(logg.WithOrderID(r.Context(), req.OrderUUID.String()), "payment.failed")
		responses.WriteSuccess(w, map[string]string{"status": "failed"})
	}
}
