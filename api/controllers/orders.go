package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/skillbridge/skillbridge-backend/api/middleware"
	"github.com/skillbridge/skillbridge-backend/api/responses"
	"github.com/skillbridge/skillbridge-backend/api/validators"
	"github.com/skillbridge/skillbridge-backend/internal/orders"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
	"github.com/skillbridge/skillbridge-backend/pkg/logger"
)

type createOrderRequest struct {
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func actorFromContext(r *http.Request) orders.Actor {
	return orders.Actor{
		UserID:  middleware.ActorID(r.Context()),
		IsStaff: middleware.IsStaffFromContext(r.Context()),
	}
}

// CreateOrder places a new order for the authenticated buyer.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), middleware.ActorID(r.Context()), req.ServiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ListOrders returns the caller's purchases. Staff see every order.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListMine(r.Context(), actorFromContext(r), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListReceivedOrders returns orders placed against the caller's services.
func ListReceivedOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListReceived(r.Context(), middleware.ActorID(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetOrderByUUID returns a single order visible to its buyer, seller, or staff.
func GetOrderByUUID(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderUUID, err := pathUUID(r, "orderUuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetByUUID(r.Context(), actorFromContext(r), orderUUID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderStatus lets the selling party move an order through its lifecycle.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderUUID, err := pathUUID(r, "orderUuid")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").WithDetails(map[string]any{"status": req.Status}))
			return
		}
		updated, err := svc.UpdateStatus(r.Context(), middleware.ActorID(r.Context()), orderUUID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// HasOrderedService reports whether the caller has a completed order for a service.
func HasOrderedService(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, err := pathUUID(r, "serviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ordered, err := svc.HasOrdered(r.Context(), middleware.ActorID(r.Context()), serviceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"hasOrdered": ordered})
	}
}
