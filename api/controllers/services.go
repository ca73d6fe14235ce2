package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skillbridge/skillbridge-backend/api/middleware"
	"github.com/skillbridge/skillbridge-backend/api/responses"
	"github.com/skillbridge/skillbridge-backend/api/validators"
	"github.com/skillbridge/skillbridge-backend/internal/catalog"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
	"github.com/skillbridge/skillbridge-backend/pkg/logger"
)

type createServiceRequest struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"max=5000"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	DeliveryTime int             `json:"delivery_time" validate:"required,min=1"`
	CategoryID   uuid.UUID       `json:"category_id" validate:"required"`
	ImageURLs    []string        `json:"image_urls" validate:"max=10"`
}

type updateServiceRequest struct {
	Title        *string          `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	DeliveryTime *int             `json:"delivery_time,omitempty" validate:"omitempty,min=1"`
	CategoryID   *uuid.UUID       `json:"category_id,omitempty"`
	ImageURLs    *[]string        `json:"image_urls,omitempty" validate:"omitempty,max=10"`
}

type attachImagesRequest struct {
	ImageURLs []string `json:"image_urls" validate:"required,min=1,max=10"`
}

// ListCategories returns the category directory.
func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// ListServices returns the public catalog with filters and pagination.
func ListServices(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListServicesInput{Pagination: params}

		if input.Filters.CategoryID, err = validators.ParseQueryUUID(r, "category_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Filters.SellerID, err = validators.ParseQueryUUID(r, "seller_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Filters.PriceMin, err = validators.ParseQueryDecimal(r, "price_min"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Filters.PriceMax, err = validators.ParseQueryDecimal(r, "price_max"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Filters.Query = strings.TrimSpace(r.URL.Query().Get("q"))

		result, err := svc.ListServices(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetService returns the public detail for a listing.
func GetService(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "serviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetService(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// MyServices returns the caller's listings.
func MyServices(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListMyServices(r.Context(), middleware.ActorID(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CreateService creates a listing owned by the caller.
func CreateService(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createServiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateService(r.Context(), middleware.ActorID(r.Context()), catalog.CreateServiceInput{
			Title:        validators.SanitizeString(req.Title, 200),
			Description:  strings.TrimSpace(req.Description),
			Price:        req.Price,
			DeliveryTime: req.DeliveryTime,
			CategoryID:   req.CategoryID,
			ImageURLs:    req.ImageURLs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// UpdateService applies a partial update to the caller's listing.
func UpdateService(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "serviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateServiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateService(r.Context(), middleware.ActorID(r.Context()), id, catalog.UpdateServiceInput{
			Title:        req.Title,
			Description:  req.Description,
			Price:        req.Price,
			DeliveryTime: req.DeliveryTime,
			CategoryID:   req.CategoryID,
			ImageURLs:    req.ImageURLs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// DeleteService removes the caller's listing.
func DeleteService(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "serviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteService(r.Context(), middleware.ActorID(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AttachServiceImages replaces the image set on the caller's listing.
func AttachServiceImages(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "serviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req attachImagesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateService(r.Context(), middleware.ActorID(r.Context()), id, catalog.UpdateServiceInput{
			ImageURLs: &req.ImageURLs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter required").WithDetails(map[string]any{"field": key})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
