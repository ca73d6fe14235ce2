package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

// CategoryDTO is the transport shape for a service category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// SellerSummaryDTO surfaces limited seller data for listing responses.
type SellerSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// ServiceImageDTO captures one gallery image.
type ServiceImageDTO struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
}

// ServiceDTO represents the service listing payload returned to clients.
type ServiceDTO struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Price        decimal.Decimal   `json:"price"`
	DeliveryTime int               `json:"delivery_time"`
	Category     CategoryDTO       `json:"category"`
	Seller       SellerSummaryDTO  `json:"seller"`
	Images       []ServiceImageDTO `json:"images"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ServiceListFilters describe the supported filter knobs for the browse endpoint.
type ServiceListFilters struct {
	CategoryID *uuid.UUID       `json:"category_id,omitempty"`
	SellerID   *uuid.UUID       `json:"seller_id,omitempty"`
	PriceMin   *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax   *decimal.Decimal `json:"price_max,omitempty"`
	Query      string           `json:"q,omitempty"`
}

// ListServicesInput captures the inputs needed to paginate/filter the catalog.
type ListServicesInput struct {
	Filters    ServiceListFilters
	Pagination pagination.Params
}

// ServiceListResult wraps the paginated services plus the next page cursor.
type ServiceListResult struct {
	Services   []ServiceDTO `json:"services"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func categoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

// NewServiceDTO builds a DTO from the persisted model with preloaded relations.
func NewServiceDTO(svc *models.Service) *ServiceDTO {
	images := make([]ServiceImageDTO, 0, len(svc.Images))
	for _, img := range svc.Images {
		images = append(images, ServiceImageDTO{
			ID:       img.ID,
			URL:      img.URL,
			Position: img.Position,
		})
	}
	dto := &ServiceDTO{
		ID:           svc.ID,
		Title:        svc.Title,
		Description:  svc.Description,
		Price:        svc.Price,
		DeliveryTime: svc.DeliveryTime,
		Seller:       SellerSummaryDTO{ID: svc.SellerID},
		Images:       images,
		CreatedAt:    svc.CreatedAt,
		UpdatedAt:    svc.UpdatedAt,
	}
	if svc.Category != nil {
		dto.Category = categoryDTO(*svc.Category)
	} else {
		dto.Category = CategoryDTO{ID: svc.CategoryID}
	}
	if svc.Seller != nil {
		dto.Seller.FullName = svc.Seller.FullName()
	}
	return dto
}
