package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
)

// ReviewDTO is the transport shape for a single review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"service_id"`
	OrderID   int64     `json:"order_id"`
	BuyerID   uuid.UUID `json:"buyer_id"`
	BuyerName string    `json:"buyer_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewList wraps paginated reviews plus the next page cursor.
type ReviewList struct {
	Reviews    []ReviewDTO `json:"reviews"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ReviewedServiceDTO is the summary returned when listing services the
// buyer has already reviewed.
type ReviewedServiceDTO struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// CreateReviewInput carries the buyer-supplied review fields.
type CreateReviewInput struct {
	ServiceID uuid.UUID `json:"service_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"max=2000"`
}

// NewReviewDTO builds a DTO from the persisted model.
func NewReviewDTO(review *models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        review.ID,
		ServiceID: review.ServiceID,
		OrderID:   review.OrderID,
		BuyerID:   review.BuyerID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if review.Buyer != nil {
		dto.BuyerName = review.Buyer.FullName()
	}
	return dto
}
