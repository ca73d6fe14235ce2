package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
)

// OrderServiceSummary captures the service fields returned with an order.
type OrderServiceSummary struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	DeliveryTime int             `json:"delivery_time"`
	SellerID     uuid.UUID       `json:"seller_id"`
	SellerName   string          `json:"seller_name,omitempty"`
}

// OrderBuyerSummary captures the buyer fields returned with an order.
type OrderBuyerSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name,omitempty"`
}

// OrderDTO is the transport shape for a single order. The sequential id
// doubles as the human-facing order number; uuid is the external handle.
type OrderDTO struct {
	ID        int64               `json:"id"`
	UUID      uuid.UUID           `json:"uuid"`
	Status    enums.OrderStatus   `json:"status"`
	IsPaid    bool                `json:"is_paid"`
	OrderDate time.Time           `json:"order_date"`
	Service   OrderServiceSummary `json:"service"`
	Buyer     OrderBuyerSummary   `json:"buyer"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds a DTO from the persisted model with preloaded relations.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:        order.ID,
		UUID:      order.UUID,
		Status:    order.Status,
		IsPaid:    order.IsPaid,
		OrderDate: order.OrderDate,
		Service:   OrderServiceSummary{ID: order.ServiceID},
		Buyer:     OrderBuyerSummary{ID: order.BuyerID},
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	if order.Service != nil {
		dto.Service.Title = order.Service.Title
		dto.Service.Price = order.Service.Price
		dto.Service.DeliveryTime = order.Service.DeliveryTime
		dto.Service.SellerID = order.Service.SellerID
		if order.Service.Seller != nil {
			dto.Service.SellerName = order.Service.Seller.FullName()
		}
	}
	if order.Buyer != nil {
		dto.Buyer.FullName = order.Buyer.FullName()
	}
	return dto
}
