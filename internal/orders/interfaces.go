package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListAll(ctx context.Context, params pagination.Params) (*OrderList, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error
	MarkPaid(ctx context.Context, id int64, status enums.OrderStatus) error
	FindCompletedByBuyerAndService(ctx context.Context, buyerID, serviceID uuid.UUID) (*models.Order, error)
	ExistsByBuyerAndService(ctx context.Context, buyerID, serviceID uuid.UUID) (bool, error)
}
