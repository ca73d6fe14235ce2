package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

// Repository exposes persistence helpers for reviews.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ExistsByOrderAndBuyer(ctx context.Context, orderID int64, buyerID uuid.UUID) (bool, error)
	ListByService(ctx context.Context, serviceID uuid.UUID, params pagination.Params) (*ReviewList, error)
	FindLatestByBuyerAndService(ctx context.Context, buyerID, serviceID uuid.UUID) (*models.Review, error)
	ListReviewedServicesByBuyer(ctx context.Context, buyerID uuid.UUID) ([]ReviewedServiceDTO, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a reviews repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		First(&review, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repositoryImpl) ExistsByOrderAndBuyer(ctx context.Context, orderID int64, buyerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("order_id = ? AND buyer_id = ?", orderID, buyerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) ListByService(ctx context.Context, serviceID uuid.UUID, params pagination.Params) (*ReviewList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Preload("Buyer").
		Where("service_id = ?", serviceID)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Review
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &ReviewList{Reviews: make([]ReviewDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID.String()})
	}
	for i := range rows {
		list.Reviews = append(list.Reviews, NewReviewDTO(&rows[i]))
	}
	return list, nil
}

func (r *repositoryImpl) FindLatestByBuyerAndService(ctx context.Context, buyerID, serviceID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Where("buyer_id = ? AND service_id = ?", buyerID, serviceID).
		Order("created_at DESC").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repositoryImpl) ListReviewedServicesByBuyer(ctx context.Context, buyerID uuid.UUID) ([]ReviewedServiceDTO, error) {
	var rows []ReviewedServiceDTO
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("DISTINCT services.id, services.title").
		Joins("JOIN services ON services.id = reviews.service_id").
		Where("reviews.buyer_id = ?", buyerID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
