package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/pkg/db"
	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// completedOrderFinder resolves the buyer's most recent completed order
// for a service. The orders repository satisfies it.
type completedOrderFinder interface {
	FindCompletedByBuyerAndService(ctx context.Context, buyerID, serviceID uuid.UUID) (*models.Order, error)
}

// Service gates review creation on completed purchases and serves reads.
type Service interface {
	Create(ctx context.Context, buyerID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	ListByService(ctx context.Context, serviceID uuid.UUID, params pagination.Params) (*ReviewList, error)
	MyReview(ctx context.Context, buyerID, serviceID uuid.UUID) (*ReviewDTO, error)
	ReviewedServices(ctx context.Context, buyerID uuid.UUID) ([]ReviewedServiceDTO, error)
}

type service struct {
	repo   Repository
	orders completedOrderFinder
	tx     txRunner
}

// ServiceParams bundles the dependencies for the reviews service.
type ServiceParams struct {
	Repo   Repository
	Orders completedOrderFinder
	Tx     txRunner
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("completed order finder required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: params.Repo, orders: params.Orders, tx: params.Tx}, nil
}

func (s *service) Create(ctx context.Context, buyerID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ServiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	order, err := s.orders.FindCompletedByBuyerAndService(ctx, buyerID, input.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reviews require a completed order for this service")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check completed orders")
	}

	var created *models.Review
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.ExistsByOrderAndBuyer(ctx, order.ID, buyerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order already reviewed")
		}

		review := &models.Review{
			BuyerID:   buyerID,
			ServiceID: input.ServiceID,
			OrderID:   order.ID,
			Rating:    input.Rating,
			Comment:   strings.TrimSpace(input.Comment),
		}
		if err := repo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "idx_reviews_order_buyer") {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order already reviewed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}
		created = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	loaded, err := s.repo.FindByID(ctx, created.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload review")
	}
	dto := NewReviewDTO(loaded)
	return &dto, nil
}

func (s *service) ListByService(ctx context.Context, serviceID uuid.UUID, params pagination.Params) (*ReviewList, error) {
	if serviceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}
	list, err := s.repo.ListByService(ctx, serviceID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return list, nil
}

func (s *service) MyReview(ctx context.Context, buyerID, serviceID uuid.UUID) (*ReviewDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if serviceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}

	review, err := s.repo.FindLatestByBuyerAndService(ctx, buyerID, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	dto := NewReviewDTO(review)
	return &dto, nil
}

func (s *service) ReviewedServices(ctx context.Context, buyerID uuid.UUID) ([]ReviewedServiceDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	services, err := s.repo.ListReviewedServicesByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviewed services")
	}
	return services, nil
}
