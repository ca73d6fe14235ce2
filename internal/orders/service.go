package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type serviceLoader interface {
	FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
}

// CompletionNotifier records an in-app notification when a seller marks
// an order completed. Wired behind a config flag.
type CompletionNotifier interface {
	OrderCompleted(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

// Actor identifies who is performing an order operation.
type Actor struct {
	UserID  uuid.UUID
	IsStaff bool
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, buyerID, serviceID uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, actor Actor, params pagination.Params) (*OrderList, error)
	ListReceived(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error)
	GetByUUID(ctx context.Context, actor Actor, orderUUID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, sellerID, orderUUID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	HasOrdered(ctx context.Context, buyerID, serviceID uuid.UUID) (bool, error)
}

type service struct {
	repo           Repository
	tx             txRunner
	services       serviceLoader
	notifier       CompletionNotifier
	notifyComplete bool
}

// ServiceParams bundles the dependencies for the orders service.
// Notifier may be nil when completion notifications are disabled.
type ServiceParams struct {
	Repo             Repository
	Tx               txRunner
	Services         serviceLoader
	Notifier         CompletionNotifier
	NotifyOnComplete bool
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Services == nil {
		return nil, fmt.Errorf("service loader required")
	}
	if params.NotifyOnComplete && params.Notifier == nil {
		return nil, fmt.Errorf("completion notifier required when notifications enabled")
	}
	return &service{
		repo:           params.Repo,
		tx:             params.Tx,
		services:       params.Services,
		notifier:       params.Notifier,
		notifyComplete: params.NotifyOnComplete,
	}, nil
}

func (s *service) Create(ctx context.Context, buyerID, serviceID uuid.UUID) (*OrderDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if serviceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}

	listing, err := s.services.FindServiceByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if listing.SellerID == buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot order your own service")
	}

	order := &models.Order{
		BuyerID:   buyerID,
		ServiceID: serviceID,
		Status:    enums.OrderStatusPending,
	}
	if _, err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	created, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return NewOrderDTO(created), nil
}

func (s *service) ListMine(ctx context.Context, actor Actor, params pagination.Params) (*OrderList, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	var (
		list *OrderList
		err  error
	)
	if actor.IsStaff {
		list, err = s.repo.ListAll(ctx, params)
	} else {
		list, err = s.repo.ListByBuyer(ctx, actor.UserID, params)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return list, nil
}

func (s *service) ListReceived(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListBySeller(ctx, sellerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller orders")
	}
	return list, nil
}

func (s *service) GetByUUID(ctx context.Context, actor Actor, orderUUID uuid.UUID) (*OrderDTO, error) {
	if actor.UserID == uuid.Nil && !actor.IsStaff {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderUUID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order uuid required")
	}

	order, err := s.repo.FindByUUID(ctx, orderUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !actor.IsStaff && !isParticipant(order, actor.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return NewOrderDTO(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, sellerID, orderUUID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderUUID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order uuid required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByUUID(ctx, orderUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Service == nil || order.Service.SellerID != sellerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the seller can update order status")
		}
		if order.Status == status {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already has this status")
		}

		if err := repo.UpdateStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = status
		updated = order

		if status == enums.OrderStatusCompleted && s.notifyComplete {
			if err := s.notifier.OrderCompleted(ctx, tx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(updated), nil
}

func (s *service) HasOrdered(ctx context.Context, buyerID, serviceID uuid.UUID) (bool, error) {
	if buyerID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if serviceID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}
	ok, err := s.repo.ExistsByBuyerAndService(ctx, buyerID, serviceID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check orders")
	}
	return ok, nil
}

func isParticipant(order *models.Order, userID uuid.UUID) bool {
	if order.BuyerID == userID {
		return true
	}
	return order.Service != nil && order.Service.SellerID == userID
}
