package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/internal/orders"
	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

// Service persists in-app notifications and serves recipient-scoped reads.
// It doubles as the emitter the order and payment flows call inside their
// transactions.
type Service interface {
	NotifySeller(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, orderID int64, message string) error
	OrderPaid(ctx context.Context, tx *gorm.DB, order *models.Order) error
	OrderCompleted(ctx context.Context, tx *gorm.DB, order *models.Order) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type service struct {
	repo   Repository
	orders orders.Repository
}

// NewService wires notifications dependencies. The orders repository is
// used to hydrate buyer and service fields when an emitter receives a
// bare order row.
func NewService(repo Repository, ordersRepo orders.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, orders: ordersRepo}, nil
}

func (s *service) NotifySeller(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, orderID int64, message string) error {
	if sellerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	if orderID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}

	notification := &models.Notification{
		RecipientID: sellerID,
		OrderID:     orderID,
		Message:     message,
	}
	if err := s.repo.WithTx(tx).Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (s *service) OrderPaid(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	loaded, err := s.hydrate(ctx, tx, order)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("%s purchased %q (order #%d)",
		buyerDisplayName(loaded), loaded.Service.Title, loaded.ID)
	return s.NotifySeller(ctx, tx, loaded.Service.SellerID, loaded.ID, message)
}

func (s *service) OrderCompleted(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	loaded, err := s.hydrate(ctx, tx, order)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("Order #%d from %s for %q is completed",
		loaded.ID, buyerDisplayName(loaded), loaded.Service.Title)
	return s.NotifySeller(ctx, tx, loaded.Service.SellerID, loaded.ID, message)
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.RecipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	query := listNotificationsParams{
		RecipientID: params.RecipientID,
		Limit:       params.Limit,
		UnreadOnly:  params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	result := &ListResult{
		Notifications: make([]NotificationDTO, 0, len(rows)),
		NextCursor:    next,
	}
	for i := range rows {
		result.Notifications = append(result.Notifications, NewNotificationDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	if recipientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	if recipientID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	count, err := s.repo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

// hydrate reloads the order with its buyer and service when the caller
// handed over a bare row, as the locked payment path does.
func (s *service) hydrate(ctx context.Context, tx *gorm.DB, order *models.Order) (*models.Order, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	if order.Service != nil && order.Buyer != nil {
		return order, nil
	}
	loaded, err := s.orders.WithTx(tx).FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order for notification")
	}
	return loaded, nil
}

func buyerDisplayName(order *models.Order) string {
	if order.Buyer == nil {
		return "A buyer"
	}
	if name := order.Buyer.FullName(); name != "" {
		return name
	}
	return order.Buyer.Email
}
