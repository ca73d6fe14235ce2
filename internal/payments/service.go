package payments

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/internal/orders"
	"github.com/skillbridge/skillbridge-backend/pkg/config"
	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type checkoutCreator interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionCreateParams) (*stripe.CheckoutSession, error)
}

// PaidNotifier records an in-app notification for the seller once an
// order's payment lands.
type PaidNotifier interface {
	OrderPaid(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

// Service bridges orders to Stripe Checkout and applies payment callbacks.
type Service interface {
	CreateCheckoutSession(ctx context.Context, buyerID, orderUUID uuid.UUID) (*CheckoutSessionDTO, error)
	ConfirmPayment(ctx context.Context, orderUUID uuid.UUID) (*ConfirmPaymentResult, error)
}

type service struct {
	repo     orders.Repository
	tx       txRunner
	stripe   checkoutCreator
	notifier PaidNotifier
	cfg      config.PaymentsConfig
}

// ServiceParams bundles the dependencies for the payments service.
type ServiceParams struct {
	Repo     orders.Repository
	Tx       txRunner
	Stripe   checkoutCreator
	Notifier PaidNotifier
	Config   config.PaymentsConfig
}

// NewService builds a payments service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("paid notifier required")
	}
	if params.Config.FrontendURL == "" {
		return nil, fmt.Errorf("frontend url required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		stripe:   params.Stripe,
		notifier: params.Notifier,
		cfg:      params.Config,
	}, nil
}

func (s *service) CreateCheckoutSession(ctx context.Context, buyerID, orderUUID uuid.UUID) (*CheckoutSessionDTO, error) {
	if buyerID == uuid.Nil {
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
	if order.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	if order.IsPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}
	if order.Status == enums.OrderStatusCanceled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is canceled")
	}
	if order.Service == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}

	params := s.buildSessionParams(order)

	reqCtx := ctx
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	session, err := s.stripe.CreateCheckoutSession(reqCtx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}
	return &CheckoutSessionDTO{
		SessionID:  session.ID,
		SessionURL: session.URL,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, orderUUID uuid.UUID) (*ConfirmPaymentResult, error) {
	if orderUUID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order uuid required")
	}

	result := &ConfirmPaymentResult{}
	var orderID int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByUUIDForUpdate(ctx, orderUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock order")
		}
		orderID = order.ID

		if order.IsPaid {
			result.AlreadyPaid = true
			return nil
		}

		if err := repo.MarkPaid(ctx, order.ID, enums.OrderStatusCompleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		order.IsPaid = true
		order.Status = enums.OrderStatusCompleted

		return s.notifier.OrderPaid(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	result.Order = orders.NewOrderDTO(order)
	return result, nil
}

func (s *service) buildSessionParams(order *models.Order) *stripe.CheckoutSessionCreateParams {
	params := &stripe.CheckoutSessionCreateParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(s.cfg.Currency),
					UnitAmount: stripe.Int64(minorUnits(order.Service.Price)),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(order.Service.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.redirectURL(order.UUID, "success")),
		CancelURL:  stripe.String(s.redirectURL(order.UUID, "cancel")),
	}
	params.Metadata = map[string]string{
		"order_uuid": order.UUID.String(),
	}
	return params
}

func (s *service) redirectURL(orderUUID uuid.UUID, alert string) string {
	query := url.Values{}
	query.Set("order_uuid", orderUUID.String())
	query.Set("alert", alert)
	return fmt.Sprintf("%s/payment/status/?%s", s.cfg.FrontendURL, query.Encode())
}

// minorUnits converts a decimal price into the currency's smallest unit,
// which is what Stripe expects for unit_amount.
func minorUnits(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}
