package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillbridge/skillbridge-backend/pkg/db/models"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
	pkgerrors "github.com/skillbridge/skillbridge-backend/pkg/errors"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order         *models.Order
	created       *models.Order
	updatedStatus enums.OrderStatus
	updateErr     error
	existsResult  bool
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == 0 {
		order.ID = 1
	}
	if order.UUID == uuid.Nil {
		order.UUID = uuid.New()
	}
	s.created = order
	s.order = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.UUID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.FindByUUID(ctx, id)
}

func (s *stubOrdersRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) ListAll(ctx context.Context, params pagination.Params) (*OrderList, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedStatus = status
	return nil
}

func (s *stubOrdersRepo) MarkPaid(ctx context.Context, id int64, status enums.OrderStatus) error {
	panic("not implemented")
}

func (s *stubOrdersRepo) FindCompletedByBuyerAndService(ctx context.Context, buyerID, serviceID uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) ExistsByBuyerAndService(ctx context.Context, buyerID, serviceID uuid.UUID) (bool, error) {
	return s.existsResult, nil
}

type stubServiceLoader struct {
	service *models.Service
	err     error
}

func (s stubServiceLoader) FindServiceByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.service == nil || s.service.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.service, nil
}

type stubNotifier struct {
	completed []*models.Order
	err       error
}

func (s *stubNotifier) OrderCompleted(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if s.err != nil {
		return s.err
	}
	s.completed = append(s.completed, order)
	return nil
}

type stubOrdersTxRunner struct{}

func (stubOrdersTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newOrdersTestService(t *testing.T, repo *stubOrdersRepo, loader stubServiceLoader, notifier *stubNotifier, notify bool) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:             repo,
		Tx:               stubOrdersTxRunner{},
		Services:         loader,
		Notifier:         notifier,
		NotifyOnComplete: notify,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sellerService(sellerID uuid.UUID) *models.Service {
	return &models.Service{
		ID:       uuid.New(),
		SellerID: sellerID,
		Title:    "Logo design",
	}
}

func TestCreateOrderStartsPendingUnpaid(t *testing.T) {
	sellerID := uuid.New()
	buyerID := uuid.New()
	listing := sellerService(sellerID)
	repo := &stubOrdersRepo{}
	svc := newOrdersTestService(t, repo, stubServiceLoader{service: listing}, nil, false)

	dto, err := svc.Create(context.Background(), buyerID, listing.ID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if dto.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
	if dto.IsPaid {
		t.Fatalf("expected new order to be unpaid")
	}
	if dto.UUID == uuid.Nil {
		t.Fatalf("expected external uuid to be assigned")
	}
}

func TestCreateOrderRejectsOwnListing(t *testing.T) {
	sellerID := uuid.New()
	listing := sellerService(sellerID)
	repo := &stubOrdersRepo{}
	svc := newOrdersTestService(t, repo, stubServiceLoader{service: listing}, nil, false)

	_, err := svc.Create(context.Background(), sellerID, listing.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("expected no order to be created")
	}
}

func TestCreateOrderUnknownService(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newOrdersTestService(t, repo, stubServiceLoader{}, nil, false)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func buildOrder(buyerID, sellerID uuid.UUID, status enums.OrderStatus) *models.Order {
	listing := sellerService(sellerID)
	return &models.Order{
		ID:        7,
		UUID:      uuid.New(),
		BuyerID:   buyerID,
		ServiceID: listing.ID,
		Service:   listing,
		Status:    status,
	}
}

func TestUpdateStatusSellerOnly(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	order := buildOrder(buyerID, sellerID, enums.OrderStatusPending)
	repo := &stubOrdersRepo{order: order}
	svc := newOrdersTestService(t, repo, stubServiceLoader{service: order.Service}, nil, false)

	_, err := svc.UpdateStatus(context.Background(), buyerID, order.UUID, enums.OrderStatusInProgress)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-seller, got %v", err)
	}

	dto, err := svc.UpdateStatus(context.Background(), sellerID, order.UUID, enums.OrderStatusInProgress)
	if err != nil {
		t.Fatalf("seller update failed: %v", err)
	}
	if dto.Status != enums.OrderStatusInProgress {
		t.Fatalf("expected in_progress, got %s", dto.Status)
	}
	if repo.updatedStatus != enums.OrderStatusInProgress {
		t.Fatalf("repo not updated, got %s", repo.updatedStatus)
	}
}

func TestUpdateStatusSameStatusConflicts(t *testing.T) {
	sellerID := uuid.New()
	order := buildOrder(uuid.New(), sellerID, enums.OrderStatusInProgress)
	repo := &stubOrdersRepo{order: order}
	svc := newOrdersTestService(t, repo, stubServiceLoader{service: order.Service}, nil, false)

	_, err := svc.UpdateStatus(context.Background(), sellerID, order.UUID, enums.OrderStatusInProgress)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestUpdateStatusAnyDistinctTransition(t *testing.T) {
	sellerID := uuid.New()
	for _, from := range []enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusCanceled} {
		order := buildOrder(uuid.New(), sellerID, from)
		repo := &stubOrdersRepo{order: order}
		svc := newOrdersTestService(t, repo, stubServiceLoader{service: order.Service}, nil, false)

		dto, err := svc.UpdateStatus(context.Background(), sellerID, order.UUID, enums.OrderStatusPending)
		if err != nil {
			t.Fatalf("transition from %s failed: %v", from, err)
		}
		if dto.Status != enums.OrderStatusPending {
			t.Fatalf("expected pending, got %s", dto.Status)
		}
	}
}

func TestUpdateStatusCompletionNotifiesWhenEnabled(t *testing.T) {
	sellerID := uuid.New()
	order := buildOrder(uuid.New(), sellerID, enums.OrderStatusInProgress)
	repo := &stubOrdersRepo{order: order}
	notifier := &stubNotifier{}
	svc := newOrdersTestService(t, repo, stubServiceLoader{service: order.Service}, notifier, true)

	_, err := svc.UpdateStatus(context.Background(), sellerID, order.UUID, enums.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if len(notifier.completed) != 1 {
		t.Fatalf("expected one completion notification, got %d", len(notifier.completed))
	}
}

func TestUpdateStatusCompletionSilentWhenDisabled(t *testing.T) {
	sellerID := uuid.New()
	order := buildOrder(uuid.New(), sellerID, enums.OrderStatusInProgress)
	repo := &stubOrdersRepo{order: order}
	notifier := &stubNotifier{}
	svc := newOrdersTestService(t, repo, stubServiceLoader{service: order.Service}, notifier, false)

	_, err := svc.UpdateStatus(context.Background(), sellerID, order.UUID, enums.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if len(notifier.completed) != 0 {
		t.Fatalf("expected no notification when disabled, got %d", len(notifier.completed))
	}
}

func TestGetByUUIDAccessControl(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	order := buildOrder(buyerID, sellerID, enums.OrderStatusPending)
	repo := &stubOrdersRepo{order: order}
	svc := newOrdersTestService(t, repo, stubServiceLoader{service: order.Service}, nil, false)
	ctx := context.Background()

	for _, actor := range []Actor{
		{UserID: buyerID},
		{UserID: sellerID},
		{UserID: uuid.New(), IsStaff: true},
	} {
		dto, err := svc.GetByUUID(ctx, actor, order.UUID)
		if err != nil {
			t.Fatalf("expected access for %+v, got %v", actor, err)
		}
		if dto.UUID != order.UUID {
			t.Fatalf("unexpected order returned")
		}
	}

	_, err := svc.GetByUUID(ctx, Actor{UserID: uuid.New()}, order.UUID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func TestHasOrdered(t *testing.T) {
	repo := &stubOrdersRepo{existsResult: true}
	svc := newOrdersTestService(t, repo, stubServiceLoader{}, nil, false)

	ok, err := svc.HasOrdered(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("has ordered: %v", err)
	}
	if !ok {
		t.Fatalf("expected true")
	}
}
