package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skillbridge/skillbridge-backend/api/middleware"
	"github.com/skillbridge/skillbridge-backend/internal/orders"
	"github.com/skillbridge/skillbridge-backend/pkg/enums"
	"github.com/skillbridge/skillbridge-backend/pkg/logger"
	"github.com/skillbridge/skillbridge-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

type testOrdersService struct {
	createFn       func(ctx context.Context, buyerID, serviceID uuid.UUID) (*orders.OrderDTO, error)
	updateStatusFn func(ctx context.Context, sellerID, orderUUID uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error)
	hasOrderedFn   func(ctx context.Context, buyerID, serviceID uuid.UUID) (bool, error)
}

func (s *testOrdersService) Create(ctx context.Context, buyerID, serviceID uuid.UUID) (*orders.OrderDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, buyerID, serviceID)
	}
	return &orders.OrderDTO{}, nil
}

func (s *testOrdersService) ListMine(ctx context.Context, actor orders.Actor, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *testOrdersService) ListReceived(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *testOrdersService) GetByUUID(ctx context.Context, actor orders.Actor, orderUUID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (s *testOrdersService) UpdateStatus(ctx context.Context, sellerID, orderUUID uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, sellerID, orderUUID, status)
	}
	return &orders.OrderDTO{}, nil
}

func (s *testOrdersService) HasOrdered(ctx context.Context, buyerID, serviceID uuid.UUID) (bool, error) {
	if s.hasOrderedFn != nil {
		return s.hasOrderedFn(ctx, buyerID, serviceID)
	}
	return false, nil
}

func TestCreateOrderUsesBuyerFromContext(t *testing.T) {
	buyerID := uuid.New()
	serviceID := uuid.New()
	var gotBuyer, gotService uuid.UUID
	svc := &testOrdersService{
		createFn: func(ctx context.Context, b, s uuid.UUID) (*orders.OrderDTO, error) {
			gotBuyer, gotService = b, s
			return &orders.OrderDTO{UUID: uuid.New()}, nil
		},
	}

	body := `{"service_id":"` + serviceID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withUser(req, buyerID)

	resp := httptest.NewRecorder()
	CreateOrder(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotBuyer != buyerID {
		t.Fatalf("expected buyer from token, got %s", gotBuyer)
	}
	if gotService != serviceID {
		t.Fatalf("expected service from body, got %s", gotService)
	}
}

func TestCreateOrderRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(`{"service_id":`))
	req.Header.Set("Content-Type", "application/json")
	req = withUser(req, uuid.New())

	resp := httptest.NewRecorder()
	CreateOrder(&testOrdersService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateOrderStatusParsesEnum(t *testing.T) {
	sellerID := uuid.New()
	orderUUID := uuid.New()
	var gotStatus enums.OrderStatus
	svc := &testOrdersService{
		updateStatusFn: func(ctx context.Context, sid, ouid uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
			if sid != sellerID || ouid != orderUUID {
				t.Fatalf("unexpected args %s %s", sid, ouid)
			}
			gotStatus = status
			return &orders.OrderDTO{Status: status}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+orderUUID.String()+"/update-status/", strings.NewReader(`{"status":"in_progress"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withUser(req, sellerID)
	req = addRouteParam(req, "orderUuid", orderUUID.String())

	resp := httptest.NewRecorder()
	UpdateOrderStatus(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotStatus != enums.OrderStatusInProgress {
		t.Fatalf("expected in_progress got %s", gotStatus)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+uuid.NewString()+"/update-status/", strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withUser(req, uuid.New())
	req = addRouteParam(req, "orderUuid", uuid.NewString())

	resp := httptest.NewRecorder()
	UpdateOrderStatus(&testOrdersService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetOrderByUUIDRejectsBadPathParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/by-uuid/nope/", nil)
	req = withUser(req, uuid.New())
	req = addRouteParam(req, "orderUuid", "nope")

	resp := httptest.NewRecorder()
	GetOrderByUUID(&testOrdersService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestHasOrderedServiceShape(t *testing.T) {
	serviceID := uuid.New()
	svc := &testOrdersService{
		hasOrderedFn: func(ctx context.Context, buyerID, sid uuid.UUID) (bool, error) {
			return sid == serviceID, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/has-ordered/"+serviceID.String()+"/", nil)
	req = withUser(req, uuid.New())
	req = addRouteParam(req, "serviceId", serviceID.String())

	resp := httptest.NewRecorder()
	HasOrderedService(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data["hasOrdered"] {
		t.Fatal("expected hasOrdered true")
	}
}
