package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mediline-service/internal/app/config"
	"mediline-service/internal/app/contracts"
	"mediline-service/internal/app/models"
	"mediline-service/internal/pkg/constvars"
	"mediline-service/internal/pkg/dto/requests"
	"mediline-service/internal/pkg/exceptions"
)

type fakeOrderUsecase struct {
	contracts.OrderUsecase
	created *requests.CreateOrder
}

func (uc *fakeOrderUsecase) CreateOrder(_ context.Context, _ *models.Requester, request *requests.CreateOrder) (*models.Order, error) {
	uc.created = request
	return &models.Order{
		ID:      "order-1",
		OrderNo: "ORD202608290001",
		UserID:  "user-1",
		Kind:    models.OrderKind(request.OrderKind),
		Status:  models.OrderStatusPending,
	}, nil
}

func newTestOrderController() (*OrderController, *fakeOrderUsecase) {
	usecase := &fakeOrderUsecase{}
	controller := &OrderController{
		Log: zap.NewNop(),
		InternalConfig: &config.InternalConfig{
			Payment: config.AppPayment{ProcessTimeoutInSeconds: 5},
		},
		OrderUsecase: usecase,
	}
	return controller, usecase
}

func postOrder(controller *OrderController, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), constvars.CONTEXT_REQUESTER_KEY, &models.Requester{
		UserID: "user-1",
		Role:   constvars.RoleTypeUser,
	})
	rec := httptest.NewRecorder()
	controller.CreateOrder(rec, req.WithContext(ctx))
	return rec
}

func TestCreateOrderValidation(t *testing.T) {
	t.Run("valid request passes through", func(t *testing.T) {
		controller, usecase := newTestOrderController()

		rec := postOrder(controller, `{"order_kind":"consultation","amount":"68.00"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, usecase.created)
		assert.Equal(t, "consultation", usecase.created.OrderKind)
	})

	t.Run("invalid field answers 400 with the field message", func(t *testing.T) {
		controller, usecase := newTestOrderController()

		rec := postOrder(controller, `{"order_kind":"subscription"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, usecase.created, "invalid input must not reach the usecase")

		var body exceptions.CustomError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, constvars.StatusBadRequest, body.StatusCode)
		assert.False(t, body.Success)
		assert.Contains(t, body.ClientMessage, "orderkind")
	})

	t.Run("missing required field answers 400", func(t *testing.T) {
		controller, _ := newTestOrderController()

		rec := postOrder(controller, `{"amount":"68.00"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json answers 400", func(t *testing.T) {
		controller, _ := newTestOrderController()

		rec := postOrder(controller, `{"order_kind":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no requester answers 401", func(t *testing.T) {
		controller, _ := newTestOrderController()

		req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(`{"order_kind":"consultation"}`))
		rec := httptest.NewRecorder()
		controller.CreateOrder(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
