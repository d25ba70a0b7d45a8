package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/service/cart"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartUseCase is a mock implementation of cart.CartUseCase
type MockCartUseCase struct {
	mock.Mock
}

func (m *MockCartUseCase) view(args mock.Arguments) (*cart.View, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.View), args.Error(1)
}

func (m *MockCartUseCase) Create(ctx context.Context) (*cart.View, error) {
	return m.view(m.Called(ctx))
}

func (m *MockCartUseCase) Get(ctx context.Context, cartID string) (*cart.View, error) {
	return m.view(m.Called(ctx, cartID))
}

func (m *MockCartUseCase) AddItem(ctx context.Context, cartID, comboID string) (*cart.View, error) {
	return m.view(m.Called(ctx, cartID, comboID))
}

func (m *MockCartUseCase) RemoveItem(ctx context.Context, cartID, comboID string) (*cart.View, error) {
	return m.view(m.Called(ctx, cartID, comboID))
}

func (m *MockCartUseCase) Checkout(ctx context.Context, cartID string, details cart.CustomerDetails) (*cart.Receipt, error) {
	args := m.Called(ctx, cartID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Receipt), args.Error(1)
}

func (m *MockCartUseCase) SweepExpired() int {
	return m.Called().Int(0)
}

func newCartRouter(service cart.CartUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewCartHandler(service).Register(router.Group("/carts"))
	return router
}

func checkoutRequest(t *testing.T, details cart.CustomerDetails) *http.Request {
	t.Helper()
	body, err := json.Marshal(details)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/carts/c1/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCartHandler_create(t *testing.T) {
	mockService := &MockCartUseCase{}
	router := newCartRouter(mockService)
	mockService.On("Create", mock.Anything).Return(&cart.View{ID: "c1", Items: []cart.ItemView{}, TotalLabel: "0.00"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/carts", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	var response cart.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "c1", response.ID)
}

func TestCartHandler_items(t *testing.T) {
	mockService := &MockCartUseCase{}
	router := newCartRouter(mockService)
	mockService.On("AddItem", mock.Anything, "c1", "5").Return(&cart.View{ID: "c1", Total: 25}, nil).Once()
	mockService.On("AddItem", mock.Anything, "c1", "404").Return(nil, cart.ErrComboNotFound).Once()
	mockService.On("RemoveItem", mock.Anything, "c1", "5").Return(&cart.View{ID: "c1"}, nil).Once()
	mockService.On("RemoveItem", mock.Anything, "old", "5").Return(nil, cart.ErrCartNotFound).Once()

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{"POST", "/carts/c1/items/5", http.StatusOK},
		{"POST", "/carts/c1/items/404", http.StatusNotFound},
		{"DELETE", "/carts/c1/items/5", http.StatusOK},
		{"DELETE", "/carts/old/items/5", http.StatusNotFound},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, tc.method+" "+tc.path)
	}
	mockService.AssertExpectations(t)
}

func TestCartHandler_checkout(t *testing.T) {
	details := cart.CustomerDetails{Name: "Ana", Email: "ana@example.com"}

	t.Run("recorded", func(t *testing.T) {
		mockService := &MockCartUseCase{}
		router := newCartRouter(mockService)
		receipt := &cart.Receipt{Purchases: []domain.ComboPurchase{{ID: "p1", ComboID: "5", Quantity: 2, Total: 50}}, Total: 50}
		mockService.On("Checkout", mock.Anything, "c1", details).Return(receipt, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, checkoutRequest(t, details))

		assert.Equal(t, http.StatusCreated, w.Code)
		var response cart.Receipt
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 50.0, response.Total)
	})

	t.Run("empty cart", func(t *testing.T) {
		mockService := &MockCartUseCase{}
		router := newCartRouter(mockService)
		mockService.On("Checkout", mock.Anything, "c1", details).Return(nil, cart.ErrEmptyCart)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, checkoutRequest(t, details))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("partially recorded", func(t *testing.T) {
		mockService := &MockCartUseCase{}
		router := newCartRouter(mockService)
		partial := &cart.PartialCheckoutError{
			Submitted: []domain.ComboPurchase{{ID: "p1", ComboID: "5"}},
			Total:     2,
			Err:       errors.New("connection reset"),
		}
		mockService.On("Checkout", mock.Anything, "c1", details).Return(nil, partial)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, checkoutRequest(t, details))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		var response struct {
			Error     string                 `json:"error"`
			Purchases []domain.ComboPurchase `json:"purchases"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Purchases, 1)
		assert.Equal(t, "p1", response.Purchases[0].ID)
	})
}
