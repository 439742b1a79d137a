package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/freshcart-backend/internal/app/repository"
	"github.com/ikkim/freshcart-backend/internal/app/service"
	"github.com/ikkim/freshcart-backend/internal/storage"
	"github.com/ikkim/freshcart-backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Initialize(logger.Config{Level: "disabled"})
}

type testEnv struct {
	router  *gin.Engine
	store   storage.Store
	catalog service.CatalogService
	cart    service.CartService
}

func setupControllerTest(t *testing.T, store storage.Store) *testEnv {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}

	catalog := service.NewCatalogService(repository.NewProductRepository(store), time.Second)
	catalog.Load(context.Background())
	cart := service.NewCartService(repository.NewCartRepository(store), catalog, nil, time.Second)
	cart.Load(context.Background())

	productController := NewProductController(catalog, cart)
	cartController := NewCartController(cart)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	products := router.Group("/api/v1/products")
	products.GET("", productController.ListProducts)
	products.GET("/categories", productController.ListCategories)
	products.GET("/:id", productController.GetProduct)
	products.POST("", productController.CreateProduct)

	cartGroup := router.Group("/api/v1/cart")
	cartGroup.GET("", cartController.GetCart)
	cartGroup.POST("", cartController.AddToCart)
	cartGroup.PATCH("/:id", cartController.ChangeQuantity)
	cartGroup.DELETE("/:id", cartController.RemoveFromCart)
	cartGroup.DELETE("", cartController.ClearCart)

	return &testEnv{router: router, store: store, catalog: catalog, cart: cart}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// failingPutStore reads normally but rejects every write
type failingPutStore struct {
	*storage.MemoryStore
}

func (s failingPutStore) Put(ctx context.Context, key string, value []byte) error {
	return errors.New("disk full")
}
