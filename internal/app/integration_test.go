package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/freshcart-backend/config"
	"github.com/ikkim/freshcart-backend/internal/app/controller"
	"github.com/ikkim/freshcart-backend/internal/app/repository"
	"github.com/ikkim/freshcart-backend/internal/app/service"
	"github.com/ikkim/freshcart-backend/internal/db"
	"github.com/ikkim/freshcart-backend/internal/router"
	"github.com/ikkim/freshcart-backend/internal/storage"
	"github.com/ikkim/freshcart-backend/pkg/cartmirror"
	"github.com/ikkim/freshcart-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Router  *gin.Engine
	Catalog service.CatalogService
	Cart    service.CartService
	Mirror  cartmirror.Publisher
}

// startServer wires the full stack the way cmd/server does, over an existing store
func startServer(t *testing.T, store storage.Store, mirrorURL string) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Initialize(logger.Config{Level: "disabled"})

	mirror, err := cartmirror.New(mirrorURL, time.Second, 8)
	require.NoError(t, err)

	ctx := context.Background()
	catalog := service.NewCatalogService(repository.NewProductRepository(store), time.Second)
	cart := service.NewCartService(repository.NewCartRepository(store), catalog, mirror, time.Second)
	catalog.Load(ctx)
	cart.Load(ctx)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		Store:  config.StoreConfig{Driver: config.StoreDriverPostgres},
	}
	r := router.NewRouter(
		controller.NewProductController(catalog, cart),
		controller.NewCartController(cart),
		cfg,
	)

	return &TestServer{Router: r.Setup(), Catalog: catalog, Cart: cart, Mirror: mirror}
}

func (s *TestServer) request(t *testing.T, method, path, body string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	require.Less(t, w.Code, 300, w.Body.String())

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type mirrorRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (m *mirrorRecorder) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	m.mu.Lock()
	m.bodies = append(m.bodies, string(body))
	m.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (m *mirrorRecorder) last() (string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return "", 0
	}
	return m.bodies[len(m.bodies)-1], len(m.bodies)
}

func TestIntegration_ShoppingSessionSurvivesRestart(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)
	store := storage.NewPostgresStore(testDB)

	recorder := &mirrorRecorder{}
	mirrorServer := httptest.NewServer(http.HandlerFunc(recorder.handler))
	defer mirrorServer.Close()

	srv := startServer(t, store, mirrorServer.URL)

	created := srv.request(t, http.MethodPost, "/api/v1/products", `{"name":"Kale","price":"35","category":"vegetables"}`)
	product := created["product"].(map[string]interface{})
	kaleID := product["id"].(string)

	srv.request(t, http.MethodPost, "/api/v1/cart", `{"product_id":"1"}`)
	srv.request(t, http.MethodPost, "/api/v1/cart", `{"product_id":"1"}`)
	view := srv.request(t, http.MethodPost, "/api/v1/cart", `{"product_id":"`+kaleID+`"}`)
	assert.Equal(t, "115.00", view["total_display"])
	assert.Equal(t, true, view["persisted"])

	srv.Mirror.Close()
	body, count := recorder.last()
	assert.Equal(t, 3, count)
	assert.Contains(t, body, kaleID)

	// a second process over the same store sees the same state
	restarted := startServer(t, store, "")
	defer restarted.Mirror.Close()

	assert.Len(t, restarted.Catalog.Products(), 11)
	view = restarted.request(t, http.MethodGet, "/api/v1/cart", "")
	assert.Equal(t, float64(3), view["item_count"])
	assert.Equal(t, float64(2), view["line_count"])
	assert.Equal(t, "115.00", view["total_display"])

	list := restarted.request(t, http.MethodGet, "/api/v1/products?category=vegetables", "")
	assert.Equal(t, float64(4), list["count"])
}

func TestIntegration_ClearIsDurable(t *testing.T) {
	store := storage.NewMemoryStore()

	srv := startServer(t, store, "")
	srv.request(t, http.MethodPost, "/api/v1/cart", `{"product_id":"7"}`)
	srv.request(t, http.MethodDelete, "/api/v1/cart", "")
	srv.Mirror.Close()

	restarted := startServer(t, store, "")
	defer restarted.Mirror.Close()
	view := restarted.request(t, http.MethodGet, "/api/v1/cart", "")
	assert.Equal(t, float64(0), view["item_count"])
	assert.Equal(t, []interface{}{}, view["cart_items"])
}
