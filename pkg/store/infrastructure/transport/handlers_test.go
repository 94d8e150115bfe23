package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "storefront/pkg/store/application/service"
	"storefront/pkg/store/domain/model"
	"storefront/pkg/store/domain/service"
	"storefront/pkg/store/infrastructure/metrics"
	"storefront/pkg/store/infrastructure/storage"
)

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(service.Event) error { return nil }

type stubGenerator struct{}

func (stubGenerator) GenerateImage(context.Context, string) (model.GeneratedImage, error) {
	return model.GeneratedImage{MIMEType: "image/jpeg", Data: []byte("jpg")}, nil
}

func newServer(t *testing.T, generator model.ImageGenerator) (http.Handler, service.StoreService) {
	logrus.SetOutput(bytes.NewBuffer(nil))
	logger, _ := logtest.NewNullLogger()
	store := service.NewStoreService(storage.NewMemoryStorage(), noopDispatcher{}, service.WithLogger(logger))
	router := Router(
		store,
		app.NewCheckoutService(store, time.Millisecond),
		app.NewProductImageService(store, generator, time.Second),
		metrics.NewServerMetrics(),
	)
	return router, store
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, &payload))
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestProductEndpoints(t *testing.T) {
	h, store := newServer(t, nil)

	t.Run("List filters by category", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/products?category=Wine", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		products := decodeBody[[]model.Product](t, rec)
		require.Len(t, products, 2)
		assert.Equal(t, model.Wine, products[0].Category)
	})

	t.Run("Create assigns the next id", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/products", model.ProductDetails{Name: "Pale Ale", Category: model.Beer, PriceCents: 3500, Stock: 48})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 6, decodeBody[model.Product](t, rec).ID)
		assert.Len(t, store.Products(), 6)
	})

	t.Run("Create rejects negative price", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/products", model.ProductDetails{Name: "Bad", PriceCents: -1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, store.Products(), 6)
	})

	t.Run("Patch merges fields", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/v1/products/1", map[string]any{"stock": 3})
		require.Equal(t, http.StatusOK, rec.Code)
		product := decodeBody[model.Product](t, rec)
		assert.Equal(t, 3, product.Stock)
		assert.Equal(t, "Reserve Japanese Malt", product.Name)
	})

	t.Run("Low stock", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/products?lowStock=10", nil)
		products := decodeBody[[]model.Product](t, rec)
		require.Len(t, products, 2)
		assert.Equal(t, 1, products[0].ID)
	})

	t.Run("Related excludes the product itself", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/products/1/related?limit=1", nil)
		products := decodeBody[[]model.Product](t, rec)
		require.Len(t, products, 1)
		assert.Equal(t, 2, products[0].ID)
	})

	t.Run("Unknown product", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/products/404", nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPatch, "/api/v1/products/404", map[string]any{"stock": 1}).Code)
		assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/v1/products/404", nil).Code)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/v1/products/6", nil).Code)
		_, err := store.Product(6)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestCartAndCheckout(t *testing.T) {
	h, store := newServer(t, nil)

	t.Run("Checkout of an empty cart conflicts", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/checkout", model.CustomerDetails{Name: "A"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Add rejects zero quantity", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/cart", map[string]int{"productId": 3, "quantity": 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Add merges lines and quotes shipping", func(t *testing.T) {
		do(t, h, http.MethodPost, "/api/v1/cart", map[string]int{"productId": 3, "quantity": 1})
		rec := do(t, h, http.MethodPost, "/api/v1/cart", map[string]int{"productId": 3, "quantity": 1})
		require.Equal(t, http.StatusOK, rec.Code)

		cart := decodeBody[cartResponse](t, rec)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, app.Quote{SubtotalCents: 109800, ShippingCents: 15000, TotalCents: 124800}, cart.Quote)
	})

	t.Run("Zero quantity update removes the line", func(t *testing.T) {
		do(t, h, http.MethodPost, "/api/v1/cart", map[string]int{"productId": 5, "quantity": 1})
		rec := do(t, h, http.MethodPatch, "/api/v1/cart/5", map[string]int{"quantity": 0})
		cart := decodeBody[cartResponse](t, rec)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].ProductID)
	})

	t.Run("Checkout places a pending order", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/checkout", model.CustomerDetails{Name: "Zanele", Email: "z@jhb.co.za"})
		require.Equal(t, http.StatusCreated, rec.Code)
		orderID := decodeBody[map[string]string](t, rec)["orderId"]
		assert.Regexp(t, `^ORD-\d{6}$`, orderID)

		rec = do(t, h, http.MethodGet, "/api/v1/orders/"+orderID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		order := decodeBody[model.Order](t, rec)
		assert.Equal(t, model.Pending, order.Status)
		assert.Equal(t, int64(109800), order.TotalCents)
		assert.Empty(t, store.Cart())
	})
}

func TestOrderStatusEndpoint(t *testing.T) {
	h, _ := newServer(t, nil)

	t.Run("Backward move conflicts", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/v1/orders/ORD-8821/status", statusRequest{Status: model.Pending})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Unknown status", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/v1/orders/ORD-8821/status", statusRequest{Status: "shipped"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown order", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/v1/orders/ORD-000000/status", statusRequest{Status: model.Delivered})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Forward move", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/v1/orders/ORD-8821/status", statusRequest{Status: model.Delivered})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.Delivered, decodeBody[model.Order](t, rec).Status)
	})

	t.Run("Force overrides the chain", func(t *testing.T) {
		rec := do(t, h, http.MethodPatch, "/api/v1/orders/ORD-8821/status?force=true", statusRequest{Status: model.Pending})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.Pending, decodeBody[model.Order](t, rec).Status)
	})

	t.Run("Filter by status", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/orders?status=pending", nil)
		assert.Len(t, decodeBody[[]model.Order](t, rec), 1)
	})
}

func TestConfigEndpoint(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodPatch, "/api/v1/config", map[string]string{"storeName": "Cellar", "primaryColor": model.ColorGold})
	require.Equal(t, http.StatusOK, rec.Code)
	config := decodeBody[model.StoreConfig](t, rec)
	assert.Equal(t, "Cellar", config.StoreName)
	assert.Equal(t, model.ColorGold, config.PrimaryColor)
	assert.Equal(t, model.SeedConfig().HeroHeadline, config.HeroHeadline)

	rec = do(t, h, http.MethodPatch, "/api/v1/config", map[string]string{"layout": "carousel"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImageEndpoints(t *testing.T) {
	t.Run("Generation unavailable", func(t *testing.T) {
		h, _ := newServer(t, nil)
		rec := do(t, h, http.MethodPost, "/api/v1/products/1/image", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("Render requires a name", func(t *testing.T) {
		h, _ := newServer(t, stubGenerator{})
		rec := do(t, h, http.MethodPost, "/api/v1/images/render", renderImageRequest{Category: model.Wine})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Refresh stores the image", func(t *testing.T) {
		h, store := newServer(t, stubGenerator{})
		rec := do(t, h, http.MethodPost, "/api/v1/products/2/image", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		product, err := store.Product(2)
		require.NoError(t, err)
		assert.Equal(t, "data:image/jpeg;base64,anBn", product.Image)
	})
}

func TestDashboardAndCustomers(t *testing.T) {
	h, _ := newServer(t, nil)

	stats := decodeBody[service.DashboardStats](t, do(t, h, http.MethodGet, "/api/v1/dashboard", nil))
	assert.Equal(t, 5, stats.CatalogItems)
	assert.Equal(t, int64(245000), stats.NetRevenueCents)

	customers := decodeBody[[]model.Customer](t, do(t, h, http.MethodGet, "/api/v1/customers?term=nairobi", nil))
	require.Len(t, customers, 1)
	assert.Equal(t, "Wanjiku Kamau", customers[0].Name)
}

func TestRequestIDAndMetrics(t *testing.T) {
	h, _ := newServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodGet, "/api/v1/cart", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `storefront_http_requests_total{route="/api/v1/config",status="200"} 1`)
}
