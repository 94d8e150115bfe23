package tests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "storefront/pkg/store/application/service"
	"storefront/pkg/store/domain/model"
	"storefront/pkg/store/domain/service"
	"storefront/pkg/store/infrastructure/storage"
)

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(service.Event) error { return nil }

func newStore(t *testing.T) service.StoreService {
	logger, _ := logtest.NewNullLogger()
	return service.NewStoreService(storage.NewMemoryStorage(), noopDispatcher{}, service.WithLogger(logger))
}

func TestQuote(t *testing.T) {
	storeService := newStore(t)
	checkout := app.NewCheckoutService(storeService, 0)
	products := model.SeedProducts()

	t.Run("Charges shipping on small carts", func(t *testing.T) {
		storeService.AddToCart(products[4], 1)
		assert.Equal(t, app.Quote{SubtotalCents: 32500, ShippingCents: 15000, TotalCents: 47500}, checkout.Quote())
	})

	t.Run("Free shipping over the threshold", func(t *testing.T) {
		storeService.AddToCart(products[0], 1)
		quote := checkout.Quote()
		assert.Zero(t, quote.ShippingCents)
		assert.Equal(t, int64(277500), quote.TotalCents)
	})
}

func TestPlaceOrder(t *testing.T) {
	t.Run("Rejects an empty cart", func(t *testing.T) {
		checkout := app.NewCheckoutService(newStore(t), 0)
		_, err := checkout.PlaceOrder(context.Background(), model.CustomerDetails{Name: "A"})
		assert.ErrorIs(t, err, app.ErrEmptyCart)
	})

	t.Run("Checks out after the payment delay", func(t *testing.T) {
		storeService := newStore(t)
		storeService.AddToCart(model.SeedProducts()[0], 1)
		checkout := app.NewCheckoutService(storeService, time.Millisecond)

		orderID, err := checkout.PlaceOrder(context.Background(), model.CustomerDetails{Name: "A", Email: "a@b.com"})
		require.NoError(t, err)

		order, err := storeService.FindOrder(orderID)
		require.NoError(t, err)
		assert.Equal(t, int64(245000), order.TotalCents)
		assert.Empty(t, storeService.Cart())
	})

	t.Run("Cancelled context keeps the cart", func(t *testing.T) {
		storeService := newStore(t)
		storeService.AddToCart(model.SeedProducts()[0], 1)
		checkout := app.NewCheckoutService(storeService, time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := checkout.PlaceOrder(ctx, model.CustomerDetails{Name: "A"})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Len(t, storeService.Cart(), 1)
		assert.Len(t, storeService.Orders(), 1)
	})
}

func TestPlaceOrderConcurrentlyPlacesOneOrder(t *testing.T) {
	storeService := newStore(t)
	storeService.AddToCart(model.SeedProducts()[0], 1)
	checkout := app.NewCheckoutService(storeService, 50*time.Millisecond)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = checkout.PlaceOrder(context.Background(), model.CustomerDetails{Name: "A"})
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, app.ErrEmptyCart)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	orders := storeService.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(245000), orders[0].TotalCents)
	assert.Len(t, orders[0].Items, 1)
}

type mockGenerator struct {
	image  model.GeneratedImage
	err    error
	prompt string
	block  bool
}

func (m *mockGenerator) GenerateImage(ctx context.Context, prompt string) (model.GeneratedImage, error) {
	m.prompt = prompt
	if m.block {
		<-ctx.Done()
		return model.GeneratedImage{}, ctx.Err()
	}
	return m.image, m.err
}

func TestRefreshProductImage(t *testing.T) {
	t.Run("Stores the generated image as a data uri", func(t *testing.T) {
		storeService := newStore(t)
		generator := &mockGenerator{image: model.GeneratedImage{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}}
		images := app.NewProductImageService(storeService, generator, time.Second)

		product, err := images.RefreshProductImage(context.Background(), 3)
		require.NoError(t, err)

		assert.Equal(t, "data:image/png;base64,iVBORw==", product.Image)
		assert.Contains(t, generator.prompt, `premium Spirits bottle named "Botanical Dry Gin"`)
	})

	t.Run("Failure leaves the product unchanged", func(t *testing.T) {
		storeService := newStore(t)
		before, _ := storeService.Product(3)
		images := app.NewProductImageService(storeService, &mockGenerator{err: errors.New("at capacity")}, time.Second)

		_, err := images.RefreshProductImage(context.Background(), 3)
		assert.ErrorIs(t, err, app.ErrGenerationUnavailable)

		after, _ := storeService.Product(3)
		assert.Equal(t, before, after)
	})

	t.Run("Timeout counts as failure", func(t *testing.T) {
		storeService := newStore(t)
		images := app.NewProductImageService(storeService, &mockGenerator{block: true}, 10*time.Millisecond)

		_, err := images.RefreshProductImage(context.Background(), 1)
		assert.ErrorIs(t, err, app.ErrGenerationUnavailable)

		product, _ := storeService.Product(1)
		assert.True(t, strings.HasPrefix(product.Image, "https://"))
	})

	t.Run("Missing generator degrades gracefully", func(t *testing.T) {
		images := app.NewProductImageService(newStore(t), nil, time.Second)
		_, err := images.RefreshProductImage(context.Background(), 1)
		assert.ErrorIs(t, err, app.ErrGenerationUnavailable)
	})

	t.Run("Unknown product", func(t *testing.T) {
		images := app.NewProductImageService(newStore(t), &mockGenerator{}, time.Second)
		_, err := images.RefreshProductImage(context.Background(), 404)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestRenderImageRequiresName(t *testing.T) {
	images := app.NewProductImageService(newStore(t), &mockGenerator{}, time.Second)
	_, err := images.RenderImage(context.Background(), "  ", model.Wine)
	assert.ErrorIs(t, err, app.ErrProductNameRequired)
}
