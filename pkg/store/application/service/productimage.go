package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"storefront/pkg/store/domain/model"
	store "storefront/pkg/store/domain/service"
)

var (
	ErrGenerationUnavailable = errors.New("image generation is unavailable, upload an image manually")
	ErrProductNameRequired   = errors.New("product name is required for image generation")
)

const DefaultGenerationTimeout = 30 * time.Second

type ProductImageService interface {
	// RenderImage produces a data URI for a product that may not be saved yet.
	RenderImage(ctx context.Context, name string, category model.Category) (string, error)
	// RefreshProductImage replaces the image of a stored product.
	RefreshProductImage(ctx context.Context, productID int) (model.Product, error)
}

// NewProductImageService accepts a nil generator, in which case every call
// fails with ErrGenerationUnavailable.
func NewProductImageService(store store.StoreService, generator model.ImageGenerator, timeout time.Duration) ProductImageService {
	return &productImageService{store: store, generator: generator, timeout: timeout}
}

type productImageService struct {
	store     store.StoreService
	generator model.ImageGenerator
	timeout   time.Duration
}

func imagePrompt(name string, category model.Category) string {
	return fmt.Sprintf("Extreme luxury commercial product photography of a premium %s bottle named %q. "+
		"Minimalist lighting, deep shadows, ultra-high resolution, studio background, elegant composition, 8k.", category, name)
}

func (s *productImageService) RenderImage(ctx context.Context, name string, category model.Category) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrProductNameRequired
	}
	if s.generator == nil {
		return "", ErrGenerationUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	image, err := s.generator.GenerateImage(ctx, imagePrompt(name, category))
	if err != nil {
		logrus.WithError(err).WithField("product", name).Warn("image generation failed")
		return "", errors.Wrap(ErrGenerationUnavailable, err.Error())
	}

	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image.Data), nil
}

// RefreshProductImage leaves the product untouched when generation fails.
func (s *productImageService) RefreshProductImage(ctx context.Context, productID int) (model.Product, error) {
	product, err := s.store.Product(productID)
	if err != nil {
		return model.Product{}, err
	}

	uri, err := s.RenderImage(ctx, product.Name, product.Category)
	if err != nil {
		return model.Product{}, err
	}

	if err := s.store.UpdateProduct(productID, model.ProductPatch{Image: &uri}); err != nil {
		return model.Product{}, err
	}
	// the product may have been deleted while the image was generating
	return s.store.Product(productID)
}
