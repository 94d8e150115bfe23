package model

import (
	"context"

	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("storage key not found")

// Keys of the persisted records. Each holds one JSON document.
const (
	ProductsKey = "products"
	OrdersKey   = "orders"
	ConfigKey   = "config"
)

// Storage is durable key/value storage. Save overwrites the whole value.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
}

type GeneratedImage struct {
	MIMEType string
	Data     []byte
}

// ImageGenerator is the generative content collaborator used for product artwork.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (GeneratedImage, error)
}
