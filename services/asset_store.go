package services

import (
	"context"

	"github.com/ryanlai666/Meat-Cut/utils"
)

// AssetStore is the capability the engine needs from the remote image
// store. utils.S3AssetStore is the production implementation; tests use
// an in-memory fake. Transport concerns (auth, retry, backoff) live
// behind this interface.
type AssetStore interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (utils.RemoteAsset, error)
	Update(ctx context.Context, id string, data []byte, contentType string) (utils.RemoteAsset, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]utils.RemoteObject, error)
	Download(ctx context.Context, id string) ([]byte, error)
	URLFor(id string) string
}
