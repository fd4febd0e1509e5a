package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ryanlai666/Meat-Cut/models"
	"github.com/ryanlai666/Meat-Cut/utils"
)

// CatalogStore is the slice of the cuts repository the CRUD side needs.
type CatalogStore interface {
	Create(cut *models.Cut) error
	Save(cut *models.Cut) error
	GetByID(id uint) (*models.Cut, error)
	GetBySlug(slug string) (*models.Cut, error)
	Delete(id uint) error
	List(offset, limit int) ([]models.Cut, error)
	SlugExists(slug string, excludeID uint) (bool, error)
	ReplaceMethods(cut *models.Cut, names []string) error
	ReplaceDishes(cut *models.Cut, names []string) error
	SetRemoteAsset(id uint, key, url string) error
	TouchSyncMetadata(key string) error
	GetSyncMetadata(key string) (*models.SyncMetadata, error)
}

type CatalogService struct {
	cuts  CatalogStore
	store AssetStore
}

func NewCatalogService(cuts CatalogStore, store AssetStore) *CatalogService {
	return &CatalogService{cuts: cuts, store: store}
}

// CutRequest is the admin-form shape of one cut. Tag lists arrive as
// comma-separated free text, the price as its display string.
type CutRequest struct {
	Name           string `json:"name" binding:"required"`
	NameZh         string `json:"name_zh" binding:"required"`
	Part           string `json:"part" binding:"required"`
	Lean           bool   `json:"lean"`
	PriceRange     string `json:"price_range" binding:"required"`
	Notes          string `json:"notes"`
	ImageKey       string `json:"image_key" binding:"required"`
	CookingMethods string `json:"cooking_methods"`
	Dishes         string `json:"dishes"`
}

func (s *CatalogService) CreateCut(req CutRequest) (*models.Cut, error) {
	price, err := utils.ParsePriceRange(req.PriceRange)
	if err != nil {
		return nil, fmt.Errorf("price range %q: %w", req.PriceRange, err)
	}

	slug, err := utils.AssignSlug(req.Name, func(candidate string) (bool, error) {
		return s.cuts.SlugExists(candidate, 0)
	})
	if err != nil {
		return nil, err
	}

	cut := &models.Cut{
		Name:         req.Name,
		NameZh:       req.NameZh,
		Part:         req.Part,
		Lean:         req.Lean,
		PriceMin:     price.Min,
		PriceMax:     price.Max,
		PriceMean:    price.Mean,
		PriceDisplay: utils.FormatPriceRange(price.Min, price.Max),
		Notes:        req.Notes,
		ImageKey:     req.ImageKey,
		Slug:         slug,
	}
	if err := s.cuts.Create(cut); err != nil {
		return nil, err
	}

	if err := s.associateTags(cut, req); err != nil {
		return nil, err
	}
	if err := s.cuts.TouchSyncMetadata(models.SyncKeyCatalog); err != nil {
		return nil, err
	}
	return s.cuts.GetByID(cut.ID)
}

func (s *CatalogService) UpdateCut(id uint, req CutRequest) (*models.Cut, error) {
	cut, err := s.cuts.GetByID(id)
	if err != nil {
		return nil, err
	}

	price, err := utils.ParsePriceRange(req.PriceRange)
	if err != nil {
		return nil, fmt.Errorf("price range %q: %w", req.PriceRange, err)
	}

	// The slug stays stable unless the name actually changed.
	if req.Name != cut.Name {
		slug, err := utils.AssignSlug(req.Name, func(candidate string) (bool, error) {
			return s.cuts.SlugExists(candidate, cut.ID)
		})
		if err != nil {
			return nil, err
		}
		cut.Slug = slug
	}

	cut.Name = req.Name
	cut.NameZh = req.NameZh
	cut.Part = req.Part
	cut.Lean = req.Lean
	cut.PriceMin = price.Min
	cut.PriceMax = price.Max
	cut.PriceMean = price.Mean
	cut.PriceDisplay = utils.FormatPriceRange(price.Min, price.Max)
	cut.Notes = req.Notes
	cut.ImageKey = req.ImageKey

	if err := s.cuts.Save(cut); err != nil {
		return nil, err
	}
	if err := s.associateTags(cut, req); err != nil {
		return nil, err
	}
	if err := s.cuts.TouchSyncMetadata(models.SyncKeyCatalog); err != nil {
		return nil, err
	}
	return s.cuts.GetByID(cut.ID)
}

func (s *CatalogService) associateTags(cut *models.Cut, req CutRequest) error {
	if err := s.cuts.ReplaceMethods(cut, utils.SplitTags(req.CookingMethods)); err != nil {
		return err
	}
	return s.cuts.ReplaceDishes(cut, utils.SplitTags(req.Dishes))
}

// DeleteCut removes the catalog row and best-effort deletes its remote
// image. A failed remote delete only logs: the reconciliation check
// surfaces any object left behind.
func (s *CatalogService) DeleteCut(ctx context.Context, id uint) error {
	cut, err := s.cuts.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.cuts.Delete(id); err != nil {
		return err
	}
	if cut.S3Key != nil {
		if err := s.store.Delete(ctx, *cut.S3Key); err != nil {
			log.Printf("remote delete of %s failed: %v", *cut.S3Key, err)
		}
	}
	return s.cuts.TouchSyncMetadata(models.SyncKeyCatalog)
}

func (s *CatalogService) GetCut(slug string) (*models.Cut, error) {
	return s.cuts.GetBySlug(slug)
}

func (s *CatalogService) ListCuts(offset, limit int) ([]models.Cut, error) {
	return s.cuts.List(offset, limit)
}

// AttachImage uploads a base64-encoded image for the cut and stores the
// remote pointer pair. A cut that already holds a remote object is
// updated in place so the identifier stays stable.
func (s *CatalogService) AttachImage(ctx context.Context, id uint, base64Data string) (*models.Cut, error) {
	cut, err := s.cuts.GetByID(id)
	if err != nil {
		return nil, err
	}

	data, contentType, ext, err := utils.ParseBase64Image(base64Data)
	if err != nil {
		return nil, err
	}

	var asset utils.RemoteAsset
	if cut.S3Key != nil {
		asset, err = s.store.Update(ctx, *cut.S3Key, data, contentType)
	} else {
		asset, err = s.store.Upload(ctx, data, cut.ImageKey+ext, contentType)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cuts.SetRemoteAsset(cut.ID, asset.ID, asset.URL); err != nil {
		return nil, err
	}
	if err := s.cuts.TouchSyncMetadata(models.SyncKeyCatalog); err != nil {
		return nil, err
	}
	return s.cuts.GetByID(cut.ID)
}

// LastSync reports the per-concern last-update timestamps.
func (s *CatalogService) LastSync() (map[string]interface{}, error) {
	out := make(map[string]interface{}, 2)
	for _, key := range []string{models.SyncKeyCatalog, models.SyncKeyCsvExport} {
		row, err := s.cuts.GetSyncMetadata(key)
		if err != nil {
			return nil, err
		}
		if row != nil {
			out[key] = row.Value
		} else {
			out[key] = nil
		}
	}
	return out, nil
}
