package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ryanlai666/Meat-Cut/models"
)

// SyncStore is the read-only slice of the cuts repository the
// reconciliation check needs.
type SyncStore interface {
	CountCuts() (int64, error)
	CountWithRemote() (int64, error)
	CutsWithRemote() ([]models.Cut, error)
	GetSyncMetadata(key string) (*models.SyncMetadata, error)
}

type SyncService struct {
	cuts  SyncStore
	store AssetStore
}

func NewSyncService(cuts SyncStore, store AssetStore) *SyncService {
	return &SyncService{cuts: cuts, store: store}
}

// DanglingReference is a catalog row whose stored remote identifier no
// longer resolves in the store — the drift case the rest of the system
// guards against.
type DanglingReference struct {
	CutID uint   `json:"cut_id"`
	Name  string `json:"name"`
	S3Key string `json:"s3_key"`
}

// SyncStatus is the drift report between the relational catalog and the
// remote asset store.
type SyncStatus struct {
	CatalogCount       int64               `json:"catalog_count"`
	WithRemoteAsset    int64               `json:"with_remote_asset"`
	RemoteAssetCount   int                 `json:"remote_asset_count"`
	DanglingReferences []DanglingReference `json:"dangling_references"`
	Warnings           []string            `json:"warnings"`
	ImagesSynced       bool                `json:"images_synced"`
	LastCatalogUpdate  *time.Time          `json:"last_catalog_update"`
	LastCsvExport      *time.Time          `json:"last_csv_export"`
}

// ComputeStatus compares the catalog's remote pointers against the
// current store listing. It only reads, never repairs — drift is
// reported and left for re-ingestion to resolve — so it is safe to
// call on any cadence, and two calls without intervening mutation
// return the same report.
func (s *SyncService) ComputeStatus(ctx context.Context) (*SyncStatus, error) {
	status := &SyncStatus{
		DanglingReferences: []DanglingReference{},
		Warnings:           []string{},
	}

	var err error
	if status.CatalogCount, err = s.cuts.CountCuts(); err != nil {
		return nil, err
	}
	if status.WithRemoteAsset, err = s.cuts.CountWithRemote(); err != nil {
		return nil, err
	}

	listing, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	status.RemoteAssetCount = len(listing)

	present := make(map[string]bool, len(listing))
	for _, obj := range listing {
		present[obj.ID] = true
	}

	withRemote, err := s.cuts.CutsWithRemote()
	if err != nil {
		return nil, err
	}
	for i := range withRemote {
		cut := &withRemote[i]
		if cut.S3Key == nil || present[*cut.S3Key] {
			continue
		}
		status.DanglingReferences = append(status.DanglingReferences, DanglingReference{
			CutID: cut.ID,
			Name:  cut.Name,
			S3Key: *cut.S3Key,
		})
		status.Warnings = append(status.Warnings,
			fmt.Sprintf("cut %q (id %d) references remote object %s which no longer exists", cut.Name, cut.ID, *cut.S3Key))
	}

	status.ImagesSynced = len(status.DanglingReferences) == 0

	if meta, err := s.cuts.GetSyncMetadata(models.SyncKeyCatalog); err != nil {
		return nil, err
	} else if meta != nil {
		t := meta.Value
		status.LastCatalogUpdate = &t
	}
	if meta, err := s.cuts.GetSyncMetadata(models.SyncKeyCsvExport); err != nil {
		return nil, err
	} else if meta != nil {
		t := meta.Value
		status.LastCsvExport = &t
	}

	return status, nil
}
