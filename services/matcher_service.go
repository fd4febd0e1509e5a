package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ryanlai666/Meat-Cut/models"
)

// MatcherStore is the slice of the cuts repository asset matching needs.
type MatcherStore interface {
	CutsMissingRemote() ([]models.Cut, error)
	SetRemoteAsset(id uint, key, url string) error
	TouchSyncMetadata(key string) error
}

type MatcherService struct {
	cuts  MatcherStore
	store AssetStore

	// Bulk upload tuning. Defaults keep the store's rate limiter happy.
	UploadWorkers int
	UploadDelay   time.Duration
}

func NewMatcherService(cuts MatcherStore, store AssetStore) *MatcherService {
	return &MatcherService{
		cuts:          cuts,
		store:         store,
		UploadWorkers: 4,
		UploadDelay:   200 * time.Millisecond,
	}
}

// UnmatchedCut identifies a catalog row no remote asset could be found
// for, so an operator can follow up.
type UnmatchedCut struct {
	CutID    uint   `json:"cut_id"`
	Name     string `json:"name"`
	ImageKey string `json:"image_key"`
}

// MatchReport summarizes one matching pass.
type MatchReport struct {
	Matched   int            `json:"matched"`
	Unmatched []UnmatchedCut `json:"unmatched"`
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// normalizeAssetName lowercases, strips internal whitespace and drops a
// known image extension, so “Arm Chuck Roast.JPG” and “armchuckroast”
// compare equal.
func normalizeAssetName(name string) string {
	s := strings.ToLower(name)
	s = strings.Join(strings.Fields(s), "")
	for _, ext := range imageExtensions {
		if strings.HasSuffix(s, ext) {
			return strings.TrimSuffix(s, ext)
		}
	}
	return s
}

// assetMatches applies the name heuristics between one remote asset and
// one catalog row, strongest first: exact key match, then containment
// either way on the key, then containment either way on the display
// name.
func assetMatches(assetName string, cut *models.Cut) bool {
	key := normalizeAssetName(cut.ImageKey)
	name := normalizeAssetName(cut.Name)

	switch {
	case key != "" && assetName == key:
		return true
	case key != "" && strings.Contains(assetName, key):
		return true
	case key != "" && strings.Contains(key, assetName):
		return true
	case name != "" && strings.Contains(assetName, name):
		return true
	case name != "" && strings.Contains(name, assetName):
		return true
	}
	return false
}

// MatchAssets assigns remote identifiers to catalog rows that lack one,
// by name matching against the current store listing. Rows that already
// hold an identifier are never touched; each remote asset is handed to
// at most one row per pass (first asset in listing order wins, then the
// asset leaves the pool). Rows matching nothing are reported, never
// failed.
func (m *MatcherService) MatchAssets(ctx context.Context) (*MatchReport, error) {
	listing, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	cuts, err := m.cuts.CutsMissingRemote()
	if err != nil {
		return nil, err
	}

	consumed := make(map[int]bool, len(listing))
	report := &MatchReport{}

	for i := range cuts {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}
		cut := &cuts[i]

		matched := false
		for j, asset := range listing {
			if consumed[j] {
				continue
			}
			if !assetMatches(normalizeAssetName(asset.Name), cut) {
				continue
			}
			if err := m.cuts.SetRemoteAsset(cut.ID, asset.ID, m.store.URLFor(asset.ID)); err != nil {
				return report, err
			}
			consumed[j] = true
			matched = true
			report.Matched++
			break
		}
		if !matched {
			report.Unmatched = append(report.Unmatched, UnmatchedCut{
				CutID:    cut.ID,
				Name:     cut.Name,
				ImageKey: cut.ImageKey,
			})
		}
	}

	if report.Matched > 0 {
		if err := m.cuts.TouchSyncMetadata(models.SyncKeyCatalog); err != nil {
			return report, err
		}
	}
	return report, nil
}

// LocalImage is one image file staged for bulk upload.
type LocalImage struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadError is one failed upload inside a bulk run.
type UploadError struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// UploadReport summarizes one bulk upload run. Uploads that went
// through before a failure or cancellation stay uploaded.
type UploadReport struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Errors    []UploadError `json:"errors"`
}

// UploadImages pushes local images to the remote store with a bounded
// worker pool and a small delay between calls, to stay inside the
// store's rate limits. One failed upload never aborts the batch.
// Uploaded assets are then matched onto waiting catalog rows.
func (m *MatcherService) UploadImages(ctx context.Context, images []LocalImage) (*UploadReport, error) {
	workers := m.UploadWorkers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report UploadReport
	)
	sem := make(chan struct{}, workers)

	for _, img := range images {
		select {
		case <-ctx.Done():
			wg.Wait()
			return &report, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(img LocalImage) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := m.store.Upload(ctx, img.Data, img.Name, img.ContentType)
			mu.Lock()
			if err != nil {
				report.Failed++
				report.Errors = append(report.Errors, UploadError{Name: img.Name, Reason: err.Error()})
			} else {
				report.Succeeded++
			}
			mu.Unlock()
		}(img)

		if m.UploadDelay > 0 {
			time.Sleep(m.UploadDelay)
		}
	}
	wg.Wait()

	if report.Succeeded > 0 {
		if _, err := m.MatchAssets(ctx); err != nil {
			return &report, err
		}
	}
	return &report, nil
}
