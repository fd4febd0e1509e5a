package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ryanlai666/Meat-Cut/models"
	"github.com/ryanlai666/Meat-Cut/utils"
)

func decimalFrom(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// fakeRepo is an in-memory stand-in for models.CutsRepository. The
// search fake mirrors the documented query semantics (substring OR
// across name fields, price-range overlap) so service tests can assert
// end-to-end behavior without a database.
type fakeRepo struct {
	cuts    map[uint]*models.Cut
	nextID  uint
	methods map[string]uint
	dishes  map[string]uint
	meta    map[string]time.Time
	touches map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		cuts:    make(map[uint]*models.Cut),
		methods: make(map[string]uint),
		dishes:  make(map[string]uint),
		meta:    make(map[string]time.Time),
		touches: make(map[string]int),
	}
}

func (f *fakeRepo) Create(cut *models.Cut) error {
	f.nextID++
	cut.ID = f.nextID
	cut.CreatedAt = time.Now()
	cut.UpdatedAt = cut.CreatedAt
	stored := *cut
	f.cuts[cut.ID] = &stored
	return nil
}

func (f *fakeRepo) Save(cut *models.Cut) error {
	if _, ok := f.cuts[cut.ID]; !ok {
		return models.ErrCutNotFound
	}
	cut.UpdatedAt = time.Now()
	stored := *cut
	f.cuts[cut.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(id uint) (*models.Cut, error) {
	cut, ok := f.cuts[id]
	if !ok {
		return nil, models.ErrCutNotFound
	}
	copied := *cut
	return &copied, nil
}

func (f *fakeRepo) GetBySlug(slug string) (*models.Cut, error) {
	for _, cut := range f.cuts {
		if cut.Slug == slug {
			copied := *cut
			return &copied, nil
		}
	}
	return nil, models.ErrCutNotFound
}

func (f *fakeRepo) Delete(id uint) error {
	if _, ok := f.cuts[id]; !ok {
		return models.ErrCutNotFound
	}
	delete(f.cuts, id)
	return nil
}

func (f *fakeRepo) sorted() []models.Cut {
	out := make([]models.Cut, 0, len(f.cuts))
	for _, cut := range f.cuts {
		out = append(out, *cut)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeRepo) List(offset, limit int) ([]models.Cut, error) {
	out := f.sorted()
	if offset > 0 {
		if offset > len(out) {
			offset = len(out)
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) SlugExists(slug string, excludeID uint) (bool, error) {
	for _, cut := range f.cuts {
		if cut.Slug == slug && cut.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ReplaceMethods(cut *models.Cut, names []string) error {
	tags := make([]models.CookingMethod, 0, len(names))
	for _, n := range names {
		id, ok := f.methods[n]
		if !ok {
			id = uint(len(f.methods) + 1)
			f.methods[n] = id
		}
		m := models.CookingMethod{Name: n}
		m.ID = id
		tags = append(tags, m)
	}
	stored, ok := f.cuts[cut.ID]
	if !ok {
		return models.ErrCutNotFound
	}
	stored.CookingMethods = tags
	cut.CookingMethods = tags
	return nil
}

func (f *fakeRepo) ReplaceDishes(cut *models.Cut, names []string) error {
	tags := make([]models.RecommendedDish, 0, len(names))
	for _, n := range names {
		id, ok := f.dishes[n]
		if !ok {
			id = uint(len(f.dishes) + 1)
			f.dishes[n] = id
		}
		d := models.RecommendedDish{Name: n}
		d.ID = id
		tags = append(tags, d)
	}
	stored, ok := f.cuts[cut.ID]
	if !ok {
		return models.ErrCutNotFound
	}
	stored.Dishes = tags
	cut.Dishes = tags
	return nil
}

func (f *fakeRepo) SetRemoteAsset(id uint, key, url string) error {
	cut, ok := f.cuts[id]
	if !ok {
		return models.ErrCutNotFound
	}
	cut.S3Key = &key
	cut.ImageURL = &url
	return nil
}

func (f *fakeRepo) TouchSyncMetadata(key string) error {
	f.meta[key] = time.Now()
	f.touches[key]++
	return nil
}

func (f *fakeRepo) GetSyncMetadata(key string) (*models.SyncMetadata, error) {
	t, ok := f.meta[key]
	if !ok {
		return nil, nil
	}
	return &models.SyncMetadata{Key: key, Value: t}, nil
}

func (f *fakeRepo) CutsMissingRemote() ([]models.Cut, error) {
	var out []models.Cut
	for _, cut := range f.cuts {
		if cut.S3Key == nil {
			out = append(out, *cut)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) CutsWithRemote() ([]models.Cut, error) {
	var out []models.Cut
	for _, cut := range f.cuts {
		if cut.S3Key != nil {
			out = append(out, *cut)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) CountCuts() (int64, error) {
	return int64(len(f.cuts)), nil
}

func (f *fakeRepo) CountWithRemote() (int64, error) {
	var n int64
	for _, cut := range f.cuts {
		if cut.S3Key != nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Search(offset, limit int, filters models.CutFilters) ([]models.Cut, int64, error) {
	var out []models.Cut
	for _, cut := range f.sorted() {
		if filters.Query != "" {
			q := strings.ToLower(filters.Query)
			if !strings.Contains(strings.ToLower(cut.Name), q) &&
				!strings.Contains(strings.ToLower(cut.NameZh), q) &&
				!strings.Contains(strings.ToLower(cut.Part), q) {
				continue
			}
		}
		// overlap, not containment
		if filters.PriceMin != nil && cut.PriceMax.LessThan(*filters.PriceMin) {
			continue
		}
		if filters.PriceMax != nil && cut.PriceMin.GreaterThan(*filters.PriceMax) {
			continue
		}
		if filters.Part != "" && cut.Part != filters.Part {
			continue
		}
		if filters.Lean != nil && cut.Lean != *filters.Lean {
			continue
		}
		if filters.Method != "" {
			found := false
			for _, m := range cut.CookingMethods {
				if m.Name == filters.Method {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, cut)
	}

	total := int64(len(out))
	if offset > 0 {
		if offset > len(out) {
			offset = len(out)
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeRepo) GlobalPriceRange() (models.PriceRange, error) {
	var pr models.PriceRange
	first := true
	for _, cut := range f.cuts {
		if first {
			pr.Min, pr.Max = cut.PriceMin, cut.PriceMax
			first = false
			continue
		}
		if cut.PriceMin.LessThan(pr.Min) {
			pr.Min = cut.PriceMin
		}
		if cut.PriceMax.GreaterThan(pr.Max) {
			pr.Max = cut.PriceMax
		}
	}
	return pr, nil
}

func (f *fakeRepo) Facets() ([]string, []string, error) {
	seen := make(map[string]struct{})
	var parts []string
	for _, cut := range f.sorted() {
		if _, ok := seen[cut.Part]; !ok {
			seen[cut.Part] = struct{}{}
			parts = append(parts, cut.Part)
		}
	}
	sort.Strings(parts)

	methods := make([]string, 0, len(f.methods))
	for n := range f.methods {
		methods = append(methods, n)
	}
	sort.Strings(methods)
	return parts, methods, nil
}

// fakeAssetStore is an in-memory remote store.
type fakeAssetStore struct {
	mu      sync.Mutex
	objects []utils.RemoteObject
	fail    map[string]error // upload failures keyed by name
	uploads int
}

func newFakeAssetStore(objects ...utils.RemoteObject) *fakeAssetStore {
	return &fakeAssetStore{objects: objects, fail: make(map[string]error)}
}

func (f *fakeAssetStore) Upload(ctx context.Context, data []byte, name, contentType string) (utils.RemoteAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[name]; ok {
		return utils.RemoteAsset{}, err
	}
	id := "cut-images/" + name
	f.objects = append(f.objects, utils.RemoteObject{ID: id, Name: name, MimeType: contentType})
	f.uploads++
	return utils.RemoteAsset{ID: id, URL: f.URLFor(id)}, nil
}

func (f *fakeAssetStore) Update(ctx context.Context, id string, data []byte, contentType string) (utils.RemoteAsset, error) {
	return utils.RemoteAsset{ID: id, URL: f.URLFor(id)}, nil
}

func (f *fakeAssetStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.objects[:0]
	for _, obj := range f.objects {
		if obj.ID != id {
			kept = append(kept, obj)
		}
	}
	f.objects = kept
	return nil
}

func (f *fakeAssetStore) List(ctx context.Context) ([]utils.RemoteObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]utils.RemoteObject, len(f.objects))
	copy(out, f.objects)
	return out, nil
}

func (f *fakeAssetStore) Download(ctx context.Context, id string) ([]byte, error) {
	return nil, fmt.Errorf("not stored")
}

func (f *fakeAssetStore) URLFor(id string) string {
	return "https://cdn.test/" + id
}
