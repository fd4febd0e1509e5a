package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCutNotFound is returned when a cut is not found.
var ErrCutNotFound = errors.New("cut not found")

// CutFilters carries the optional predicates of a catalog search.
// Zero values mean “not filtered”.
type CutFilters struct {
	Query    string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Part     string
	Lean     *bool
	Method   string
}

// PriceRange is the global [min, max] across the whole catalog.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

type CutsRepository struct {
	db *gorm.DB
}

func NewCutsRepository(db *gorm.DB) *CutsRepository {
	return &CutsRepository{db: db}
}

func (r *CutsRepository) Create(cut *Cut) error {
	return r.db.Create(cut).Error
}

func (r *CutsRepository) Save(cut *Cut) error {
	return r.db.Save(cut).Error
}

func (r *CutsRepository) GetByID(id uint) (*Cut, error) {
	var cut Cut
	err := r.db.
		Preload("CookingMethods").
		Preload("Dishes").
		First(&cut, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCutNotFound
		}
		return nil, err
	}
	return &cut, nil
}

func (r *CutsRepository) GetBySlug(slug string) (*Cut, error) {
	var cut Cut
	err := r.db.
		Preload("CookingMethods").
		Preload("Dishes").
		Where("slug = ?", slug).
		First(&cut).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCutNotFound
		}
		return nil, err
	}
	return &cut, nil
}

// Delete removes the cut together with its tag join rows. The tag rows
// themselves are shared and survive.
func (r *CutsRepository) Delete(id uint) error {
	cut, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if err := r.db.Model(cut).Association("CookingMethods").Clear(); err != nil {
		return err
	}
	if err := r.db.Model(cut).Association("Dishes").Clear(); err != nil {
		return err
	}
	return r.db.Unscoped().Delete(cut).Error
}

func (r *CutsRepository) List(offset, limit int) ([]Cut, error) {
	var cuts []Cut
	q := r.db.
		Preload("CookingMethods").
		Preload("Dishes").
		Order("name ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return cuts, q.Find(&cuts).Error
}

// SlugExists reports whether any cut other than excludeID already holds
// the slug. Pass excludeID 0 when creating a new record.
func (r *CutsRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&Cut{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindOrCreateMethod returns the cooking-method row for name, creating
// it on first use. The unique index on name makes the create race-safe:
// a conflicting insert falls back to the existing row.
func (r *CutsRepository) FindOrCreateMethod(name string) (*CookingMethod, error) {
	var m CookingMethod
	err := r.db.Where(CookingMethod{Name: name}).FirstOrCreate(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CutsRepository) FindOrCreateDish(name string) (*RecommendedDish, error) {
	var d RecommendedDish
	err := r.db.Where(RecommendedDish{Name: name}).FirstOrCreate(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ReplaceMethods resets the cut's cooking-method edges to exactly the
// given names. Replace is idempotent: associating a tag twice is a no-op.
func (r *CutsRepository) ReplaceMethods(cut *Cut, names []string) error {
	methods := make([]CookingMethod, 0, len(names))
	for _, n := range names {
		m, err := r.FindOrCreateMethod(n)
		if err != nil {
			return err
		}
		methods = append(methods, *m)
	}
	return r.db.Model(cut).Association("CookingMethods").Replace(methods)
}

func (r *CutsRepository) ReplaceDishes(cut *Cut, names []string) error {
	dishes := make([]RecommendedDish, 0, len(names))
	for _, n := range names {
		d, err := r.FindOrCreateDish(n)
		if err != nil {
			return err
		}
		dishes = append(dishes, *d)
	}
	return r.db.Model(cut).Association("Dishes").Replace(dishes)
}

// Search runs the dynamic multi-predicate catalog query. Predicates are
// accumulated as parameterized clauses; the cooking-method join is added
// only when that filter is present. Total is counted before pagination.
func (r *CutsRepository) Search(offset, limit int, filters CutFilters) ([]Cut, int64, error) {
	query := r.db.Model(&Cut{})

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where(
			"cuts.name ILIKE ? OR cuts.name_zh ILIKE ? OR cuts.part ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	// Range overlap, not containment: a cut priced [5,7] matches a
	// requested window of [6,9].
	if filters.PriceMin != nil {
		query = query.Where("cuts.price_max >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("cuts.price_min <= ?", *filters.PriceMax)
	}
	if filters.Part != "" {
		query = query.Where("cuts.part = ?", filters.Part)
	}
	if filters.Lean != nil {
		query = query.Where("cuts.lean = ?", *filters.Lean)
	}
	if filters.Method != "" {
		query = query.
			Joins("JOIN cut_cooking_methods ccm ON ccm.cut_id = cuts.id").
			Joins("JOIN cooking_methods cm ON cm.id = ccm.cooking_method_id").
			Where("cm.name = ?", filters.Method)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cuts []Cut
	q := query.
		Preload("CookingMethods").
		Preload("Dishes").
		Order("cuts.name ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&cuts).Error; err != nil {
		return nil, 0, err
	}
	return cuts, total, nil
}

// GlobalPriceRange returns the min/max across the entire catalog,
// regardless of any filters — the UI uses it to size its range slider.
func (r *CutsRepository) GlobalPriceRange() (PriceRange, error) {
	var row struct {
		Min decimal.NullDecimal
		Max decimal.NullDecimal
	}
	err := r.db.Model(&Cut{}).
		Select("MIN(price_min) AS min, MAX(price_max) AS max").
		Scan(&row).Error
	if err != nil {
		return PriceRange{}, err
	}
	return PriceRange{Min: row.Min.Decimal, Max: row.Max.Decimal}, nil
}

// Facets returns the distinct parts and cooking-method names present
// anywhere in the catalog, for populating filter controls.
func (r *CutsRepository) Facets() (parts []string, methods []string, err error) {
	if err = r.db.Model(&Cut{}).
		Distinct("part").
		Order("part ASC").
		Pluck("part", &parts).Error; err != nil {
		return nil, nil, err
	}
	if err = r.db.Model(&CookingMethod{}).
		Order("name ASC").
		Pluck("name", &methods).Error; err != nil {
		return nil, nil, err
	}
	return parts, methods, nil
}

// CutsMissingRemote returns the rows that still lack a remote asset
// pointer, in insertion order.
func (r *CutsRepository) CutsMissingRemote() ([]Cut, error) {
	var cuts []Cut
	err := r.db.Where("s3_key IS NULL").Order("id ASC").Find(&cuts).Error
	return cuts, err
}

func (r *CutsRepository) CutsWithRemote() ([]Cut, error) {
	var cuts []Cut
	err := r.db.Where("s3_key IS NOT NULL").Order("id ASC").Find(&cuts).Error
	return cuts, err
}

func (r *CutsRepository) CountCuts() (int64, error) {
	var count int64
	err := r.db.Model(&Cut{}).Count(&count).Error
	return count, err
}

func (r *CutsRepository) CountWithRemote() (int64, error) {
	var count int64
	err := r.db.Model(&Cut{}).Where("s3_key IS NOT NULL").Count(&count).Error
	return count, err
}

// SetRemoteAsset writes the remote pointer pair. Key and URL travel
// together so the paired-presence invariant can't be broken halfway.
func (r *CutsRepository) SetRemoteAsset(id uint, key, url string) error {
	return r.db.Model(&Cut{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"s3_key": key, "image_url": url}).Error
}

// TouchSyncMetadata upserts the last-update timestamp for one concern.
func (r *CutsRepository) TouchSyncMetadata(key string) error {
	row := SyncMetadata{Key: key, Value: time.Now().UTC()}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (r *CutsRepository) GetSyncMetadata(key string) (*SyncMetadata, error) {
	var row SyncMetadata
	if err := r.db.Where("key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
