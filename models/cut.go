package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// One sellable cut in the catalog.
type Cut struct {
	gorm.Model
	Name   string `gorm:"not null" json:"name"`                      // e.g. “Arm Chuck Roast”
	NameZh string `gorm:"column:name_zh;not null" json:"name_zh"`    // localized display name
	Part   string `gorm:"not null" json:"part"`                      // primal section, e.g. “Chuck”
	Lean   bool   `json:"lean"`

	PriceMin     decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_min"`
	PriceMax     decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_max"`
	PriceMean    decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_mean"`
	PriceDisplay string          `json:"price_display"` // cached “$a – $b” form

	Notes    string `json:"notes"`
	ImageKey string `gorm:"not null" json:"image_key"` // local asset key before upload

	// Remote asset pointer. Either both are set or neither is —
	// the catalog never holds a key without its public URL.
	S3Key    *string `gorm:"column:s3_key" json:"s3_key"`
	ImageURL *string `json:"image_url"`

	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	CookingMethods []CookingMethod   `gorm:"many2many:cut_cooking_methods;constraint:OnDelete:CASCADE" json:"cooking_methods"`
	Dishes         []RecommendedDish `gorm:"many2many:cut_dishes;constraint:OnDelete:CASCADE" json:"dishes"`
}
