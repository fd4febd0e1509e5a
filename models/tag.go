package models

import "gorm.io/gorm"

// CookingMethod and RecommendedDish are shared lookup tags, created
// lazily on first use and referenced by many cuts. Deleting a cut
// removes the join rows only; the tag rows survive.

type CookingMethod struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type RecommendedDish struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
