package models

import (
	"time"

	"gorm.io/gorm"
)

// Well-known SyncMetadata keys.
const (
	SyncKeyCatalog   = "catalog_updated_at"
	SyncKeyCsvExport = "csv_exported_at"
)

// SyncMetadata holds one last-update timestamp per concern. Clients read
// these to decide whether a cached view needs a refresh.
type SyncMetadata struct {
	gorm.Model
	Key   string    `gorm:"uniqueIndex;not null" json:"key"`
	Value time.Time `json:"value"`
}
