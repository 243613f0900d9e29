package model

import "gorm.io/gorm"

// Billable action types recorded in the usage ledger.
type EditType string

const (
	EditTypeGenerate EditType = "generate"
	EditTypeAIEdit   EditType = "ai_edit"
	EditTypeLogo     EditType = "logo_generate"
)

// UsageLog is an append-only record of one billable action. Entries are
// never mutated or deleted; quota checks only count them per calendar month.
type UsageLog struct {
	gorm.Model
	UserID   string   `json:"user_id" gorm:"index;not null"`
	SiteID   *uint    `json:"site_id"`
	EditType EditType `json:"edit_type" gorm:"index;not null"`
}
