// Package usage wraps the append-only ledger of billable actions. Writes are
// best-effort: a ledger failure is logged and never propagated, so
// bookkeeping problems cannot block the user-facing operation that already
// succeeded.
package usage

import (
	"log"
	"time"

	"clientmint_backend/internal/model"
	"clientmint_backend/pkg/database"
	"clientmint_backend/pkg/plan"
)

// Record appends one ledger entry. Errors are logged and swallowed.
func Record(userID string, siteID *uint, editType model.EditType) {
	entry := model.UsageLog{
		UserID:   userID,
		SiteID:   siteID,
		EditType: editType,
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		log.Printf("usage: could not record %s for user %s: %v", editType, userID, err)
	}
}

// MonthlyCount counts a user's entries of one type since the first instant
// of the current calendar month. The boundary is computed in UTC so multiple
// instances agree on when a month rolls over.
func MonthlyCount(userID string, editType model.EditType) (int64, error) {
	var count int64
	err := database.GetDB().Model(&model.UsageLog{}).
		Where("user_id = ? AND edit_type = ? AND created_at >= ?", userID, editType, MonthStart(time.Now())).
		Count(&count).Error
	return count, err
}

// MonthStart returns the first instant of t's calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Summary is the quota status returned by the edit-usage endpoint.
type Summary struct {
	Plan      string                `json:"plan"`
	EditCount int64                 `json:"editCount"`
	EditLimit int                   `json:"editLimit"`
	Remaining int64                 `json:"remaining"`
	SiteCount int64                 `json:"siteCount"`
	Features  map[plan.Feature]bool `json:"features"`
}

// Summarize combines a user's plan limits with the month's edit count. The
// site count comes from the site store, not the ledger, so deleted sites free
// quota immediately.
func Summarize(userID string) (Summary, error) {
	tier := ResolveUserTier(userID)
	limits := plan.Table[tier]

	editCount, err := MonthlyCount(userID, model.EditTypeAIEdit)
	if err != nil {
		return Summary{}, err
	}

	var siteCount int64
	if err := database.GetDB().Model(&model.Site{}).
		Where("user_id = ?", userID).Count(&siteCount).Error; err != nil {
		return Summary{}, err
	}

	remaining := int64(limits.AIEditsPerMonth) - editCount
	if remaining < 0 {
		remaining = 0
	}

	return Summary{
		Plan:      string(tier),
		EditCount: editCount,
		EditLimit: limits.AIEditsPerMonth,
		Remaining: remaining,
		SiteCount: siteCount,
		Features:  limits.AllowedFeatures,
	}, nil
}

// ResolveUserTier reads the user's subscription record. Users with no record
// or a cancelled subscription enforce at the free tier.
func ResolveUserTier(userID string) plan.Tier {
	var sub model.UserSubscription
	err := database.GetDB().
		Where("user_id = ? AND status = ?", userID, "active").
		First(&sub).Error
	if err != nil {
		return plan.Free
	}
	return plan.Normalize(sub.Plan)
}
