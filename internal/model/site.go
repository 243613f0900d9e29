package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Domain verification states for custom domains.
type DomainStatus string

const (
	DomainStatusNone     DomainStatus = ""
	DomainStatusPending  DomainStatus = "pending"
	DomainStatusVerified DomainStatus = "verified"
)

type Site struct {
	gorm.Model
	UserID              string         `json:"user_id" gorm:"index;not null"`
	BusinessName        string         `json:"business_name" gorm:"not null"`
	BusinessDescription string         `json:"business_description" gorm:"type:text"`
	HTML                string         `json:"html" gorm:"type:text"`
	Slug                string         `json:"slug" gorm:"uniqueIndex;not null"`
	Published           bool           `json:"published" gorm:"default:false"`
	Plan                string         `json:"plan" gorm:"default:'free'"`
	CustomDomain        string         `json:"custom_domain" gorm:"index"`
	DomainStatus        DomainStatus   `json:"domain_status"`
	ShareToken          string         `json:"share_token" gorm:"index"`
	StripeCustomerID    string         `json:"stripe_customer_id"`
	StripeSubID         string         `json:"stripe_subscription_id"`
	StyleOptions        datatypes.JSON `json:"style_options"`

	Versions []SiteVersion `json:"-" gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
}

// SiteVersion is an immutable snapshot of a site's HTML. Rows are only ever
// appended; a snapshot is written before each destructive html mutation and
// after every restore.
type SiteVersion struct {
	gorm.Model
	SiteID      uint   `json:"site_id" gorm:"index;not null"`
	HTML        string `json:"html" gorm:"type:text"`
	Description string `json:"description"`

	Site Site `json:"-" gorm:"foreignKey:SiteID"`
}

const slugMaxBase = 40

// MakeSlug derives a URL-safe slug from the business name with a short
// random suffix, so identical names still get distinct slugs.
func MakeSlug(businessName string) string {
	base := slug.Make(businessName)
	if len(base) > slugMaxBase {
		base = strings.Trim(base[:slugMaxBase], "-")
	}
	if base == "" {
		base = "site"
	}
	return base + "-" + randomHex(3)
}

// NewShareToken returns an unguessable preview token.
func NewShareToken() string {
	return randomHex(16)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

func (s *Site) BeforeCreate(tx *gorm.DB) error {
	if s.Slug == "" {
		s.Slug = MakeSlug(s.BusinessName)
	}
	if s.Plan == "" {
		s.Plan = "free"
	}
	return nil
}
