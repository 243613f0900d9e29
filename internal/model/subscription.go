package model

import "gorm.io/gorm"

// UserSubscription is the per-user billing state, written only by the Stripe
// webhook handler. Plan enforcement reads this record rather than inferring
// a tier from site rows, so deleting a site cannot change a user's plan.
type UserSubscription struct {
	gorm.Model
	UserID           string `json:"user_id" gorm:"uniqueIndex;not null"`
	Plan             string `json:"plan" gorm:"default:'free'"`
	Status           string `json:"status" gorm:"default:'active'"`
	StripeCustomerID string `json:"stripe_customer_id"`
	StripeSubID      string `json:"stripe_subscription_id"`
}
