package controller

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"

	"clientmint_backend/internal/middleware"
	"clientmint_backend/internal/model"
	"clientmint_backend/pkg/database"
	"clientmint_backend/pkg/plan"
)

type CheckoutInput struct {
	PriceID   string `json:"priceId"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	SiteID    uint   `json:"siteId"`
}

// CreateCheckout starts a Stripe subscription checkout. The session carries
// the user and site ids so the webhook can bind the purchase back to them.
func CreateCheckout(c *fiber.Ctx) error {
	input := new(CheckoutInput)
	if err := c.BodyParser(input); err != nil || input.PriceID == "" || input.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing priceId or userId",
		})
	}

	if cfg.Stripe.SecretKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Payments are not configured",
		})
	}

	userID := middleware.CallerID(c, input.UserID)

	stripe.Key = cfg.Stripe.SecretKey

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(input.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(publicURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(publicURL + "/pricing"),
		ClientReferenceID: stripe.String(userID),
	}
	if input.UserEmail != "" {
		params.CustomerEmail = stripe.String(input.UserEmail)
	}
	params.AddMetadata("user_id", userID)
	// Stamp the tier onto the session so the webhook does not have to infer
	// it from the charged amount.
	if tier, ok := plan.TierForPriceID(input.PriceID); ok {
		params.AddMetadata("plan", string(tier))
	}
	if input.SiteID != 0 {
		params.AddMetadata("site_id", strconv.FormatUint(uint64(input.SiteID), 10))
	}

	checkoutSession, err := session.New(params)
	if err != nil {
		log.Printf("billing: could not create checkout session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{"url": checkoutSession.URL})
}

// HandleStripeWebhook applies subscription lifecycle events. Signature
// verification (timestamped HMAC, constant-time compare) is delegated to the
// Stripe SDK. Processing is idempotent only because re-applying the same
// plan/publish state is a no-op; replayed events are not deduplicated.
func HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := webhook.ConstructEvent(c.Body(), c.Get("Stripe-Signature"), cfg.Stripe.WebhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		var sessionData struct {
			ID                string            `json:"id"`
			ClientReferenceID string            `json:"client_reference_id"`
			Customer          string            `json:"customer"`
			Subscription      string            `json:"subscription"`
			AmountSubtotal    int64             `json:"amount_subtotal"`
			Metadata          map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &sessionData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Malformed event payload",
			})
		}

		userID := sessionData.ClientReferenceID
		if userID == "" {
			userID = sessionData.Metadata["user_id"]
		}
		if userID == "" {
			log.Printf("Checkout %s carries no user reference, ignoring", sessionData.ID)
			return c.JSON(fiber.Map{"received": true})
		}

		tier := plan.TierForAmount(sessionData.AmountSubtotal)
		if raw := sessionData.Metadata["plan"]; raw != "" {
			tier = plan.Normalize(raw)
		}

		var site model.Site
		found := false
		if raw := sessionData.Metadata["site_id"]; raw != "" {
			if siteID, err := strconv.ParseUint(raw, 10, 64); err == nil {
				if err := database.GetDB().
					Where("id = ? AND user_id = ?", uint(siteID), userID).
					First(&site).Error; err == nil {
					found = true
				}
			}
		}
		if !found {
			// No site reference on the event: upgrade the caller's most
			// recently created site.
			if err := database.GetDB().
				Where("user_id = ?", userID).
				Order("created_at desc").
				First(&site).Error; err == nil {
				found = true
			}
		}

		if found {
			if err := database.GetDB().Model(&site).Updates(map[string]interface{}{
				"plan":               string(tier),
				"published":          true,
				"stripe_customer_id": sessionData.Customer,
				"stripe_sub_id":      sessionData.Subscription,
			}).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not update site plan",
				})
			}
		}

		var sub model.UserSubscription
		database.GetDB().Where("user_id = ?", userID).First(&sub)
		sub.UserID = userID
		sub.Plan = string(tier)
		sub.Status = "active"
		sub.StripeCustomerID = sessionData.Customer
		sub.StripeSubID = sessionData.Subscription
		if err := database.GetDB().Save(&sub).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription",
			})
		}

		log.Printf("Checkout %s completed: user %s on %s", sessionData.ID, userID, tier)

	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Malformed event payload",
			})
		}

		log.Printf("Processing subscription cancellation: %s", subData.ID)

		if err := database.GetDB().Model(&model.Site{}).
			Where("stripe_sub_id = ?", subData.ID).
			Updates(map[string]interface{}{
				"plan":      string(plan.Free),
				"published": false,
			}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not downgrade site",
			})
		}

		if err := database.GetDB().Model(&model.UserSubscription{}).
			Where("stripe_sub_id = ?", subData.ID).
			Updates(map[string]interface{}{
				"plan":   string(plan.Free),
				"status": "cancelled",
			}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}

		log.Printf("Subscription %s cancelled", subData.ID)
	}

	return c.JSON(fiber.Map{"received": true})
}
