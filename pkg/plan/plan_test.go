package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Free, Normalize(""))
	assert.Equal(t, Free, Normalize("enterprise"))
	assert.Equal(t, Starter, Normalize("starter"))
	assert.Equal(t, Business, Normalize("business"))
	assert.Equal(t, Agency, Normalize("agency"))

	// rows written under the old pricing model
	assert.Equal(t, Starter, Normalize("pro"))
}

func TestGetFallsBackToFree(t *testing.T) {
	limits := Get("nonsense")
	assert.Equal(t, "Free", limits.Name)
	assert.Equal(t, 3, limits.AIEditsPerMonth)
	assert.Equal(t, 1, limits.MaxTotalSites)
	assert.Equal(t, 0, limits.MaxPublishedSites)
}

func TestFeatureGating(t *testing.T) {
	assert.False(t, CanUseFeature(Free, CustomDomain))
	assert.False(t, CanUseFeature(Free, Logo))
	assert.True(t, CanUseFeature(Free, Forms))

	assert.True(t, CanUseFeature(Starter, CustomDomain))
	assert.False(t, CanUseFeature(Starter, Logo))

	assert.True(t, CanUseFeature(Business, Logo))
	assert.True(t, CanUseFeature(Agency, Logo))

	assert.False(t, CanUseFeature(Tier("bogus"), Forms))
}

func TestTierForAmount(t *testing.T) {
	assert.Equal(t, Starter, TierForAmount(900))
	assert.Equal(t, Starter, TierForAmount(BusinessAmountCents-1))
	assert.Equal(t, Business, TierForAmount(BusinessAmountCents))
	assert.Equal(t, Business, TierForAmount(3000))
	assert.Equal(t, Agency, TierForAmount(AgencyAmountCents))
	assert.Equal(t, Agency, TierForAmount(9900))
}

func TestStripePriceRegistry(t *testing.T) {
	RegisterStripePrice("price_biz_test", Business)

	tier, ok := TierForPriceID("price_biz_test")
	assert.True(t, ok)
	assert.Equal(t, Business, tier)

	_, ok = TierForPriceID("price_unknown")
	assert.False(t, ok)
}
