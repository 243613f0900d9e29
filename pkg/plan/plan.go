package plan

type Tier string
type Feature string

const (
	Free     Tier = "free"
	Starter  Tier = "starter"
	Business Tier = "business"
	Agency   Tier = "agency"
)

const (
	CustomDomain Feature = "custom_domain"
	Logo         Feature = "logo"
	Forms        Feature = "forms"
)

type Limits struct {
	Name              string
	PriceMonthly      int
	AIEditsPerMonth   int
	MaxPublishedSites int
	MaxTotalSites     int
	AllowedFeatures   map[Feature]bool
}

var Table = map[Tier]Limits{
	Free: {
		Name:              "Free",
		PriceMonthly:      0,
		AIEditsPerMonth:   3,
		MaxPublishedSites: 0,
		MaxTotalSites:     1,
		AllowedFeatures: map[Feature]bool{
			CustomDomain: false,
			Logo:         false,
			Forms:        true,
		},
	},
	Starter: {
		Name:              "Launch",
		PriceMonthly:      9,
		AIEditsPerMonth:   100,
		MaxPublishedSites: 1,
		MaxTotalSites:     2,
		AllowedFeatures: map[Feature]bool{
			CustomDomain: true,
			Logo:         false,
			Forms:        true,
		},
	},
	Business: {
		Name:              "Business",
		PriceMonthly:      24,
		AIEditsPerMonth:   300,
		MaxPublishedSites: 3,
		MaxTotalSites:     6,
		AllowedFeatures: map[Feature]bool{
			CustomDomain: true,
			Logo:         true,
			Forms:        true,
		},
	},
	Agency: {
		Name:              "Agency",
		PriceMonthly:      49,
		AIEditsPerMonth:   1000,
		MaxPublishedSites: 999,
		MaxTotalSites:     999,
		AllowedFeatures: map[Feature]bool{
			CustomDomain: true,
			Logo:         true,
			Forms:        true,
		},
	},
}

// Normalize maps persisted plan strings to a known tier. Rows written under
// the old pricing model used "pro" for what is now the starter tier.
func Normalize(key string) Tier {
	switch key {
	case "":
		return Free
	case "pro":
		return Starter
	}
	if _, ok := Table[Tier(key)]; ok {
		return Tier(key)
	}
	return Free
}

func Get(key string) Limits {
	return Table[Normalize(key)]
}

func CanUseFeature(t Tier, f Feature) bool {
	limits, ok := Table[t]
	if !ok {
		return false
	}
	return limits.AllowedFeatures[f]
}

// Monthly subscription amounts in cents, used to band a checkout subtotal
// into a tier when the webhook event carries no price ID we recognize.
const (
	AgencyAmountCents   = 4900
	BusinessAmountCents = 2400
)

func TierForAmount(amountCents int64) Tier {
	switch {
	case amountCents >= AgencyAmountCents:
		return Agency
	case amountCents >= BusinessAmountCents:
		return Business
	default:
		return Starter
	}
}

// TierForPriceID resolves a Stripe price ID to its tier. Price IDs are
// environment-specific; they are injected at boot from config.
var stripePrices = map[string]Tier{}

func RegisterStripePrice(priceID string, t Tier) {
	if priceID != "" {
		stripePrices[priceID] = t
	}
}

func TierForPriceID(priceID string) (Tier, bool) {
	t, ok := stripePrices[priceID]
	return t, ok
}
