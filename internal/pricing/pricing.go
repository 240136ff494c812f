package pricing

import "math"

// Membership tiers, lowest to highest.
const (
	TierSilver   = "silver"
	TierGold     = "gold"
	TierDiamond  = "diamond"
	TierPlatinum = "platinum"
	TierGarage   = "garage"
)

var discountRates = map[string]float64{
	TierSilver:   0,
	TierGold:     0.05,
	TierDiamond:  0.10,
	TierPlatinum: 0.15,
	TierGarage:   0.20,
}

var pointRates = map[string]float64{
	TierSilver:   1,
	TierGold:     1.2,
	TierDiamond:  1.5,
	TierPlatinum: 2,
	TierGarage:   2.5,
}

var shippingBaseCosts = map[string]float64{
	"Saudi Arabia": 0,
	"UAE":          50,
	"Kuwait":       45,
	"Qatar":        40,
	"Bahrain":      35,
	"Oman":         55,
}

// defaultInternationalBase applies to any country not in the base table.
const defaultInternationalBase = 100

var upgradeThresholds = map[string]int{
	TierSilver:   1000,
	TierGold:     2500,
	TierDiamond:  5000,
	TierPlatinum: 10000,
}

var tierOrder = []string{TierSilver, TierGold, TierDiamond, TierPlatinum, TierGarage}

// MembershipDiscount returns the discount fraction for a tier.
// Unknown tiers get no discount.
func MembershipDiscount(tier string) float64 {
	return discountRates[tier]
}

// PointsEarned returns the loyalty points credited for a purchase amount.
func PointsEarned(amount float64, tier string) int {
	rate, ok := pointRates[tier]
	if !ok {
		rate = 1
	}
	return int(math.Floor(amount * rate))
}

// ShippingCost returns the delivery charge for a destination country and the
// total order weight in kilograms. The per-bracket surcharge is charged per
// started 5kg bracket.
func ShippingCost(country string, totalWeight float64) float64 {
	base, ok := shippingBaseCosts[country]
	if !ok {
		base = defaultInternationalBase
	}
	brackets := math.Ceil(totalWeight / 5)
	// a chargeable destination always pays at least one bracket
	if brackets == 0 && base > 0 {
		brackets = 1
	}
	return base + brackets*10
}

// CanUpgrade reports whether a member holding the given points qualifies for
// the next tier.
func CanUpgrade(tier string, points int) bool {
	threshold, ok := upgradeThresholds[tier]
	if !ok {
		return false
	}
	return points >= threshold
}

// NextLevel returns the tier above the given one, or "" at the top.
func NextLevel(tier string) string {
	for i, t := range tierOrder {
		if t == tier && i < len(tierOrder)-1 {
			return tierOrder[i+1]
		}
	}
	return ""
}
