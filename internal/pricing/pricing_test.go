package pricing

import "testing"

func TestMembershipDiscount(t *testing.T) {
	cases := []struct {
		tier string
		want float64
	}{
		{TierSilver, 0},
		{TierGold, 0.05},
		{TierDiamond, 0.10},
		{TierPlatinum, 0.15},
		{TierGarage, 0.20},
		{"bronze", 0},
		{"", 0},
	}

	for _, c := range cases {
		if got := MembershipDiscount(c.tier); got != c.want {
			t.Errorf("MembershipDiscount(%q) = %v, want %v", c.tier, got, c.want)
		}
	}
}

func TestPointsEarned(t *testing.T) {
	cases := []struct {
		amount float64
		tier   string
		want   int
	}{
		{100, TierSilver, 100},
		{100, TierGold, 120},
		{100, TierDiamond, 150},
		{100, TierPlatinum, 200},
		{100, TierGarage, 250},
		{99.99, TierSilver, 99},
		{33.5, TierGold, 40},
		{100, "unknown", 100},
		{0, TierGarage, 0},
	}

	for _, c := range cases {
		if got := PointsEarned(c.amount, c.tier); got != c.want {
			t.Errorf("PointsEarned(%v, %q) = %d, want %d", c.amount, c.tier, got, c.want)
		}
	}
}

func TestShippingCost(t *testing.T) {
	cases := []struct {
		country string
		weight  float64
		want    float64
	}{
		{"Saudi Arabia", 0, 0},
		{"Saudi Arabia", 4, 10},
		{"Saudi Arabia", 12, 30},
		{"UAE", 7, 70},
		{"Kuwait", 5, 55},
		{"Qatar", 0, 50},
		{"Bahrain", 1, 45},
		{"Oman", 10.5, 85},
		{"Germany", 3, 110},
		{"Germany", 0, 110},
	}

	for _, c := range cases {
		if got := ShippingCost(c.country, c.weight); got != c.want {
			t.Errorf("ShippingCost(%q, %v) = %v, want %v", c.country, c.weight, got, c.want)
		}
	}
}

func TestUpgradePath(t *testing.T) {
	if !CanUpgrade(TierSilver, 1000) {
		t.Error("silver with 1000 points should upgrade")
	}
	if CanUpgrade(TierSilver, 999) {
		t.Error("silver with 999 points should not upgrade")
	}
	if CanUpgrade(TierGarage, 1000000) {
		t.Error("garage is the top tier, no upgrade")
	}

	if got := NextLevel(TierSilver); got != TierGold {
		t.Errorf("NextLevel(silver) = %q, want gold", got)
	}
	if got := NextLevel(TierGarage); got != "" {
		t.Errorf("NextLevel(garage) = %q, want empty", got)
	}
}
