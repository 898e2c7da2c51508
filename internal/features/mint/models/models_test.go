package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	for _, valid := range []string{"common", "rare", "legendary"} {
		tier, err := ParseTier(valid)
		require.NoError(t, err)
		assert.Equal(t, Tier(valid), tier)
	}

	for _, invalid := range []string{"", "Common", "epic", "COMMON"} {
		_, err := ParseTier(invalid)
		assert.Error(t, err, "tier %q", invalid)
	}
}

func TestTierDisplayName(t *testing.T) {
	assert.Equal(t, "Common Warrior", TierCommon.DisplayName())
	assert.Equal(t, "Rare Champion", TierRare.DisplayName())
	assert.Equal(t, "Legendary Hero", TierLegendary.DisplayName())
}

func TestTierTokenAllocation(t *testing.T) {
	assert.Equal(t, int64(40000), TierCommon.TokenAllocation())
	assert.Equal(t, int64(300000), TierRare.TokenAllocation())
	assert.Equal(t, int64(1000000), TierLegendary.TokenAllocation())
}

func TestQuantityClamps(t *testing.T) {
	// Stepping past either bound is a silent no-op.
	assert.Equal(t, 2, IncrementQuantity(1, 10))
	assert.Equal(t, 10, IncrementQuantity(10, 10))
	assert.Equal(t, 10, IncrementQuantity(11, 10))

	assert.Equal(t, 1, DecrementQuantity(2))
	assert.Equal(t, 1, DecrementQuantity(1))
	assert.Equal(t, 0, DecrementQuantity(0))
}

func TestMintRequestTotalTinybar(t *testing.T) {
	r := &MintRequest{Quantity: 3, UnitPriceTinybar: 2500000000}
	assert.Equal(t, int64(7500000000), r.TotalTinybar())
}

func TestPricingPriceFor(t *testing.T) {
	var nilPricing *Pricing
	assert.Equal(t, int64(0), nilPricing.PriceFor(TierCommon))
	assert.Equal(t, int64(0), (&Pricing{}).PriceFor(TierCommon))

	p := &Pricing{PriceTinybar: map[Tier]int64{TierRare: 25000000000}}
	assert.Equal(t, int64(25000000000), p.PriceFor(TierRare))
	assert.Equal(t, int64(0), p.PriceFor(TierCommon))
}
