package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

func cart(qty int) []domain.OrderItem {
	return []domain.OrderItem{{ProductID: "p1", CategoryID: "kanchipuram", Name: "Silk Saree", Price: 1000, Quantity: qty}}
}

func TestBestOfferCouponMatchIsCaseInsensitive(t *testing.T) {
	offers := []domain.Offer{{Label: "Festival", CouponCode: "FEST10", DiscountPercent: 10}}
	snap := bestOffer(cart(2), 2000, "fest10", offers)
	require.NotNil(t, snap)
	assert.Equal(t, "FEST10", snap.CouponCode)
	assert.Equal(t, int64(200), discountAmount(2000, snap))
}

func TestBestOfferUnknownCouponAppliesNothing(t *testing.T) {
	offers := []domain.Offer{
		{Label: "Festival", CouponCode: "FEST10", DiscountPercent: 10},
		{Label: "Auto 5%", DiscountPercent: 5},
	}
	// An entered coupon that matches nothing must not silently fall back
	// to an automatic offer.
	assert.Nil(t, bestOffer(cart(2), 2000, "NOPE", offers))
}

func TestBestOfferAutomaticPicksLargestDiscount(t *testing.T) {
	offers := []domain.Offer{
		{Label: "Auto 5%", DiscountPercent: 5},
		{Label: "Big 15%", MinOrderValue: 1500, DiscountPercent: 15},
		{Label: "Huge 25%", MinOrderValue: 5000, DiscountPercent: 25},
	}
	snap := bestOffer(cart(2), 2000, "", offers)
	require.NotNil(t, snap)
	assert.Equal(t, "Big 15%", snap.Label)
}

func TestBestOfferMinItems(t *testing.T) {
	offers := []domain.Offer{{Label: "Bulk", MinItems: 3, DiscountPercent: 10}}
	assert.Nil(t, bestOffer(cart(2), 2000, "", offers))
	assert.NotNil(t, bestOffer(cart(3), 3000, "", offers))
}

func TestBestOfferCategoryRestriction(t *testing.T) {
	offers := []domain.Offer{{Label: "Kanchi only", CategoryIDs: []string{"kanchipuram"}, DiscountPercent: 10}}
	require.NotNil(t, bestOffer(cart(1), 1000, "", offers))

	other := []domain.OrderItem{{ProductID: "p2", CategoryID: "cotton", Price: 1000, Quantity: 1}}
	assert.Nil(t, bestOffer(other, 1000, "", offers))
}

func TestBestOfferProductRestriction(t *testing.T) {
	offers := []domain.Offer{{Label: "p9 only", ProductIDs: []string{"p9"}, DiscountPercent: 10}}
	assert.Nil(t, bestOffer(cart(1), 1000, "", offers))
}

func TestBestOfferCouponStillChecksConditions(t *testing.T) {
	offers := []domain.Offer{{Label: "Big cart", CouponCode: "BIG", MinOrderValue: 5000, DiscountPercent: 20}}
	assert.Nil(t, bestOffer(cart(1), 1000, "BIG", offers))
}

func TestBestOfferIgnoresInvalidPercent(t *testing.T) {
	offers := []domain.Offer{
		{Label: "Zero", DiscountPercent: 0},
		{Label: "Over", DiscountPercent: 120},
	}
	assert.Nil(t, bestOffer(cart(1), 1000, "", offers))
}

func TestDiscountAmountNilSnapshot(t *testing.T) {
	assert.Equal(t, int64(0), discountAmount(2000, nil))
}
