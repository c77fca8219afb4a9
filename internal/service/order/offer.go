package order

import (
	"strings"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

// bestOffer picks at most one offer for the cart: the matching coupon when
// a code was entered, otherwise the qualifying automatic offer with the
// largest discount. Returns nil when nothing applies.
func bestOffer(items []domain.OrderItem, subtotal int64, coupon string, offers []domain.Offer) *domain.OfferSnapshot {
	coupon = strings.TrimSpace(coupon)
	if coupon != "" {
		for _, of := range offers {
			if of.CouponCode != "" && strings.EqualFold(of.CouponCode, coupon) && qualifies(items, subtotal, of) {
				return snapshotOf(of)
			}
		}
		return nil
	}

	var best *domain.Offer
	for i, of := range offers {
		if !of.Automatic() || !qualifies(items, subtotal, of) {
			continue
		}
		if best == nil || of.DiscountPercent > best.DiscountPercent {
			best = &offers[i]
		}
	}
	if best == nil {
		return nil
	}
	return snapshotOf(*best)
}

func qualifies(items []domain.OrderItem, subtotal int64, of domain.Offer) bool {
	if of.DiscountPercent <= 0 || of.DiscountPercent > 100 {
		return false
	}
	if of.MinOrderValue > 0 && subtotal < of.MinOrderValue {
		return false
	}
	if of.MinItems > 0 && itemCount(items) < of.MinItems {
		return false
	}
	if len(of.ProductIDs) > 0 && !anyItemIn(items, of.ProductIDs, func(it domain.OrderItem) string { return it.ProductID }) {
		return false
	}
	if len(of.CategoryIDs) > 0 && !anyItemIn(items, of.CategoryIDs, func(it domain.OrderItem) string { return it.CategoryID }) {
		return false
	}
	return true
}

func itemCount(items []domain.OrderItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func anyItemIn(items []domain.OrderItem, ids []string, key func(domain.OrderItem) string) bool {
	for _, it := range items {
		for _, id := range ids {
			if key(it) == id {
				return true
			}
		}
	}
	return false
}

func snapshotOf(of domain.Offer) *domain.OfferSnapshot {
	return &domain.OfferSnapshot{
		Label:           of.Label,
		CouponCode:      of.CouponCode,
		DiscountPercent: of.DiscountPercent,
		MinOrderValue:   of.MinOrderValue,
		MinItems:        of.MinItems,
		CategoryIDs:     of.CategoryIDs,
		ProductIDs:      of.ProductIDs,
	}
}

func discountAmount(subtotal int64, snap *domain.OfferSnapshot) int64 {
	if snap == nil {
		return 0
	}
	return subtotal * int64(snap.DiscountPercent) / 100
}
