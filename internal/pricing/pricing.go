// Package pricing computes ticket prices, platform fees, and group
// discounts as pure integer arithmetic.
//
// Every function here is a pure function of its arguments: no state, no
// clocks, no randomness. All division truncates toward zero, so computed
// fees slightly underpay a fractional-percent ideal; that is expected.
package pricing

// Rates and thresholds, all in whole percent.
const (
	// PlatformFeePercent is the surcharge accrued to the treasury on every
	// purchase total.
	PlatformFeePercent uint64 = 5

	// upliftDivisor scales the demand multiplier so a fully sold event
	// prices at 150% of base: sold=total gives multiplier 100, and
	// base*100/200 is half the base price.
	upliftDivisor uint64 = 200

	// GroupDiscountLargePercent applies at quantities of GroupSizeLarge
	// and above, GroupDiscountSmallPercent from GroupSizeSmall up.
	GroupDiscountLargePercent uint64 = 15
	GroupDiscountSmallPercent uint64 = 10
	GroupSizeLarge            uint64 = 10
	GroupSizeSmall            uint64 = 5
)

// Price returns the demand-adjusted unit price for an event with the given
// supply state.
//
//	sold       = totalSupply - availableSupply
//	multiplier = sold*100/totalSupply   (truncating)
//	price      = basePrice + basePrice*multiplier/200
//
// At sold=0 the price equals basePrice; at sold=totalSupply it equals
// 1.5x basePrice (truncated). The result is non-decreasing in sold for a
// fixed totalSupply and basePrice.
//
// totalSupply must be > 0. Event creation guarantees this; callers treat a
// zero-supply record as data corruption before pricing, never as a zero
// price.
func Price(totalSupply, availableSupply, basePrice uint64) uint64 {
	sold := totalSupply - availableSupply
	multiplier := sold * 100 / totalSupply
	return basePrice + basePrice*multiplier/upliftDivisor
}

// PlatformFee returns the treasury surcharge on a purchase amount.
func PlatformFee(amount uint64) uint64 {
	return amount * PlatformFeePercent / 100
}

// DiscountRate returns the group discount in whole percent for a batch of
// the given quantity. The rate is zero unless applyGroupDiscount is set.
func DiscountRate(quantity uint64, applyGroupDiscount bool) uint64 {
	if !applyGroupDiscount {
		return 0
	}
	switch {
	case quantity >= GroupSizeLarge:
		return GroupDiscountLargePercent
	case quantity >= GroupSizeSmall:
		return GroupDiscountSmallPercent
	default:
		return 0
	}
}

// Discounted returns the unit price after applying a whole-percent discount
// rate, truncating toward zero.
func Discounted(unitPrice, rate uint64) uint64 {
	return unitPrice - unitPrice*rate/100
}
