// Package commission splits a charge value between gateway, platform and seller.
package commission

import (
	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Gateway fee model: 1% of the value plus a flat 100 minor units.
const GatewayFixedFeeInCents int64 = 100

var gatewayRate = decimal.RequireFromString("0.01")

// Compute returns the commission breakdown for valueInCents. The three parts always add up to
// the value; the seller share is not clamped and can go negative.
func Compute(valueInCents int64, platformPercentage float64, platformFixedFeeInCents int64) domain.Commission {
	gatewayFee := share(valueInCents, gatewayRate) + GatewayFixedFeeInCents
	platformFee := PlatformFee(valueInCents, platformPercentage, platformFixedFeeInCents)

	return domain.Commission{
		TotalPriceInCents:     valueInCents,
		GatewayFeeInCents:     gatewayFee,
		PlatformFeeInCents:    platformFee,
		UserCommissionInCents: valueInCents - gatewayFee - platformFee,
	}
}

// ForSettings is Compute with the percentage and fixed fee taken from platform settings.
func ForSettings(valueInCents int64, settings *domain.PlatformSettings) domain.Commission {
	if settings == nil {
		return Compute(valueInCents, 0, 0)
	}
	return Compute(valueInCents, settings.CommissionPercentage, settings.FixedFeeInCents)
}

// PlatformFee is the platform's cut, also used to size the gateway split rule.
func PlatformFee(valueInCents int64, platformPercentage float64, platformFixedFeeInCents int64) int64 {
	return share(valueInCents, decimal.NewFromFloat(platformPercentage)) + platformFixedFeeInCents
}

// share rounds value*rate half away from zero.
func share(valueInCents int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(valueInCents).Mul(rate).Round(0).IntPart()
}
