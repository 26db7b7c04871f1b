package reservation

import "roomify/models"

// FeeBreakdown is the money split for a priced reservation.
// TotalPrice = Deposit + Remaining always holds within rounding.
type FeeBreakdown struct {
	Commission   float64
	HostEarnings float64
	ServiceFee   float64
	Deposit      float64
	Remaining    float64
}

// rateOrDefault resolves a per-listing rate override against the platform
// default.
func rateOrDefault(override *float64, def float64) float64 {
	if override != nil {
		return *override
	}
	return def
}

// ComputeFees splits the total price into platform commission, host
// earnings, guest service fee, and the deposit/remaining pair.
func (e *Engine) ComputeFees(listing *models.Listing, total float64) FeeBreakdown {
	commissionRate := rateOrDefault(listing.CommissionRate, e.Fees.CommissionRate)
	serviceFeeRate := rateOrDefault(listing.ServiceFeeRate, e.Fees.ServiceFeeRate)
	depositRate := rateOrDefault(listing.DepositRate, e.Fees.DepositRate)

	commission := round2(total * commissionRate)
	deposit := round2(total * depositRate)

	return FeeBreakdown{
		Commission:   commission,
		HostEarnings: round2(total - commission),
		ServiceFee:   round2(total * serviceFeeRate),
		Deposit:      deposit,
		Remaining:    round2(total - deposit),
	}
}
