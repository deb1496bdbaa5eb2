package model

import "math"

// AnnuityFactor returns (1 - (1+r)^-n) / r, the present value of one unit
// paid at the end of each of n periods at periodic rate r. For r == 0 it is n.
func AnnuityFactor(monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return float64(months)
	}
	return (1 - math.Pow(1+monthlyRate, -float64(months))) / monthlyRate
}

// MonthlyRateFromPercent converts an annual rate in percent to a monthly
// decimal rate: pct / 100 / 12.
func MonthlyRateFromPercent(annualPercent float64) float64 {
	return annualPercent / 100 / 12
}

// MaxPrincipalForPayment inverts the level-payment annuity: the largest whole
// principal whose monthly payment at monthlyRate over months does not exceed
// monthlyPayment.
//
//	principal = floor(payment * (1 - (1+r)^-n) / r)
func MaxPrincipalForPayment(monthlyPayment, monthlyRate float64, months int) int64 {
	if months <= 0 || monthlyPayment <= 0 {
		return 0
	}
	return int64(math.Floor(monthlyPayment * AnnuityFactor(monthlyRate, months)))
}

// MaxPrincipalForAnnualPayment is MaxPrincipalForPayment for an annual budget
// of whole currency units. The zero-rate case is computed in integers so that
// floor(annual/12 * months) is exact.
func MaxPrincipalForAnnualPayment(annualPayment int64, monthlyRate float64, months int) int64 {
	if months <= 0 || annualPayment <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return annualPayment * int64(months) / 12
	}
	return MaxPrincipalForPayment(float64(annualPayment)/12, monthlyRate, months)
}

// MonthlyPayment is the level payment amortizing principal over months:
//
//	payment = P / ((1 - (1+r)^-n) / r)    (P / n when r == 0)
func MonthlyPayment(principal float64, monthlyRate float64, months int) float64 {
	if months <= 0 || principal <= 0 {
		return 0
	}
	return principal / AnnuityFactor(monthlyRate, months)
}
