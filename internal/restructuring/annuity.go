package restructuring

import "math"

// AnnuityPayment computes the fixed periodic payment retiring principal p
// over n periods at periodic rate r. Zero periods returns the principal
// itself; a zero rate degenerates to straight-line repayment.
func AnnuityPayment(principal, rate float64, periods int) float64 {
	if periods == 0 {
		return principal
	}
	if rate == 0 {
		return principal / float64(periods)
	}
	growth := math.Pow(1+rate, float64(periods))
	return principal * (rate * growth) / (growth - 1)
}
