package scheduling

// AllocatePayment converts the requested amount into the per-class
// amount. Monthly and total-duration amounts divide by the actual
// generated class count, never an estimate. A non-positive count
// returns the raw amount unchanged rather than erroring; the legacy
// tool behaved this way and downstream payout reports depend on it.
func AllocatePayment(amount float64, paymentType PaymentType, totalClasses int) float64 {
	switch paymentType {
	case PaymentMonthly, PaymentTotalDuration:
		if totalClasses <= 0 {
			return amount
		}
		return amount / float64(totalClasses)
	default:
		return amount
	}
}
