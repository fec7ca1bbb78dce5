package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocatePaymentMonthlySplitsByActualCount(t *testing.T) {
	assert.InDelta(t, 250, AllocatePayment(1000, PaymentMonthly, 4), 0.0001)
	assert.InDelta(t, 300, AllocatePayment(900, PaymentTotalDuration, 3), 0.0001)
}

func TestAllocatePaymentPerClassPassthrough(t *testing.T) {
	for _, n := range []int{0, 1, 4, 100} {
		assert.InDelta(t, 500, AllocatePayment(500, PaymentPerClass, n), 0.0001, "count=%d", n)
	}
}

func TestAllocatePaymentZeroCountFallsBack(t *testing.T) {
	// Division by zero classes returns the raw amount; kept for parity
	// with downstream payout reports.
	assert.InDelta(t, 1000, AllocatePayment(1000, PaymentMonthly, 0), 0.0001)
	assert.InDelta(t, 1000, AllocatePayment(1000, PaymentTotalDuration, -1), 0.0001)
}
