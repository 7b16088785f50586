package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshedStatus_AcceptedBoundary(t *testing.T) {
	end := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	// Exactly at the end the booking stays ACCEPTED.
	assert.Equal(t, StatusAccepted, RefreshedStatus(StatusAccepted, end, end))

	assert.Equal(t, StatusAccepted, RefreshedStatus(StatusAccepted, end, end.Add(-time.Second)))
	assert.Equal(t, StatusAwaitingPayment, RefreshedStatus(StatusAccepted, end, end.Add(time.Second)))
}

func TestRefreshedStatus_GraceBoundary(t *testing.T) {
	end := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	deadline := end.Add(PaymentGracePeriod)

	// Exactly at the payment deadline the booking stays AWAITING_PAYMENT.
	assert.Equal(t, StatusAwaitingPayment, RefreshedStatus(StatusAwaitingPayment, end, deadline))

	assert.Equal(t, StatusAwaitingPayment, RefreshedStatus(StatusAwaitingPayment, end, deadline.Add(-time.Second)))
	assert.Equal(t, StatusOverdue, RefreshedStatus(StatusAwaitingPayment, end, deadline.Add(time.Second)))
}

func TestRefreshedStatus_SingleEdgePerCall(t *testing.T) {
	end := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	longAfter := end.Add(30 * 24 * time.Hour)

	// Even far past the deadline, ACCEPTED advances only one edge; the next
	// evaluation takes it to OVERDUE.
	first := RefreshedStatus(StatusAccepted, end, longAfter)
	assert.Equal(t, StatusAwaitingPayment, first)

	second := RefreshedStatus(first, end, longAfter)
	assert.Equal(t, StatusOverdue, second)
}

func TestRefreshedStatus_OtherStatusesUnaffected(t *testing.T) {
	end := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	longAfter := end.Add(365 * 24 * time.Hour)

	for _, s := range []BookingStatus{StatusPending, StatusRejected, StatusCancelled, StatusOverdue, StatusPaid} {
		assert.Equal(t, s, RefreshedStatus(s, end, longAfter), "%s must not move with time", s)
	}
}
