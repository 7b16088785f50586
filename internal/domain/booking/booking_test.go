package booking

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

func newTestBooking(t *testing.T, now time.Time) *Booking {
	t.Helper()
	bk, err := NewBooking(
		uuid.New(),
		uuid.New(),
		uuid.New(),
		[]uuid.UUID{uuid.New()},
		now.Add(24*time.Hour),
		now.Add(48*time.Hour),
		5000,
		"EUR",
		"please take care of Rex",
		now,
	)
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bk := newTestBooking(t, now)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, int64(1), bk.Version())
	assert.Equal(t, now, bk.CreatedAt())
	assert.Equal(t, now, bk.UpdatedAt())
	assert.Regexp(t, regexp.MustCompile(`^BK-[A-HJ-NP-Z2-9]{6}$`), bk.BookingNumber())
}

func TestNewBooking_Validation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)
	end := now.Add(48 * time.Hour)
	clientID, providerID, adID := uuid.New(), uuid.New(), uuid.New()
	pets := []uuid.UUID{uuid.New()}

	tests := []struct {
		name string
		fn   func() (*Booking, error)
	}{
		{"missing client", func() (*Booking, error) {
			return NewBooking(uuid.Nil, providerID, adID, pets, start, end, 5000, "EUR", "", now)
		}},
		{"missing provider", func() (*Booking, error) {
			return NewBooking(clientID, uuid.Nil, adID, pets, start, end, 5000, "EUR", "", now)
		}},
		{"no pets", func() (*Booking, error) {
			return NewBooking(clientID, providerID, adID, nil, start, end, 5000, "EUR", "", now)
		}},
		{"end before start", func() (*Booking, error) {
			return NewBooking(clientID, providerID, adID, pets, end, start, 5000, "EUR", "", now)
		}},
		{"end equals start", func() (*Booking, error) {
			return NewBooking(clientID, providerID, adID, pets, start, start, 5000, "EUR", "", now)
		}},
		{"zero price", func() (*Booking, error) {
			return NewBooking(clientID, providerID, adID, pets, start, end, 0, "EUR", "", now)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestBooking_AcceptRejectCancel(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	t.Run("accept from pending", func(t *testing.T) {
		bk := newTestBooking(t, now)
		require.NoError(t, bk.Accept(later))
		assert.Equal(t, StatusAccepted, bk.Status())
		assert.Equal(t, later, bk.UpdatedAt())
	})

	t.Run("reject from pending", func(t *testing.T) {
		bk := newTestBooking(t, now)
		require.NoError(t, bk.Reject(later))
		assert.Equal(t, StatusRejected, bk.Status())
	})

	t.Run("cancel from pending", func(t *testing.T) {
		bk := newTestBooking(t, now)
		require.NoError(t, bk.Cancel(later))
		assert.Equal(t, StatusCancelled, bk.Status())
	})

	t.Run("cancel after accept is rejected", func(t *testing.T) {
		bk := newTestBooking(t, now)
		require.NoError(t, bk.Accept(later))

		err := bk.Cancel(later.Add(time.Hour))
		require.Error(t, err)
		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))

		var domainErr *domain.Error
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, string(StatusAccepted), domainErr.CurrentState)
		assert.Equal(t, StatusAccepted, bk.Status(), "failed transition must not mutate")
	})

	t.Run("accept twice is rejected", func(t *testing.T) {
		bk := newTestBooking(t, now)
		require.NoError(t, bk.Accept(later))
		require.Error(t, bk.Accept(later))
	})
}

func TestBooking_AdvanceForTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bk := newTestBooking(t, now)
	end := bk.EndAt()

	// PENDING never moves with time.
	assert.False(t, bk.AdvanceForTime(end.Add(time.Hour)))
	assert.Equal(t, StatusPending, bk.Status())

	require.NoError(t, bk.Accept(now.Add(time.Hour)))

	// Before the end nothing happens.
	assert.False(t, bk.AdvanceForTime(end.Add(-time.Minute)))
	assert.Equal(t, StatusAccepted, bk.Status())

	// After the end the booking awaits payment.
	readAt := end.Add(time.Hour)
	assert.True(t, bk.AdvanceForTime(readAt))
	assert.Equal(t, StatusAwaitingPayment, bk.Status())
	assert.Equal(t, readAt, bk.UpdatedAt())

	// After the grace period it becomes overdue.
	lateRead := end.Add(PaymentGracePeriod + time.Hour)
	assert.True(t, bk.AdvanceForTime(lateRead))
	assert.Equal(t, StatusOverdue, bk.Status())

	// No further time transitions.
	assert.False(t, bk.AdvanceForTime(lateRead.Add(time.Hour)))
}

func TestBooking_MarkPaid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("from awaiting payment", func(t *testing.T) {
		bk := newTestBooking(t, now)
		require.NoError(t, bk.Accept(now))
		require.True(t, bk.AdvanceForTime(bk.EndAt().Add(time.Hour)))

		paidAt := bk.EndAt().Add(2 * time.Hour)
		assert.True(t, bk.MarkPaid(paidAt))
		assert.Equal(t, StatusPaid, bk.Status())
		assert.Equal(t, paidAt, bk.UpdatedAt())
	})

	t.Run("from overdue", func(t *testing.T) {
		bk := newTestBooking(t, now)
		require.NoError(t, bk.Accept(now))
		require.True(t, bk.AdvanceForTime(bk.EndAt().Add(time.Hour)))
		require.True(t, bk.AdvanceForTime(bk.EndAt().Add(PaymentGracePeriod+time.Hour)))
		require.Equal(t, StatusOverdue, bk.Status())

		assert.True(t, bk.MarkPaid(bk.EndAt().Add(PaymentGracePeriod+2*time.Hour)))
		assert.Equal(t, StatusPaid, bk.Status())
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		bk := newTestBooking(t, now)
		require.NoError(t, bk.Accept(now))
		require.True(t, bk.AdvanceForTime(bk.EndAt().Add(time.Hour)))

		paidAt := bk.EndAt().Add(2 * time.Hour)
		require.True(t, bk.MarkPaid(paidAt))

		assert.False(t, bk.MarkPaid(paidAt.Add(time.Hour)))
		assert.Equal(t, StatusPaid, bk.Status())
		assert.Equal(t, paidAt, bk.UpdatedAt(), "no-op must not touch updatedAt")
	})

	t.Run("pending cannot be settled", func(t *testing.T) {
		bk := newTestBooking(t, now)
		assert.False(t, bk.MarkPaid(now.Add(time.Hour)))
		assert.Equal(t, StatusPending, bk.Status())
	})
}
