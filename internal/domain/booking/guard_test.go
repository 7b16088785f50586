package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
)

func TestGuards(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bk := newTestBooking(t, now)

	clientID := bk.ClientID()
	client := identity.Actor{UserID: uuid.New(), ClientID: &clientID}
	provider := identity.Actor{UserID: uuid.New(), ProviderIDs: []uuid.UUID{bk.ProviderID()}}
	otherClientID := uuid.New()
	stranger := identity.Actor{UserID: uuid.New(), ClientID: &otherClientID, ProviderIDs: []uuid.UUID{uuid.New()}}
	admin := identity.Actor{UserID: uuid.New(), IsAdmin: true}

	t.Run("accept requires the assigned provider", func(t *testing.T) {
		require.NoError(t, GuardAccept(provider, bk))

		err := GuardAccept(stranger, bk)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
		assert.Equal(t, domain.KindForbidden, domain.KindOf(GuardAccept(client, bk)))
	})

	t.Run("reject requires the assigned provider", func(t *testing.T) {
		require.NoError(t, GuardReject(provider, bk))
		assert.Equal(t, domain.KindForbidden, domain.KindOf(GuardReject(stranger, bk)))
	})

	t.Run("cancel requires the booking client", func(t *testing.T) {
		require.NoError(t, GuardCancel(client, bk))
		assert.Equal(t, domain.KindForbidden, domain.KindOf(GuardCancel(provider, bk)))
		assert.Equal(t, domain.KindForbidden, domain.KindOf(GuardCancel(stranger, bk)))
	})

	t.Run("view allows parties and admins only", func(t *testing.T) {
		require.NoError(t, GuardView(client, bk))
		require.NoError(t, GuardView(provider, bk))
		require.NoError(t, GuardView(admin, bk))
		assert.Equal(t, domain.KindForbidden, domain.KindOf(GuardView(stranger, bk)))
	})
}
