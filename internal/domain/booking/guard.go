package booking

import (
	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
)

// The guard answers one question per transition: may this actor perform it
// on this booking. State eligibility is checked separately by the aggregate,
// so a forbidden actor is rejected before the state machine is consulted and
// the booking is never partially mutated.

// GuardAccept verifies the actor owns the booking's provider profile.
func GuardAccept(actor identity.Actor, b *Booking) error {
	if !actor.OwnsProvider(b.ProviderID()) {
		return domain.NewForbiddenError("booking is not assigned to this provider")
	}
	return nil
}

// GuardReject verifies the actor owns the booking's provider profile.
// Unlike accept, rejection is allowed for deactivated providers.
func GuardReject(actor identity.Actor, b *Booking) error {
	if !actor.OwnsProvider(b.ProviderID()) {
		return domain.NewForbiddenError("booking is not assigned to this provider")
	}
	return nil
}

// GuardCancel verifies the actor is the booking's client.
func GuardCancel(actor identity.Actor, b *Booking) error {
	if actor.ClientID == nil || *actor.ClientID != b.ClientID() {
		return domain.NewForbiddenError("booking does not belong to this client")
	}
	return nil
}

// GuardView verifies the actor is one of the booking's parties or an admin.
func GuardView(actor identity.Actor, b *Booking) error {
	if actor.IsAdmin {
		return nil
	}
	if actor.ClientID != nil && *actor.ClientID == b.ClientID() {
		return nil
	}
	if actor.OwnsProvider(b.ProviderID()) {
		return nil
	}
	return domain.NewForbiddenError("booking is not visible to this user")
}
