package identity

import "github.com/google/uuid"

// Actor is the capability set of the authenticated user, resolved once per
// request from the client and provider side tables. A user may hold a client
// profile, one or more provider profiles, both, or neither.
type Actor struct {
	UserID      uuid.UUID
	ClientID    *uuid.UUID
	ProviderIDs []uuid.UUID
	IsAdmin     bool
}

// IsClient reports whether the actor has a client profile.
func (a Actor) IsClient() bool {
	return a.ClientID != nil
}

// IsProvider reports whether the actor has at least one provider profile.
func (a Actor) IsProvider() bool {
	return len(a.ProviderIDs) > 0
}

// OwnsProvider reports whether the given provider profile belongs to the actor.
func (a Actor) OwnsProvider(providerID uuid.UUID) bool {
	for _, id := range a.ProviderIDs {
		if id == providerID {
			return true
		}
	}
	return false
}
