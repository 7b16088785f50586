package pet

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

// Species is the kind of animal a pet profile describes.
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRabbit  Species = "rabbit"
	SpeciesRodent  Species = "rodent"
	SpeciesReptile Species = "reptile"
	SpeciesOther   Species = "other"
)

// IsValid returns true if the species is recognized.
func (s Species) IsValid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesRodent, SpeciesReptile, SpeciesOther:
		return true
	}
	return false
}

// PetStatus represents the lifecycle state of a pet profile.
type PetStatus string

const (
	PetStatusActive   PetStatus = "active"
	PetStatusArchived PetStatus = "archived"
)

// Pet is the aggregate root for a client's pet profile.
type Pet struct {
	id           uuid.UUID
	clientID     uuid.UUID
	name         string
	species      Species
	breed        string
	weightKg     float64
	ageMonths    int
	allergies    string
	specialNeeds string
	notes        string
	status       PetStatus
	createdAt    time.Time
	updatedAt    time.Time
}

// NewPet creates a new active pet profile with validated fields.
func NewPet(
	clientID uuid.UUID,
	name string,
	species Species,
	breed string,
	weightKg float64,
	ageMonths int,
	allergies, specialNeeds, notes string,
	now time.Time,
) (*Pet, error) {
	if clientID == uuid.Nil {
		return nil, domain.NewValidationError("client ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("pet name is required")
	}
	if !species.IsValid() {
		return nil, domain.NewValidationError("invalid species: " + string(species))
	}
	if weightKg < 0 {
		return nil, domain.NewValidationError("pet weight cannot be negative")
	}

	return &Pet{
		id:           uuid.New(),
		clientID:     clientID,
		name:         name,
		species:      species,
		breed:        breed,
		weightKg:     weightKg,
		ageMonths:    ageMonths,
		allergies:    allergies,
		specialNeeds: specialNeeds,
		notes:        notes,
		status:       PetStatusActive,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Pet from persistence data (no validation).
func Reconstruct(
	id, clientID uuid.UUID,
	name string,
	species Species,
	breed string,
	weightKg float64,
	ageMonths int,
	allergies, specialNeeds, notes string,
	status PetStatus,
	createdAt, updatedAt time.Time,
) *Pet {
	return &Pet{
		id:           id,
		clientID:     clientID,
		name:         name,
		species:      species,
		breed:        breed,
		weightKg:     weightKg,
		ageMonths:    ageMonths,
		allergies:    allergies,
		specialNeeds: specialNeeds,
		notes:        notes,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (p *Pet) ID() uuid.UUID        { return p.id }
func (p *Pet) ClientID() uuid.UUID  { return p.clientID }
func (p *Pet) Name() string         { return p.name }
func (p *Pet) Species() Species     { return p.species }
func (p *Pet) Breed() string        { return p.breed }
func (p *Pet) WeightKg() float64    { return p.weightKg }
func (p *Pet) AgeMonths() int       { return p.ageMonths }
func (p *Pet) Allergies() string    { return p.allergies }
func (p *Pet) SpecialNeeds() string { return p.specialNeeds }
func (p *Pet) Notes() string        { return p.notes }
func (p *Pet) Status() PetStatus    { return p.status }
func (p *Pet) CreatedAt() time.Time { return p.createdAt }
func (p *Pet) UpdatedAt() time.Time { return p.updatedAt }

// IsOwnedBy reports whether the pet belongs to the given client.
func (p *Pet) IsOwnedBy(clientID uuid.UUID) bool {
	return p.clientID == clientID
}

// Update replaces the mutable profile fields.
func (p *Pet) Update(name string, species Species, breed string, weightKg float64, ageMonths int, allergies, specialNeeds, notes string, now time.Time) {
	if name != "" {
		p.name = name
	}
	if species != "" && species.IsValid() {
		p.species = species
	}
	p.breed = breed
	p.weightKg = weightKg
	p.ageMonths = ageMonths
	p.allergies = allergies
	p.specialNeeds = specialNeeds
	p.notes = notes
	p.updatedAt = now
}

// Archive soft-deletes the pet profile.
func (p *Pet) Archive(now time.Time) {
	p.status = PetStatusArchived
	p.updatedAt = now
}
