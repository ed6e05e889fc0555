package models

import (
	"time"

	"github.com/google/uuid"
)

// Inscription is a persisted attendee registration. The ateliers column
// stores the selected workshop labels joined with ", " the way the form
// submits them. Variant fields not collected by the deployed form stay
// empty strings.
type Inscription struct {
	ID        uuid.UUID `json:"id"`
	LastName  string    `json:"nom"`
	FirstName string    `json:"prenom"`
	Email     string    `json:"email"`
	Phone     string    `json:"telephone"`
	Role      string    `json:"poste,omitempty"`
	Startup   string    `json:"startup,omitempty"`
	Country   string    `json:"pays,omitempty"`
	Address   string    `json:"adresse,omitempty"`
	Workshops string    `json:"ateliers"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName composes the name the confirmation email greets with.
func (i Inscription) DisplayName() string {
	return i.FirstName + " " + i.LastName
}
