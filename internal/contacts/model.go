// Package contacts is the sample domain served by formflow: a contact
// entity stored with gorm, an autocomplete handler over it, and the
// create/edit pages driven by the generic save workflow.
package contacts

import (
	"strings"
	"time"
)

// Contact is the persisted entity.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"firstName"`
	LastName  string    `gorm:"not null;index" json:"lastName"`
	Email     string    `gorm:"not null;default:''" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Contact) TableName() string { return "contacts" }

// DisplayName joins first and last name.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
