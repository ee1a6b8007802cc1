package models

import (
	"time"

	id "waangu/pkg/domain"
)

// TariffRule is a time-windowed pricing policy attached to an event. Nil
// window bounds are open-ended.
type TariffRule struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency,omitempty"`
	ValidFrom  *time.Time `json:"validFrom,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// ActiveAt reports whether the rule's [ValidFrom, ValidUntil] window contains
// the given instant.
func (t TariffRule) ActiveAt(now time.Time) bool {
	if t.ValidFrom != nil && now.Before(*t.ValidFrom) {
		return false
	}
	if t.ValidUntil != nil && now.After(*t.ValidUntil) {
		return false
	}
	return true
}

// RequiredDocument is one document slot a registrant must fill.
type RequiredDocument struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EventConfig is the registration policy for one event: which documents are
// required and how attendance is priced.
type EventConfig struct {
	RequiredDocuments []RequiredDocument `json:"requiredDocuments"`
	TariffRules       []TariffRule       `json:"tariffRules"`
}

// RequiredDocumentIDs returns the required document IDs in configured order.
func (c *EventConfig) RequiredDocumentIDs() []string {
	ids := make([]string, 0, len(c.RequiredDocuments))
	for _, doc := range c.RequiredDocuments {
		ids = append(ids, doc.ID)
	}
	return ids
}

// EventDetails is the rendered event metadata used on badges and invitation
// letters.
type EventDetails struct {
	ID               id.EventID `json:"id"`
	Name             string     `json:"name"`
	StartDate        time.Time  `json:"startDate"`
	EndDate          time.Time  `json:"endDate"`
	Venue            string     `json:"venue,omitempty"`
	City             string     `json:"city,omitempty"`
	Country          string     `json:"country,omitempty"`
	OrganizerName    string     `json:"organizerName,omitempty"`
	OrganizerAddress string     `json:"organizerAddress,omitempty"`
	LogoURL          string     `json:"logoUrl,omitempty"`
}
