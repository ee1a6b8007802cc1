package models

import (
	"time"

	id "waangu/pkg/domain"
)

// Attendee is the reusable profile behind registrations. One profile per
// (tenant, email); a profile may back many registrations across events.
type Attendee struct {
	ID        id.AttendeeID `json:"id"`
	TenantID  id.TenantID   `json:"tenantId"`
	UserID    id.UserID     `json:"userId"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	ImageURL  string        `json:"imageUrl,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
