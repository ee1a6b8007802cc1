package service

import (
	"time"

	"waangu/internal/registration/models"
	id "waangu/pkg/domain"
)

// CreateRegistrationDTO is the submission payload for a new registration.
// Tenant and user identity come from the request context, not the body.
type CreateRegistrationDTO struct {
	EventID id.EventID `json:"eventId"`

	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Phone               string `json:"phone,omitempty"`
	Organization        string `json:"organization,omitempty"`
	Profession          string `json:"profession,omitempty"`
	Language            string `json:"language,omitempty"`
	SpecialRequirements string `json:"specialRequirements,omitempty"`

	Nationality     string     `json:"nationality,omitempty"`
	CountryOfBirth  string     `json:"countryOfBirth,omitempty"`
	IsForeigner     bool       `json:"isForeigner"`
	NeedsVisa       bool       `json:"needsVisa"`
	DocumentNumber  string     `json:"documentNumber,omitempty"`
	DateOfIssue     *time.Time `json:"dateOfIssue,omitempty"`
	ExpirationDate  *time.Time `json:"expirationDate,omitempty"`
	PassportPhotoID *id.FileID `json:"passportPhotoId,omitempty"`
	PassportCopyID  *id.FileID `json:"passportCopyId,omitempty"`

	Documents []models.DocumentLink `json:"documents,omitempty"`

	// Optional overrides. When nil the service derives the values.
	Status           *models.Status        `json:"status,omitempty"`
	PaymentStatus    *models.PaymentStatus `json:"paymentStatus,omitempty"`
	Price            *float64              `json:"price,omitempty"`
	AssignedTariffID *string               `json:"assignedTariffId,omitempty"`
}

// UpdateRegistrationDTO is a partial field merge. Nil fields are untouched.
// Tariff and price are never re-derived on update, and visa field completeness
// is enforced at creation only.
type UpdateRegistrationDTO struct {
	FirstName           *string `json:"firstName,omitempty"`
	LastName            *string `json:"lastName,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	Organization        *string `json:"organization,omitempty"`
	Profession          *string `json:"profession,omitempty"`
	Language            *string `json:"language,omitempty"`
	SpecialRequirements *string `json:"specialRequirements,omitempty"`

	Nationality     *string    `json:"nationality,omitempty"`
	CountryOfBirth  *string    `json:"countryOfBirth,omitempty"`
	IsForeigner     *bool      `json:"isForeigner,omitempty"`
	NeedsVisa       *bool      `json:"needsVisa,omitempty"`
	DocumentNumber  *string    `json:"documentNumber,omitempty"`
	DateOfIssue     *time.Time `json:"dateOfIssue,omitempty"`
	ExpirationDate  *time.Time `json:"expirationDate,omitempty"`
	PassportPhotoID *id.FileID `json:"passportPhotoId,omitempty"`
	PassportCopyID  *id.FileID `json:"passportCopyId,omitempty"`

	Documents []models.DocumentLink `json:"documents,omitempty"`

	Status           *models.Status        `json:"status,omitempty"`
	PaymentStatus    *models.PaymentStatus `json:"paymentStatus,omitempty"`
	Price            *float64              `json:"price,omitempty"`
	AssignedTariffID *string               `json:"assignedTariffId,omitempty"`
}
