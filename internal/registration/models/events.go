package models

import (
	"time"

	id "waangu/pkg/domain"
)

// Bus topics. Consumer topics have an implicit <topic>.dlq sibling.
const (
	TopicRegistrationCreated = "registration.created"
	TopicRegistrationUpdated = "registration.updated"
	TopicRegistrationDeleted = "registration.deleted"
	TopicBadgeGenerate       = "badge.generate"
	TopicLetterGenerate      = "invitation.letter.generate"
)

// RegistrationCreatedEvent is published after the creation transaction
// commits. It carries the full aggregate so downstream observers need no
// read-back.
type RegistrationCreatedEvent struct {
	RegistrationID id.RegistrationID `json:"registrationId"`
	EventID        id.EventID        `json:"eventId"`
	UserID         id.UserID         `json:"userId"`
	TenantID       id.TenantID       `json:"tenantId"`
	Timestamp      time.Time         `json:"timestamp"`
	Registration   *Registration     `json:"registration"`
}

// RegistrationUpdatedEvent carries only the changed fields, keyed by their
// JSON names. Published for every update, including single-field flips.
type RegistrationUpdatedEvent struct {
	RegistrationID id.RegistrationID `json:"registrationId"`
	EventID        id.EventID        `json:"eventId"`
	UserID         id.UserID         `json:"userId"`
	TenantID       id.TenantID       `json:"tenantId"`
	Timestamp      time.Time         `json:"timestamp"`
	Changes        map[string]any    `json:"changes"`
}

// RegistrationDeletedEvent is published after a hard delete.
type RegistrationDeletedEvent struct {
	RegistrationID id.RegistrationID `json:"registrationId"`
	EventID        id.EventID        `json:"eventId"`
	UserID         id.UserID         `json:"userId"`
	TenantID       id.TenantID       `json:"tenantId"`
	Timestamp      time.Time         `json:"timestamp"`
}

// BadgeGenerateEvent asks the badge worker to render, store, and mail the
// badge for one registration. The worker re-fetches current state by ID.
type BadgeGenerateEvent struct {
	RegistrationID id.RegistrationID `json:"registrationId"`
	EventID        id.EventID        `json:"eventId"`
	UserID         id.UserID         `json:"userId"`
	TenantID       id.TenantID       `json:"tenantId"`
	Timestamp      time.Time         `json:"timestamp"`
	EventName      string            `json:"eventName,omitempty"`
}

// LetterGenerateEvent asks the invitation-letter worker to render, store, and
// mail the visa invitation letter for one registration.
type LetterGenerateEvent struct {
	RegistrationID id.RegistrationID `json:"registrationId"`
	EventID        id.EventID        `json:"eventId"`
	UserID         id.UserID         `json:"userId"`
	TenantID       id.TenantID       `json:"tenantId"`
	Timestamp      time.Time         `json:"timestamp"`
	EventName      string            `json:"eventName,omitempty"`
}
