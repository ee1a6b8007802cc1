package models

import id "waangu/pkg/domain"

// ListFilter narrows tenant-scoped registration listings. Nil fields match
// everything.
type ListFilter struct {
	EventID       *id.EventID
	Status        *Status
	PaymentStatus *PaymentStatus
}

func (f ListFilter) Matches(r *Registration) bool {
	if f.EventID != nil && r.EventID != *f.EventID {
		return false
	}
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.PaymentStatus != nil && r.PaymentStatus != *f.PaymentStatus {
		return false
	}
	return true
}
