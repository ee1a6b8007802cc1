package store

import (
	"context"
	"fmt"
	"sync"

	"waangu/internal/attendee/models"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
)

// MemoryStore is an in-memory attendee store for unit tests.
type MemoryStore struct {
	mu        sync.RWMutex
	attendees map[id.AttendeeID]models.Attendee
}

func NewMemory() *MemoryStore {
	return &MemoryStore{attendees: make(map[id.AttendeeID]models.Attendee)}
}

func (s *MemoryStore) Upsert(_ context.Context, attendee *models.Attendee) (id.AttendeeID, error) {
	if attendee == nil {
		return id.AttendeeID{}, fmt.Errorf("attendee is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for existingID, existing := range s.attendees {
		if existing.TenantID == attendee.TenantID && existing.Email == attendee.Email {
			existing.UserID = attendee.UserID
			existing.FirstName = attendee.FirstName
			existing.LastName = attendee.LastName
			existing.Phone = attendee.Phone
			existing.UpdatedAt = attendee.UpdatedAt
			s.attendees[existingID] = existing
			return existingID, nil
		}
	}
	s.attendees[attendee.ID] = *attendee
	return attendee.ID, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, tenantID id.TenantID, email string) (*models.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, attendee := range s.attendees {
		if attendee.TenantID == tenantID && attendee.Email == email {
			a := attendee
			return &a, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) GetByID(_ context.Context, tenantID id.TenantID, attendeeID id.AttendeeID) (*models.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if attendee, ok := s.attendees[attendeeID]; ok && attendee.TenantID == tenantID {
		a := attendee
		return &a, nil
	}
	return nil, sentinel.ErrNotFound
}
