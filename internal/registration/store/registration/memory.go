package registration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"waangu/internal/registration/models"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
)

// MemoryStore is an in-memory registration store for unit tests. It enforces
// the same (tenant, event, email) uniqueness the Postgres constraint does.
type MemoryStore struct {
	mu            sync.RWMutex
	registrations map[id.RegistrationID]models.Registration
}

func NewMemory() *MemoryStore {
	return &MemoryStore{registrations: make(map[id.RegistrationID]models.Registration)}
}

func (s *MemoryStore) Create(_ context.Context, reg *models.Registration) error {
	if reg == nil {
		return fmt.Errorf("registration is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.registrations {
		if existing.TenantID == reg.TenantID && existing.EventID == reg.EventID && existing.Email == reg.Email {
			return sentinel.ErrConflict
		}
	}
	s.registrations[reg.ID] = *reg
	return nil
}

func (s *MemoryStore) ExistsByEventAndEmail(_ context.Context, tenantID id.TenantID, eventID id.EventID, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.registrations {
		if reg.TenantID == tenantID && reg.EventID == eventID && reg.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) GetByID(_ context.Context, regID id.RegistrationID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if reg, ok := s.registrations[regID]; ok {
		r := reg
		return &r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) GetByIDWithTenant(_ context.Context, tenantID id.TenantID, regID id.RegistrationID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if reg, ok := s.registrations[regID]; ok && reg.TenantID == tenantID {
		r := reg
		return &r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) List(_ context.Context, tenantID id.TenantID, filter models.ListFilter) ([]*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var regs []*models.Registration
	for _, reg := range s.registrations {
		if reg.TenantID != tenantID {
			continue
		}
		r := reg
		if filter.Matches(&r) {
			regs = append(regs, &r)
		}
	}
	sort.Slice(regs, func(i, j int) bool {
		return regs[i].CreatedAt.After(regs[j].CreatedAt)
	})
	return regs, nil
}

func (s *MemoryStore) Update(_ context.Context, reg *models.Registration) error {
	if reg == nil {
		return fmt.Errorf("registration is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.registrations[reg.ID]
	if !ok || existing.TenantID != reg.TenantID {
		return sentinel.ErrNotFound
	}
	for _, other := range s.registrations {
		if other.ID != reg.ID && other.TenantID == reg.TenantID &&
			other.EventID == reg.EventID && other.Email == reg.Email {
			return sentinel.ErrConflict
		}
	}
	s.registrations[reg.ID] = *reg
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, tenantID id.TenantID, regID id.RegistrationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, ok := s.registrations[regID]; ok && reg.TenantID == tenantID {
		delete(s.registrations, regID)
		return nil
	}
	return sentinel.ErrNotFound
}

// Count reports stored registrations, used by tests asserting zero-write
// rollback behavior.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registrations)
}
