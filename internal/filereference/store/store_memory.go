package store

import (
	"context"
	"fmt"
	"sync"

	"waangu/internal/filereference/models"
	id "waangu/pkg/domain"
	"waangu/pkg/platform/sentinel"
)

// MemoryStore is an in-memory file-reference store for unit tests.
type MemoryStore struct {
	mu   sync.RWMutex
	refs map[id.FileID]models.FileReference
}

func NewMemory() *MemoryStore {
	return &MemoryStore{refs: make(map[id.FileID]models.FileReference)}
}

func (s *MemoryStore) Create(_ context.Context, ref *models.FileReference) error {
	if ref == nil {
		return fmt.Errorf("file reference is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[ref.ID] = *ref
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, tenantID id.TenantID, fileID id.FileID) (*models.FileReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref, ok := s.refs[fileID]; ok && ref.TenantID == tenantID {
		r := ref
		return &r, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) Delete(_ context.Context, tenantID id.TenantID, fileID id.FileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref, ok := s.refs[fileID]; ok && ref.TenantID == tenantID {
		delete(s.refs, fileID)
		return nil
	}
	return sentinel.ErrNotFound
}

// Count reports stored references, used by tests asserting zero-write
// rollback behavior.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.refs)
}
