package common

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// MemoryStorage is an in-memory StorageManager for service and handler tests.
type MemoryStorage struct {
	mu          sync.Mutex
	users       map[string]*models.InternalUser
	investments map[string]*models.Investment

	// Err, when set, is returned by every investment operation.
	Err error
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:       make(map[string]*models.InternalUser),
		investments: make(map[string]*models.Investment),
	}
}

func (m *MemoryStorage) InternalStore() interfaces.InternalStore     { return (*memInternal)(m) }
func (m *MemoryStorage) InvestmentStore() interfaces.InvestmentStore { return (*memInvestments)(m) }
func (m *MemoryStorage) Backend() string                             { return "memory" }
func (m *MemoryStorage) Close() error                                { return nil }

// Seed stores investments directly, bypassing validation.
func (m *MemoryStorage) Seed(invs ...*models.Investment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range invs {
		cp := *inv
		m.investments[inv.ID] = &cp
	}
}

// Count returns the number of stored investments across all users.
func (m *MemoryStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.investments)
}

type memInternal MemoryStorage

func (s *memInternal) GetUser(_ context.Context, userID string) (*models.InternalUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memInternal) GetUserByEmail(_ context.Context, email string) (*models.InternalUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (s *memInternal) SaveUser(_ context.Context, user *models.InternalUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	cp := *user
	s.users[user.UserID] = &cp
	return nil
}

func (s *memInternal) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	for id, inv := range s.investments {
		if inv.UserID == userID {
			delete(s.investments, id)
		}
	}
	return nil
}

func (s *memInternal) ListUsers(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type memInvestments MemoryStorage

func (s *memInvestments) ListByUser(_ context.Context, userID string) ([]*models.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []*models.Investment{}
	for _, inv := range s.investments {
		if inv.UserID == userID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *memInvestments) Get(_ context.Context, id, userID string) (*models.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	inv, ok := s.investments[id]
	if !ok || inv.UserID != userID {
		return nil, interfaces.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (s *memInvestments) Create(_ context.Context, inv *models.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cp := *inv
	s.investments[inv.ID] = &cp
	return nil
}

func (s *memInvestments) Update(_ context.Context, inv *models.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.investments[inv.ID]
	if !ok || existing.UserID != inv.UserID {
		return interfaces.ErrNotFound
	}
	cp := *inv
	cp.CreatedAt = existing.CreatedAt
	s.investments[inv.ID] = &cp
	return nil
}

func (s *memInvestments) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if inv, ok := s.investments[id]; ok && inv.UserID == userID {
		delete(s.investments, id)
	}
	return nil
}

func (s *memInvestments) DeleteByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, inv := range s.investments {
		if inv.UserID == userID {
			delete(s.investments, id)
			n++
		}
	}
	return n, nil
}

var _ interfaces.StorageManager = (*MemoryStorage)(nil)
