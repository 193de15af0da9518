package memstore

import (
	"sort"
	"sync"

	"github.com/openwebflow/assign/core"
)

type UserDetailsStore struct {
	mu    sync.RWMutex
	users map[string]core.UserDetails
}

func NewUserDetailsStore() *UserDetailsStore {
	return &UserDetailsStore{
		users: make(map[string]core.UserDetails),
	}
}

func (s *UserDetailsStore) Writeable() bool {
	return true
}

func (s *UserDetailsStore) PutUserDetails(details core.UserDetails) error {
	if details.UserID == "" {
		return core.ErrInvalidPrincipal
	}
	s.mu.Lock()
	s.users[details.UserID] = details
	s.mu.Unlock()
	return nil
}

func (s *UserDetailsStore) GetUserDetails(userID string) (core.UserDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	details, ok := s.users[userID]
	if !ok {
		return core.UserDetails{}, core.ErrNotFound
	}
	return details, nil
}

func (s *UserDetailsStore) GetAllUserDetails(limit, offset int) ([]core.UserDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids = make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var details = []core.UserDetails{}
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(details) == limit {
			break
		}
		details = append(details, s.users[id])
	}
	return details, nil
}
