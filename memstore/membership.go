// Package memstore contains the in-memory reference implementations of the
// assignment stores. They serialize their own map mutations, so concurrent
// task resolutions and administrative calls are safe, but there is no
// cross-store snapshot: a resolution may observe a rule change and a
// delegation change in either order.
package memstore

import (
	"sort"
	"sync"

	"github.com/openwebflow/assign/core"
)

type group struct {
	id          string
	displayName string
	db          *MembershipStore
}

func (g *group) ID() string {
	return g.id
}

func (g *group) DisplayName() string {
	return g.displayName
}

func (g *group) HasMember(userID string) (bool, error) {
	members, err := g.Members()
	if err != nil {
		return false, err
	}
	_, ok := members[userID]
	return ok, nil
}

func (g *group) Members() (map[string]interface{}, error) {
	return g.db.GetUsersOf(g.id)
}

type MembershipStore struct {
	mu          sync.RWMutex
	groups      map[string]*group
	memberships map[string]map[string]interface{} // group id -> (user id -> interface{})
}

func NewMembershipStore() *MembershipStore {
	return &MembershipStore{
		groups:      make(map[string]*group),
		memberships: make(map[string]map[string]interface{}),
	}
}

func (s *MembershipStore) Writeable() bool {
	return true
}

func (s *MembershipStore) CreateGroup(id string, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// handed-out group rows are immutable, an upsert stores a new row
	s.groups[id] = &group{id: id, displayName: displayName, db: s}
	return nil
}

// CreateMembership returns core.ErrNotFound for a group which has not been
// created, so orphaned memberships can't accumulate silently.
func (s *MembershipStore) CreateMembership(userID string, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return core.ErrNotFound
	}
	members, ok := s.memberships[groupID]
	if !ok {
		members = make(map[string]interface{})
		s.memberships[groupID] = members
	}
	members[userID] = struct{}{} // duplicate adds are no-ops
	return nil
}

func (s *MembershipStore) GetGroup(id string) (core.DBGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return g, nil
}

func (s *MembershipStore) GetAllGroups(limit, offset int) ([]core.DBGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids = make([]string, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var groups = []core.DBGroup{}
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(groups) == limit {
			break
		}
		groups = append(groups, s.groups[id])
	}
	return groups, nil
}

func (s *MembershipStore) GetGroupsOf(userID string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var groups = make(map[string]interface{})
	for groupID, members := range s.memberships {
		if _, ok := members[userID]; ok {
			groups[groupID] = struct{}{}
		}
	}
	return groups, nil
}

func (s *MembershipStore) GetUsersOf(groupID string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users = make(map[string]interface{})
	for userID := range s.memberships[groupID] {
		users[userID] = struct{}{}
	}
	return users, nil
}
