package memstore

import (
	"sort"
	"sync"

	"github.com/openwebflow/assign/core"
)

// DelegationStore keeps the directed delegation edges. Delegates are returned
// in insertion order so that listings are deterministic; for authorization the
// order carries no meaning.
type DelegationStore struct {
	mu    sync.RWMutex
	edges map[string][]string // delegated -> delegates
}

func NewDelegationStore() *DelegationStore {
	return &DelegationStore{
		edges: make(map[string][]string),
	}
}

func (s *DelegationStore) Writeable() bool {
	return true
}

func (s *DelegationStore) Add(delegated string, delegate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.edges[delegated] {
		if d == delegate {
			return nil // no duplicate edges
		}
	}
	s.edges[delegated] = append(s.edges[delegated], delegate)
	return nil
}

func (s *DelegationStore) Remove(delegated string, delegate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var delegates = s.edges[delegated]
	for i, d := range delegates {
		if d == delegate {
			s.edges[delegated] = append(delegates[:i], delegates[i+1:]...)
			break
		}
	}
	return nil
}

func (s *DelegationStore) GetDelegates(delegated string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var delegates = s.edges[delegated]
	var result = make([]string, len(delegates))
	copy(result, delegates)
	return result, nil
}

// GetAllDelegations returns every edge, ordered by delegated user, for
// listings.
func (s *DelegationStore) GetAllDelegations() ([]core.DelegationEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var delegated = make([]string, 0, len(s.edges))
	for d := range s.edges {
		delegated = append(delegated, d)
	}
	sort.Strings(delegated)

	var result = []core.DelegationEdge{}
	for _, d := range delegated {
		for _, delegate := range s.edges[d] {
			result = append(result, core.DelegationEdge{Delegated: d, Delegate: delegate})
		}
	}
	return result, nil
}
