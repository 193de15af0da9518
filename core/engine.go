package core

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

// The Engine bundles the assignment stores, the resolver and the session
// manager of the administrative backend. The stores are constructed once at
// process start and passed in by the caller; there is no ambient global state.
type Engine struct {
	MembershipDB
	DelegationDB
	RuleDB
	UserDetailsDB
	OperatorDB

	Resolver       *Resolver
	Policy         DelegationPolicyController
	SessionManager *scs.SessionManager
}

func (e *Engine) Init(sessionStore scs.Store, cookiePath string) error {

	e.Resolver = NewResolver(e.RuleDB, e.DelegationDB)
	e.Policy = e.Resolver

	e.SessionManager = scs.New()
	e.SessionManager.Store = sessionStore
	e.SessionManager.Cookie.Path = cookiePath + "/"
	e.SessionManager.Cookie.Persist = false                 // don't store the cookie across browser sessions
	e.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	e.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	e.SessionManager.IdleTimeout = 12 * time.Hour
	e.SessionManager.Lifetime = 720 * time.Hour

	return nil
}

// AddDelegation shadows Engine.DelegationDB.Add.
func (e *Engine) AddDelegation(delegated, delegate string) error {
	if delegated == "" || delegate == "" {
		return ErrInvalidPrincipal
	}
	return e.DelegationDB.Add(delegated, delegate)
}

// RemoveDelegation shadows Engine.DelegationDB.Remove.
func (e *Engine) RemoveDelegation(delegated, delegate string) error {
	return e.DelegationDB.Remove(delegated, delegate)
}

// IsUserCandidate reports whether the user may claim a task with the given
// identity links: either as a direct candidate or through membership in one of
// the candidate groups. Groups are expanded here, at query time, so membership
// changes affect the visibility of existing tasks even though assignment rules
// never re-resolve them.
func (e *Engine) IsUserCandidate(userID string, a Assignment) (bool, error) {

	if _, ok := a.CandidateUsers[userID]; ok {
		return true, nil
	}

	groups, err := e.GetGroupsOf(userID)
	if err != nil {
		return false, err
	}

	for g := range a.CandidateGroups {
		if _, ok := groups[g]; ok {
			return true, nil
		}
	}

	return false, nil
}
