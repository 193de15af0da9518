package core

import (
	"log"
	"sync"
)

// A TaskAssignment is the event raised by the hosting engine when a task is
// created or reassigned.
type TaskAssignment struct {
	ProcessDefinitionID string
	StepID              string
	TaskInstanceID      string

	// the candidates declared by the process definition for this step
	DefaultCandidateUsers  []string
	DefaultCandidateGroups []string
}

// An Assignment is the resolved candidate set of one task, written back as the
// task's identity links. Candidate groups stay unexpanded; group membership is
// evaluated at query time (see Engine.IsUserCandidate), not here.
type Assignment struct {
	CandidateUsers  map[string]interface{}
	CandidateGroups map[string]interface{}
}

func newAssignment() Assignment {
	return Assignment{
		CandidateUsers:  make(map[string]interface{}),
		CandidateGroups: make(map[string]interface{}),
	}
}

// Copy returns an Assignment with its own candidate sets, so the holder and
// the originator can't race on the shared maps.
func (a Assignment) Copy() Assignment {
	var c = newAssignment()
	for u := range a.CandidateUsers {
		c.CandidateUsers[u] = struct{}{}
	}
	for g := range a.CandidateGroups {
		c.CandidateGroups[g] = struct{}{}
	}
	return c
}

// The Resolver computes the candidate set of a task at the moment the task is
// created or reassigned. It keeps no per-task state: each call is a pure
// function of the rule table and the delegation graph as they are right now,
// and later mutations never touch tasks which have already been resolved.
//
// The Resolver is also the DelegationPolicyController of the process.
type Resolver struct {
	rules       RuleDB
	delegations DelegationDB

	mu            sync.RWMutex
	hideDelegated bool
}

func NewResolver(rules RuleDB, delegations DelegationDB) *Resolver {
	return &Resolver{
		rules:       rules,
		delegations: delegations,
	}
}

func (rv *Resolver) HideDelegated() bool {
	rv.mu.RLock()
	defer rv.mu.RUnlock()
	return rv.hideDelegated
}

func (rv *Resolver) SetHideDelegated(hide bool) {
	rv.mu.Lock()
	rv.hideDelegated = hide
	rv.mu.Unlock()
}

// OnTaskAssignment resolves the candidate set for the given task. It never
// fails: a store error counts as "nothing found" and the resolution falls
// through to the process definition's defaults, because a misconfigured rule
// must not block task creation.
func (rv *Resolver) OnTaskAssignment(t TaskAssignment) Assignment {

	var result = newAssignment()

	// a rule replaces the defaults entirely, no union of the two

	rule, err := rv.rules.Lookup(t.ProcessDefinitionID, t.StepID, t.TaskInstanceID)
	if err != nil {
		log.Printf("resolving task %s: rule lookup: %v", t.TaskInstanceID, err)
		rule = nil
	}

	if rule != nil {
		for u := range rule.CandidateUsers {
			result.CandidateUsers[u] = struct{}{}
		}
		for g := range rule.CandidateGroups {
			result.CandidateGroups[g] = struct{}{}
		}
		for u := range rule.ExcludedUsers {
			delete(result.CandidateUsers, u)
		}
	} else {
		for _, u := range t.DefaultCandidateUsers {
			result.CandidateUsers[u] = struct{}{}
		}
		for _, g := range t.DefaultCandidateGroups {
			result.CandidateGroups[g] = struct{}{}
		}
	}

	// Delegation is expanded over a snapshot of the base set, one level deep.
	// Delegates of delegates are not added, which also keeps self-delegation
	// and delegation cycles from looping.
	//
	// A delegate is added even if it was excluded as a direct candidate:
	// delegation authority is independent of direct exclusion.

	var base = make([]string, 0, len(result.CandidateUsers))
	for u := range result.CandidateUsers {
		base = append(base, u)
	}

	for _, u := range base {
		delegates, err := rv.delegates(u)
		if err != nil {
			log.Printf("resolving task %s: delegates of %s: %v", t.TaskInstanceID, u, err)
			continue
		}
		for _, d := range delegates {
			result.CandidateUsers[d] = struct{}{}
		}
	}

	// hide-delegated: a candidate whose delegate made it into the final set
	// is removed. Collect first, delete after, so the outcome does not depend
	// on map iteration order.

	if rv.HideDelegated() {
		var hidden []string
		for u := range result.CandidateUsers {
			delegates, err := rv.delegates(u)
			if err != nil {
				continue
			}
			for _, d := range delegates {
				if _, ok := result.CandidateUsers[d]; ok {
					hidden = append(hidden, u)
					break
				}
			}
		}
		for _, u := range hidden {
			delete(result.CandidateUsers, u)
		}
	}

	return result
}

func (rv *Resolver) delegates(userID string) ([]string, error) {
	if rv.delegations == nil {
		return nil, nil
	}
	return rv.delegations.GetDelegates(userID)
}
