package core

import "errors"

// A Rule overrides the default candidate set of a workflow step. If its
// TaskInstanceID is empty, it applies to every task of the step, else only to
// that one task instance. Rules only ever grow, there is no removal.
type Rule struct {
	ProcessDefinitionID string
	StepID              string
	TaskInstanceID      string // empty = applies to the step generally

	CandidateUsers  map[string]interface{}
	CandidateGroups map[string]interface{}
	ExcludedUsers   map[string]interface{}
}

func NewRule(procDefID, stepID, taskInstanceID string) *Rule {
	return &Rule{
		ProcessDefinitionID: procDefID,
		StepID:              stepID,
		TaskInstanceID:      taskInstanceID,
		CandidateUsers:      make(map[string]interface{}),
		CandidateGroups:     make(map[string]interface{}),
		ExcludedUsers:       make(map[string]interface{}),
	}
}

// Merge unions the given principals into the rule.
func (r *Rule) Merge(users, groups, excluded []string) {
	for _, u := range users {
		r.CandidateUsers[u] = struct{}{}
	}
	for _, g := range groups {
		r.CandidateGroups[g] = struct{}{}
	}
	for _, u := range excluded {
		r.ExcludedUsers[u] = struct{}{}
	}
}

type RuleDB interface {
	// AddEntry unions the given sets into the rule with the given key,
	// creating the rule if it does not exist yet.
	AddEntry(procDefID, stepID, taskInstanceID string, users, groups, excluded []string) error

	// Lookup prefers a task-instance-specific rule over the step-general
	// rule. It returns (nil, nil) if neither exists, which means: defer to
	// the process definition's default candidates.
	Lookup(procDefID, stepID, taskInstanceID string) (*Rule, error)

	GetAllRules() ([]*Rule, error)

	Writeable() bool
}

// AddEntry shadows Engine.RuleDB.AddEntry.
func (e *Engine) AddEntry(procDefID, stepID, taskInstanceID string, users, groups, excluded []string) error {
	if procDefID == "" || stepID == "" {
		return errors.New("rule key requires a process definition id and a step id")
	}
	return e.RuleDB.AddEntry(procDefID, stepID, taskInstanceID, users, groups, excluded)
}
