package memstore

import (
	"sort"
	"sync"

	"github.com/openwebflow/assign/core"
)

type ruleKey struct {
	procDefID      string
	stepID         string
	taskInstanceID string // empty = step-general rule
}

// RuleStore keeps the assignment rules. Rules only grow: AddEntry unions into
// an existing rule and there is no delete.
type RuleStore struct {
	mu    sync.RWMutex
	rules map[ruleKey]*core.Rule
}

func NewRuleStore() *RuleStore {
	return &RuleStore{
		rules: make(map[ruleKey]*core.Rule),
	}
}

func (s *RuleStore) Writeable() bool {
	return true
}

func (s *RuleStore) AddEntry(procDefID, stepID, taskInstanceID string, users, groups, excluded []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var key = ruleKey{procDefID, stepID, taskInstanceID}
	rule, ok := s.rules[key]
	if !ok {
		rule = core.NewRule(procDefID, stepID, taskInstanceID)
		s.rules[key] = rule
	}
	rule.Merge(users, groups, excluded)
	return nil
}

// Lookup prefers the task-instance-specific rule and falls back to the
// step-general rule. The returned rule is a copy, so the caller can't grow the
// stored one past AddEntry.
func (s *RuleStore) Lookup(procDefID, stepID, taskInstanceID string) (*core.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if taskInstanceID != "" {
		if rule, ok := s.rules[ruleKey{procDefID, stepID, taskInstanceID}]; ok {
			return copyRule(rule), nil
		}
	}
	if rule, ok := s.rules[ruleKey{procDefID, stepID, ""}]; ok {
		return copyRule(rule), nil
	}
	return nil, nil // no rule, defer to the process definition's defaults
}

func (s *RuleStore) GetAllRules() ([]*core.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rules = make([]*core.Rule, 0, len(s.rules))
	for _, rule := range s.rules {
		rules = append(rules, copyRule(rule))
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].ProcessDefinitionID != rules[j].ProcessDefinitionID {
			return rules[i].ProcessDefinitionID < rules[j].ProcessDefinitionID
		}
		if rules[i].StepID != rules[j].StepID {
			return rules[i].StepID < rules[j].StepID
		}
		return rules[i].TaskInstanceID < rules[j].TaskInstanceID
	})
	return rules, nil
}

func copyRule(rule *core.Rule) *core.Rule {
	var c = core.NewRule(rule.ProcessDefinitionID, rule.StepID, rule.TaskInstanceID)
	for u := range rule.CandidateUsers {
		c.CandidateUsers[u] = struct{}{}
	}
	for g := range rule.CandidateGroups {
		c.CandidateGroups[g] = struct{}{}
	}
	for u := range rule.ExcludedUsers {
		c.ExcludedUsers[u] = struct{}{}
	}
	return c
}
