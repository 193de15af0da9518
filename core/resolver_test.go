package core_test

import (
	"errors"
	"testing"

	"github.com/openwebflow/assign/core"
	"github.com/openwebflow/assign/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) (*core.Resolver, *memstore.RuleStore, *memstore.DelegationStore) {
	t.Helper()
	var rules = memstore.NewRuleStore()
	var delegations = memstore.NewDelegationStore()
	return core.NewResolver(rules, delegations), rules, delegations
}

func users(a core.Assignment) []string {
	var result = []string{}
	for u := range a.CandidateUsers {
		result = append(result, u)
	}
	return result
}

func groups(a core.Assignment) []string {
	var result = []string{}
	for g := range a.CandidateGroups {
		result = append(result, g)
	}
	return result
}

func TestResolveWithoutRuleReturnsDefaults(t *testing.T) {

	resolver, _, _ := newResolver(t)

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID:    "pd1",
		StepID:                 "step2",
		TaskInstanceID:         "t1",
		DefaultCandidateUsers:  []string{"kermit"},
		DefaultCandidateGroups: []string{"management"},
	})

	assert.ElementsMatch(t, []string{"kermit"}, users(a))
	assert.ElementsMatch(t, []string{"management"}, groups(a))
}

func TestRuleReplacesDefaults(t *testing.T) {

	resolver, rules, _ := newResolver(t)

	require.NoError(t, rules.AddEntry("pd1", "step2", "", nil, []string{"engineering"}, nil))

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID:    "pd1",
		StepID:                 "step2",
		TaskInstanceID:         "t1",
		DefaultCandidateUsers:  []string{"kermit"},
		DefaultCandidateGroups: []string{"management"},
	})

	// no union with the defaults
	assert.Empty(t, users(a))
	assert.ElementsMatch(t, []string{"engineering"}, groups(a))
}

func TestInstanceRuleBeatsStepRule(t *testing.T) {

	resolver, rules, _ := newResolver(t)

	require.NoError(t, rules.AddEntry("pd1", "step2", "", nil, []string{"engineering"}, nil))
	require.NoError(t, rules.AddEntry("pd1", "step2", "t1", []string{"neo"}, nil, nil))

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID: "pd1",
		StepID:              "step2",
		TaskInstanceID:      "t1",
	})

	// the instance rule replaces the step rule entirely, the two are not merged
	assert.ElementsMatch(t, []string{"neo"}, users(a))
	assert.Empty(t, groups(a))

	a = resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID: "pd1",
		StepID:              "step2",
		TaskInstanceID:      "t2",
	})

	assert.Empty(t, users(a))
	assert.ElementsMatch(t, []string{"engineering"}, groups(a))
}

func TestExclusionWinsOverInclusion(t *testing.T) {

	resolver, rules, _ := newResolver(t)

	require.NoError(t, rules.AddEntry("pd1", "step2", "", []string{"neo", "trinity"}, nil, []string{"neo"}))

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID: "pd1",
		StepID:              "step2",
		TaskInstanceID:      "t1",
	})

	assert.ElementsMatch(t, []string{"trinity"}, users(a))
}

func TestDelegationExpandsOneLevel(t *testing.T) {

	resolver, _, delegations := newResolver(t)

	require.NoError(t, delegations.Add("neo", "alex"))
	require.NoError(t, delegations.Add("alex", "bob"))

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID:   "pd1",
		StepID:                "step2",
		TaskInstanceID:        "t1",
		DefaultCandidateUsers: []string{"neo"},
	})

	// alex deputizes for neo, but bob (alex's delegate) is not pulled in
	assert.ElementsMatch(t, []string{"neo", "alex"}, users(a))
}

func TestDelegateIsAddedDespiteExclusion(t *testing.T) {

	resolver, rules, delegations := newResolver(t)

	// alex is excluded as a direct candidate but deputizes for neo;
	// delegation authority is independent of direct exclusion
	require.NoError(t, rules.AddEntry("pd1", "step2", "", []string{"neo", "alex"}, nil, []string{"alex"}))
	require.NoError(t, delegations.Add("neo", "alex"))

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID: "pd1",
		StepID:              "step2",
		TaskInstanceID:      "t1",
	})

	assert.ElementsMatch(t, []string{"neo", "alex"}, users(a))
}

func TestHideDelegated(t *testing.T) {

	resolver, _, delegations := newResolver(t)

	require.NoError(t, delegations.Add("neo", "alex"))

	var task = core.TaskAssignment{
		ProcessDefinitionID:   "pd1",
		StepID:                "step2",
		TaskInstanceID:        "t1",
		DefaultCandidateUsers: []string{"neo"},
	}

	a := resolver.OnTaskAssignment(task)
	assert.ElementsMatch(t, []string{"neo", "alex"}, users(a))

	resolver.SetHideDelegated(true)

	a = resolver.OnTaskAssignment(task)
	assert.ElementsMatch(t, []string{"alex"}, users(a))

	resolver.SetHideDelegated(false)

	a = resolver.OnTaskAssignment(task)
	assert.ElementsMatch(t, []string{"neo", "alex"}, users(a))
}

func TestHideDelegatedLeavesUnrelatedCandidates(t *testing.T) {

	resolver, _, delegations := newResolver(t)
	resolver.SetHideDelegated(true)

	require.NoError(t, delegations.Add("neo", "alex"))
	require.NoError(t, delegations.Add("kermit", "gonzo")) // gonzo is no candidate, so kermit stays

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID:   "pd1",
		StepID:                "step2",
		TaskInstanceID:        "t1",
		DefaultCandidateUsers: []string{"neo", "kermit"},
	})

	assert.ElementsMatch(t, []string{"alex", "kermit"}, users(a))
}

func TestDelegationCyclesDontLoop(t *testing.T) {

	resolver, _, delegations := newResolver(t)

	require.NoError(t, delegations.Add("neo", "neo")) // self-delegation
	require.NoError(t, delegations.Add("alex", "bob"))
	require.NoError(t, delegations.Add("bob", "alex"))

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID:   "pd1",
		StepID:                "step2",
		TaskInstanceID:        "t1",
		DefaultCandidateUsers: []string{"neo", "alex"},
	})

	assert.ElementsMatch(t, []string{"neo", "alex", "bob"}, users(a))
}

type failingRuleDB struct{}

func (failingRuleDB) AddEntry(procDefID, stepID, taskInstanceID string, users, groups, excluded []string) error {
	return errors.New("boom")
}

func (failingRuleDB) Lookup(procDefID, stepID, taskInstanceID string) (*core.Rule, error) {
	return nil, errors.New("boom")
}

func (failingRuleDB) GetAllRules() ([]*core.Rule, error) {
	return nil, errors.New("boom")
}

func (failingRuleDB) Writeable() bool {
	return false
}

func TestResolutionDegradesOnStoreError(t *testing.T) {

	// a broken rule store must not block task creation
	var resolver = core.NewResolver(failingRuleDB{}, memstore.NewDelegationStore())

	a := resolver.OnTaskAssignment(core.TaskAssignment{
		ProcessDefinitionID:    "pd1",
		StepID:                 "step2",
		TaskInstanceID:         "t1",
		DefaultCandidateUsers:  []string{"kermit"},
		DefaultCandidateGroups: []string{"management"},
	})

	assert.ElementsMatch(t, []string{"kermit"}, users(a))
	assert.ElementsMatch(t, []string{"management"}, groups(a))
}
