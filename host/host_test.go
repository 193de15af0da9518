package host_test

import (
	"testing"

	"github.com/openwebflow/assign/core"
	"github.com/openwebflow/assign/host"
	"github.com/openwebflow/assign/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *core.Engine {
	t.Helper()

	var engine = &core.Engine{}
	engine.MembershipDB = memstore.NewMembershipStore()
	engine.DelegationDB = memstore.NewDelegationStore()
	engine.RuleDB = memstore.NewRuleStore()
	engine.UserDetailsDB = memstore.NewUserDetailsStore()
	engine.Resolver = core.NewResolver(engine.RuleDB, engine.DelegationDB)
	engine.Policy = engine.Resolver
	return engine
}

func countForUser(t *testing.T, h *host.Host, userID string) int {
	t.Helper()
	count, err := h.CountByCandidateUser(userID)
	require.NoError(t, err)
	return count
}

// The walkthrough the original demo test did against a live process engine:
// defaults, then a replacing rule, then additive growth, then delegation and
// the hide-delegated policy. A new task is started for every stage because a
// task only ever observes the stores as they were when it was created.
func TestAssignmentWalkthrough(t *testing.T) {

	var engine = newEngine(t)
	var h = host.New(engine)

	require.NoError(t, engine.CreateGroup("management", "Management"))
	require.NoError(t, engine.CreateGroup("sales", "Sales"))
	require.NoError(t, engine.CreateGroup("engineering", "Engineering"))

	require.NoError(t, engine.CreateMembership("bluejoe", "engineering"))
	require.NoError(t, engine.CreateMembership("gonzo", "sales"))
	require.NoError(t, engine.CreateMembership("kermit", "management"))

	const pd = "pd1"

	// stage 1: no rule, the process definition's defaults win

	task := h.StartTask(pd, "step2", nil, []string{"management"})

	assert.Equal(t, 1, h.CountByCandidateGroup("management"))
	assert.Equal(t, 0, h.CountByCandidateGroup("engineering"))
	assert.Equal(t, 1, countForUser(t, h, "kermit")) // via the management group
	assert.Equal(t, 0, countForUser(t, h, "bluejoe"))

	// stage 2: a rule replaces the defaults, but only for tasks created later

	require.NoError(t, engine.AddEntry(pd, "step2", "", nil, []string{"engineering"}, nil))

	assert.Equal(t, 0, h.CountByCandidateGroup("engineering"))
	require.NoError(t, h.DeleteTask(task.ID))

	task = h.StartTask(pd, "step2", nil, []string{"management"})

	assert.Equal(t, 1, h.CountByCandidateGroup("engineering"))
	assert.Equal(t, 0, h.CountByCandidateGroup("management"))
	assert.Equal(t, 1, countForUser(t, h, "bluejoe"))
	assert.Equal(t, 0, countForUser(t, h, "kermit"))
	require.NoError(t, h.DeleteTask(task.ID))

	// stage 3: rule entries are additive

	require.NoError(t, engine.AddEntry(pd, "step2", "", []string{"neo"}, []string{"management"}, nil))

	task = h.StartTask(pd, "step2", nil, []string{"management"})

	assert.Equal(t, 1, h.CountByCandidateGroup("engineering"))
	assert.Equal(t, 1, h.CountByCandidateGroup("management"))
	assert.Equal(t, 1, countForUser(t, h, "bluejoe"))
	assert.Equal(t, 1, countForUser(t, h, "neo"))
	assert.Equal(t, 1, countForUser(t, h, "kermit"))
	require.NoError(t, h.DeleteTask(task.ID))

	// stage 4: delegation adds alex next to neo

	require.NoError(t, engine.AddDelegation("neo", "alex"))

	task = h.StartTask(pd, "step2", nil, []string{"management"})

	assert.Equal(t, 1, countForUser(t, h, "neo"))
	assert.Equal(t, 1, countForUser(t, h, "alex"))
	require.NoError(t, h.DeleteTask(task.ID))

	// stage 5: the hide-delegated policy removes neo

	engine.Policy.SetHideDelegated(true)

	task = h.StartTask(pd, "step2", nil, []string{"management"})

	assert.Equal(t, 1, countForUser(t, h, "alex"))
	assert.Equal(t, 0, countForUser(t, h, "neo"))
	require.NoError(t, h.DeleteTask(task.ID))
}

func TestTaskKeepsItsCandidateSet(t *testing.T) {

	var engine = newEngine(t)
	var h = host.New(engine)

	task := h.StartTask("pd1", "step2", []string{"kermit"}, nil)

	require.NoError(t, engine.AddEntry("pd1", "step2", "", []string{"neo"}, nil, nil))
	require.NoError(t, engine.AddDelegation("kermit", "gonzo"))

	// the stored task still carries the snapshot taken at creation
	got, err := h.GetTask(task.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Assignment.CandidateUsers, "kermit")
	assert.NotContains(t, got.Assignment.CandidateUsers, "neo")
	assert.NotContains(t, got.Assignment.CandidateUsers, "gonzo")
}

func TestTasksAreReturnedAsCopies(t *testing.T) {

	var engine = newEngine(t)
	var h = host.New(engine)

	task := h.StartTask("pd1", "step2", []string{"kermit"}, nil)
	task.Assignment.CandidateUsers["smith"] = struct{}{}

	// growing the handed-out task must not touch the stored one
	got, err := h.GetTask(task.ID)
	require.NoError(t, err)
	assert.NotContains(t, got.Assignment.CandidateUsers, "smith")
}

func TestReassignDoesNotTouchHandedOutTasks(t *testing.T) {

	var engine = newEngine(t)
	var h = host.New(engine)

	task := h.StartTask("pd1", "step2", []string{"kermit"}, nil)

	all := h.GetAllTasks()
	require.Len(t, all, 1)

	require.NoError(t, engine.AddEntry("pd1", "step2", task.ID, []string{"neo"}, nil, nil))
	_, err := h.Reassign(task.ID)
	require.NoError(t, err)

	// a task listed before the reassignment keeps its own candidate set, it
	// does not observe the swap happening inside the host
	assert.Contains(t, all[0].Assignment.CandidateUsers, "kermit")
	assert.NotContains(t, all[0].Assignment.CandidateUsers, "neo")

	got, err := h.GetTask(task.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Assignment.CandidateUsers, "neo")
}

func TestMembershipChangeAffectsVisibilityOfExistingTasks(t *testing.T) {

	var engine = newEngine(t)
	var h = host.New(engine)

	require.NoError(t, engine.CreateGroup("sales", "Sales"))

	h.StartTask("pd1", "step1", nil, []string{"sales"})

	assert.Equal(t, 0, countForUser(t, h, "gonzo"))

	// group expansion happens at query time, so the existing task shows up
	// without any re-resolution
	require.NoError(t, engine.CreateMembership("gonzo", "sales"))

	assert.Equal(t, 1, countForUser(t, h, "gonzo"))
}

func TestReassignAppliesInstanceRule(t *testing.T) {

	var engine = newEngine(t)
	var h = host.New(engine)

	task := h.StartTask("pd1", "step2", []string{"kermit"}, nil)
	assert.Contains(t, task.Assignment.CandidateUsers, "kermit")

	require.NoError(t, engine.AddEntry("pd1", "step2", task.ID, []string{"neo"}, nil, nil))

	reassigned, err := h.Reassign(task.ID)
	require.NoError(t, err)
	assert.Contains(t, reassigned.Assignment.CandidateUsers, "neo")
	assert.NotContains(t, reassigned.Assignment.CandidateUsers, "kermit")
}

func TestUnknownTask(t *testing.T) {

	var h = host.New(newEngine(t))

	_, err := h.GetTask("nope")
	assert.Equal(t, core.ErrNotFound, err)

	_, err = h.Reassign("nope")
	assert.Equal(t, core.ErrNotFound, err)

	assert.Equal(t, core.ErrNotFound, h.DeleteTask("nope"))
}
