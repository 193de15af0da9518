package memstore_test

import (
	"errors"
	"testing"

	"github.com/openwebflow/assign/core"
	"github.com/openwebflow/assign/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupUpsertsDisplayName(t *testing.T) {

	var store = memstore.NewMembershipStore()

	require.NoError(t, store.CreateGroup("engineering", "Engineers"))
	require.NoError(t, store.CreateGroup("engineering", "Engineering Department"))

	g, err := store.GetGroup("engineering")
	require.NoError(t, err)
	assert.Equal(t, "Engineering Department", g.DisplayName())

	groups, err := store.GetAllGroups(10, 0)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestGroupRowsAreImmutable(t *testing.T) {

	var store = memstore.NewMembershipStore()

	require.NoError(t, store.CreateGroup("engineering", "Engineers"))
	g, err := store.GetGroup("engineering")
	require.NoError(t, err)

	require.NoError(t, store.CreateGroup("engineering", "Engineering Department"))

	// the earlier handle keeps reading its own row
	assert.Equal(t, "Engineers", g.DisplayName())

	g, err = store.GetGroup("engineering")
	require.NoError(t, err)
	assert.Equal(t, "Engineering Department", g.DisplayName())
}

func TestGetGroupUnknown(t *testing.T) {

	var store = memstore.NewMembershipStore()

	_, err := store.GetGroup("nope")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestMemberships(t *testing.T) {

	var store = memstore.NewMembershipStore()

	require.NoError(t, store.CreateGroup("engineering", "Engineers"))
	require.NoError(t, store.CreateMembership("bluejoe", "engineering"))
	require.NoError(t, store.CreateMembership("bluejoe", "engineering")) // duplicate add is a no-op

	users, err := store.GetUsersOf("engineering")
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Contains(t, users, "bluejoe")

	groups, err := store.GetGroupsOf("bluejoe")
	require.NoError(t, err)
	assert.Contains(t, groups, "engineering")

	g, err := store.GetGroup("engineering")
	require.NoError(t, err)
	hasMember, err := g.HasMember("bluejoe")
	require.NoError(t, err)
	assert.True(t, hasMember)
	hasMember, err = g.HasMember("kermit")
	require.NoError(t, err)
	assert.False(t, hasMember)
}

func TestUnknownUserAndGroupYieldEmptySets(t *testing.T) {

	var store = memstore.NewMembershipStore()

	groups, err := store.GetGroupsOf("nobody")
	require.NoError(t, err)
	assert.Empty(t, groups)

	users, err := store.GetUsersOf("nothing")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestStoreRejectsMembershipForUnknownGroup(t *testing.T) {

	var store = memstore.NewMembershipStore()

	var err = store.CreateMembership("bluejoe", "ghosts")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestEngineRejectsMembershipForUnknownGroup(t *testing.T) {

	var engine = &core.Engine{}
	engine.MembershipDB = memstore.NewMembershipStore()

	var err = engine.CreateMembership("bluejoe", "ghosts")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
