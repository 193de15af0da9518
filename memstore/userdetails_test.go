package memstore_test

import (
	"errors"
	"testing"

	"github.com/openwebflow/assign/core"
	"github.com/openwebflow/assign/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDetails(t *testing.T) {

	var store = memstore.NewUserDetailsStore()

	require.NoError(t, store.PutUserDetails(core.UserDetails{
		UserID:      "bluejoe",
		DisplayName: "Blue Joe",
		Email:       "bluejoe@example.com",
		Phone:       "13800138000",
	}))

	details, err := store.GetUserDetails("bluejoe")
	require.NoError(t, err)
	assert.Equal(t, "Blue Joe", details.DisplayName)

	_, err = store.GetUserDetails("nobody")
	assert.True(t, errors.Is(err, core.ErrNotFound))

	all, err := store.GetAllUserDetails(10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserDetailsRequireUserID(t *testing.T) {

	var store = memstore.NewUserDetailsStore()

	var err = store.PutUserDetails(core.UserDetails{DisplayName: "Nobody"})
	assert.True(t, errors.Is(err, core.ErrInvalidPrincipal))
}
