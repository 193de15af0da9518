package core

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type DBGroup interface {
	ID() string
	DisplayName() string
	HasMember(userID string) (bool, error)
	Members() (map[string]interface{}, error) // user id -> interface{}
}

type MembershipDB interface {
	CreateGroup(id string, displayName string) error // upsert, replaces the display name
	CreateMembership(userID string, groupID string) error
	GetGroup(id string) (DBGroup, error)
	GetAllGroups(limit, offset int) ([]DBGroup, error)
	GetGroupsOf(userID string) (map[string]interface{}, error) // group id -> interface{}
	GetUsersOf(groupID string) (map[string]interface{}, error) // user id -> interface{}
	Writeable() bool
}

// CreateGroup shadows Engine.MembershipDB.CreateGroup.
func (e *Engine) CreateGroup(id string, displayName string) error {
	if id == "" {
		return ErrInvalidPrincipal
	}
	return e.MembershipDB.CreateGroup(id, displayName)
}

// CreateMembership shadows Engine.MembershipDB.CreateMembership.
// A membership may only reference a group which has been created before,
// else orphaned memberships would accumulate silently.
func (e *Engine) CreateMembership(userID string, groupID string) error {
	if userID == "" {
		return ErrInvalidPrincipal
	}
	if _, err := e.MembershipDB.GetGroup(groupID); err != nil {
		return fmt.Errorf("create membership (%s, %s): %w", userID, groupID, ErrNotFound)
	}
	return e.MembershipDB.CreateMembership(userID, groupID)
}
