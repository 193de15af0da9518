package core

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPrincipal = errors.New("invalid principal")

// PrincipalKind distinguishes the user and group namespaces.
type PrincipalKind int

const (
	User  PrincipalKind = 1
	Group PrincipalKind = 2
)

func (k PrincipalKind) String() string {
	switch k {
	case User:
		return "user"
	case Group:
		return "group"
	}
	return "unknown"
}

func (k PrincipalKind) Valid() bool {
	return k == User || k == Group
}

// A Principal identifies a user or a group. Keeping the kind next to the id
// means a user id can never be mistaken for a group id, so callers don't have
// to maintain a naming convention across the two namespaces.
type Principal struct {
	Kind PrincipalKind
	ID   string
}

func UserPrincipal(id string) Principal {
	return Principal{User, id}
}

func GroupPrincipal(id string) Principal {
	return Principal{Group, id}
}

func (p Principal) Valid() bool {
	return p.Kind.Valid() && p.ID != ""
}

func (p Principal) String() string {
	return fmt.Sprintf("%s:%s", p.Kind, p.ID)
}

// ParsePrincipal parses "user:neo" or "group:engineering". The kind prefix is
// mandatory, a bare id would reintroduce the ambiguity the type exists to
// rule out.
func ParsePrincipal(s string) (Principal, error) {
	var parts = strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Principal{}, fmt.Errorf("%w: %q", ErrInvalidPrincipal, s)
	}
	switch parts[0] {
	case "user":
		return UserPrincipal(parts[1]), nil
	case "group":
		return GroupPrincipal(parts[1]), nil
	}
	return Principal{}, fmt.Errorf("%w: %q", ErrInvalidPrincipal, s)
}

// SplitPrincipals separates a mixed principal list into user ids and group ids.
func SplitPrincipals(principals []Principal) (userIDs, groupIDs []string) {
	for _, p := range principals {
		switch p.Kind {
		case User:
			userIDs = append(userIDs, p.ID)
		case Group:
			groupIDs = append(groupIDs, p.ID)
		}
	}
	return
}
