package core

// A DelegationEdge is a directed grant: the delegate may act on behalf of the
// delegated user.
type DelegationEdge struct {
	Delegated string
	Delegate  string
}

type DelegationDB interface {
	Add(delegated string, delegate string) error    // idempotent, no duplicate edges
	Remove(delegated string, delegate string) error // no-op if the edge is absent
	GetDelegates(delegated string) ([]string, error)
	GetAllDelegations() ([]DelegationEdge, error)
	Writeable() bool
}

// A DelegationPolicyController toggles the process-wide "hide delegated" flag:
// when set, a candidate who has handed the work to a delegate is no longer
// shown as a candidate themselves.
//
// Collaborators reach the controller through this interface on the Engine,
// never by digging through a listener chain.
type DelegationPolicyController interface {
	HideDelegated() bool
	SetHideDelegated(hide bool)
}
