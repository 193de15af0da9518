package core

import (
	"errors"
)

// A DBOperator is an account of the administrative backend. Operators manage
// groups, rules and delegations, they are not workflow principals themselves.
type DBOperator interface {
	ID() int
	Name() string
}

type OperatorDB interface {
	ChangePassword(o DBOperator, old, new string) error
	GetOperator(id int) (DBOperator, error)
	GetOperatorByName(name string) (DBOperator, error)
	InsertOperator(name string) (DBOperator, error)
	LoginOperator(name, password string) (DBOperator, error)
	SetPassword(o DBOperator, password string) error
	Writeable() bool
}

var ErrEmptyPassword = errors.New("refusing to set empty password")

// SetPassword shadows Engine.OperatorDB.SetPassword.
func (e *Engine) SetPassword(o DBOperator, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return e.OperatorDB.SetPassword(o, password)
}
