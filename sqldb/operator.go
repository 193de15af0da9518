// Package sqldb keeps the operational data of the administrative backend:
// operator accounts and HTTP sessions. Assignment data (groups, rules,
// delegations) lives in the pluggable stores behind the core interfaces, not
// here.
package sqldb

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/openwebflow/assign/core"
	"github.com/openwebflow/assign/util"
)

var ErrAuth = errors.New("authentication failed")

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(err)
	}
	return stmt
}

func clean(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return name
}

func hash(salt string, password string) string {
	var hash = sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(hash[:])
}

type operator struct {
	id   int
	name string
	salt string
	pass string // hash
}

func (o *operator) hash(password string) string {
	return hash(o.salt, password)
}

func (o *operator) ID() int {
	return o.id
}

func (o *operator) Name() string {
	return o.name
}

type OperatorDB struct {
	*sql.DB
	get         *sql.Stmt
	getByName   *sql.Stmt
	insert      *sql.Stmt
	login       *sql.Stmt
	setPassword *sql.Stmt
}

func NewOperatorDB(db *sql.DB) *OperatorDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS operator (
			id INTEGER PRIMARY KEY,
			name varchar(128) NOT NULL,
			salt varchar(64) NOT NULL,
			password varchar(64) NOT NULL,
			UNIQUE(name)
		);`)

	var operatorDB = &OperatorDB{}
	operatorDB.DB = db
	operatorDB.get = mustPrepare(db, "SELECT name, salt, password FROM operator WHERE id = ? LIMIT 1")
	operatorDB.getByName = mustPrepare(db, "SELECT id, salt FROM operator WHERE name = ? LIMIT 1")
	operatorDB.insert = mustPrepare(db, "INSERT INTO operator (name, salt, password) VALUES (?, '', '')") // empty password field is safe because no hash value equals it
	operatorDB.login = mustPrepare(db, "SELECT id, salt, password FROM operator WHERE name = ?")
	operatorDB.setPassword = mustPrepare(db, "UPDATE operator SET salt = ?, password = ? WHERE id = ?")
	return operatorDB
}

func (db *OperatorDB) Writeable() bool {
	return true
}

func (db *OperatorDB) ChangePassword(o core.DBOperator, old, new string) error {
	if o.(*operator).hash(old) != o.(*operator).pass {
		return ErrAuth
	}
	return db.SetPassword(o, new)
}

// GetOperator may return sql.ErrNoRows.
func (db *OperatorDB) GetOperator(id int) (core.DBOperator, error) {
	var o = &operator{
		id: id,
	}
	err := db.get.QueryRow(id).Scan(&o.name, &o.salt, &o.pass)
	return o, err
}

func (db *OperatorDB) GetOperatorByName(name string) (core.DBOperator, error) {
	name = clean(name)
	var o = &operator{
		name: name,
	}
	err := db.getByName.QueryRow(name).Scan(&o.id, &o.salt)
	return o, err
}

func (db *OperatorDB) InsertOperator(name string) (core.DBOperator, error) {
	name = clean(name)
	res, err := db.insert.Exec(name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &operator{
		id:   int(id),
		name: name,
	}, nil
}

func (db *OperatorDB) LoginOperator(name, password string) (core.DBOperator, error) {

	name = clean(name)

	var o = &operator{
		name: name,
	}

	err := db.login.QueryRow(name).Scan(&o.id, &o.salt, &o.pass)
	if err == sql.ErrNoRows {
		return nil, ErrAuth // operator not found
	}
	if err != nil {
		return nil, err
	}

	if o.hash(password) != o.pass {
		return nil, ErrAuth // wrong password
	}

	return o, nil
}

func (db *OperatorDB) SetPassword(o core.DBOperator, password string) error {

	if password == "" {
		return errors.New("no password given")
	}

	if o.ID() == 0 {
		return errors.New("can't set password of operator 0")
	}

	salt, err := util.RandomString32()
	if err != nil {
		return err
	}

	_, err = db.setPassword.Exec(salt, hash(salt, password), o.ID())
	if err != nil {
		return err
	}

	o.(*operator).salt = salt
	o.(*operator).pass = hash(salt, password)
	return nil
}
