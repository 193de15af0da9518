package core

import (
	"encoding/gob"
	"fmt"
	"html/template"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

type Notification struct {
	Message string
	Style   string
}

func init() {
	gob.Register([]Notification{}) // required for storing Notifications in a session
}

// A Request is created by Engine.NewRequest. It carries the logged-in
// operator, if any, and the session-backed notifications.
type Request struct {
	engine   *Engine // unexported, so it can't be accessed in templates
	Operator DBOperator

	writer  http.ResponseWriter
	request *http.Request

	statusWritten bool
}

// NewRequest creates a Request with the given http.ResponseWriter and
// http.Request. If an operator is logged in, it sets Request.Operator.
func (e *Engine) NewRequest(w http.ResponseWriter, httpreq *http.Request) *Request {

	var req = &Request{
		engine:  e,
		writer:  w,
		request: httpreq,
	}

	if oid := e.SessionManager.GetInt(httpreq.Context(), "oid"); oid != 0 {
		o, err := e.GetOperator(oid)
		if o != nil && err == nil {
			req.Operator = o
		}
		// ignore errors
	}

	return req
}

// Danger adds a "danger" notification to the session.
func (req *Request) Danger(err error) {
	req.addNotification(err.Error(), "danger")
}

// Success adds a "success" notification to the session.
func (req *Request) Success(format string, args ...interface{}) {
	req.addNotification(fmt.Sprintf(format, args...), "success")
}

// style should be a bootstrap alert style without the leading "alert-"
func (req *Request) addNotification(message, style string) {
	notifications, _ := req.engine.SessionManager.Get(req.request.Context(), "notifications").([]Notification)
	notifications = append(notifications, Notification{message, style})
	req.engine.SessionManager.Put(req.request.Context(), "notifications", notifications)
}

// RenderNotifications removes all notifications from the session and renders
// them into an HTML string. If the HTTP status had already been written, it
// does nothing.
func (req *Request) RenderNotifications() template.HTML {
	var r string
	if !req.statusWritten {
		notifications, _ := req.engine.SessionManager.Pop(req.request.Context(), "notifications").([]Notification)
		for _, n := range notifications {
			r += `<div class="alert alert-` + n.Style + ` mt-3" role="alert">` + n.Message + `</div>`
		}
	}
	return template.HTML(r)
}

// Cleanup destroys the session (which means re-setting the cookie with zero
// lifetime) if the session has been modified and is empty now.
func (req *Request) Cleanup() {
	sessMan := req.engine.SessionManager
	if sessMan.Status(req.request.Context()) == scs.Modified && len(sessMan.Keys(req.request.Context())) == 0 {
		_ = sessMan.Destroy(req.request.Context())
	}
}

// SeeOther sets the HTTP header to redirect to an URL.
func (req *Request) SeeOther(format string, args ...interface{}) {
	if req.statusWritten {
		return
	}
	var url = fmt.Sprintf(format, args...)
	http.Redirect(req.writer, req.request, url, http.StatusSeeOther)
	req.statusWritten = true
}

// Login tries to log in an operator. On success, the operator id is stored in
// the session.
func (req *Request) Login(name string, enteredPass string) error {
	if req.LoggedIn() {
		return nil
	}
	if o, err := req.engine.LoginOperator(name, enteredPass); err == nil {
		req.Operator = o
	} else {
		return err
	}
	req.Success("Welcome %s!", req.Operator.Name())
	req.engine.SessionManager.Put(req.request.Context(), "oid", req.Operator.ID())
	return nil
}

func (req *Request) LoggedIn() bool {
	return req.Operator != nil
}

// Logout removes the operator id from the session and calls req.Cleanup().
func (req *Request) Logout() {
	if req.LoggedIn() {
		req.engine.SessionManager.Remove(req.request.Context(), "oid")
	}
	req.Cleanup()
}
