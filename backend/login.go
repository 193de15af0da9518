package backend

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var ErrLogin = errors.New("wrong name or password")

var loginTmpl = tmpl(`<h1>Login</h1>
	<form method="post" style="max-width: 20rem;">
		<div>
			<label>Name</label>
			<input type="text" name="name" value="{{ .Name }}" required autofocus>
		</div>
		<div>
			<label>Password</label>
			<input type="password" name="password" required>
		</div>
		<div>
			<button type="submit" name="login">Login</button>
		</div>
	</form>`)

type loginData struct {
	*context
	Name string
}

func login(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var name string

	if req.Method == http.MethodPost {

		name = req.PostFormValue("name")
		password := req.PostFormValue("password")

		err := ctx.Login(name, password)
		if err == nil {
			ctx.SeeOther("/")
			return nil
		} else {
			ctx.Danger(ErrLogin)
			// keep POST data for name field
		}
	}

	return loginTmpl.Execute(w, &loginData{
		context: ctx,
		Name:    name,
	})
}
