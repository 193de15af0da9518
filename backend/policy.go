package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

var policyTmpl = tmpl(`<h1>Delegation Policy</h1>

	<p>When "hide delegated" is set, a candidate whose delegate is also a
	candidate disappears from the task's candidate users. The toggle only
	affects tasks created or reassigned afterwards.</p>

	<form method="post">
		<label>
			<input type="checkbox" name="hide_delegated" value="1" {{ if .HideDelegated }}checked{{ end }}>
			Hide delegated users
		</label>
		<button type="submit" name="submit_save">Save</button>
	</form>`)

type policyData struct {
	*context
}

func policy(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		var hide = req.PostFormValue("hide_delegated") != ""
		ctx.engine.Policy.SetHideDelegated(hide)

		if hide {
			ctx.Success("delegated users are now hidden")
		} else {
			ctx.Success("delegated users are now shown")
		}
		ctx.SeeOther("/policy")
		return nil
	}

	return policyTmpl.Execute(w, &policyData{
		context: ctx,
	})
}
