package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/openwebflow/assign/core"
)

var operatorTmpl = tmpl(`<h1>Operator &raquo;{{ .Selected.Name }}&laquo;</h1>

	<h2>Change Password</h2>

	<form method="post">

		{{ if .RequireOld }}
			<div>
				<label>Current password</label>
				<input type="password" name="old">
			</div>
		{{ end }}

		<div>
			<label>New password</label>
			<input type="password" name="new1">
		</div>

		<div>
			<label>Repeat new password</label>
			<input type="password" name="new2">
		</div>

		<button type="submit" name="submit_add">Change password</button>

	</form>`)

type operatorData struct {
	*context
	Selected core.DBOperator
}

// Operators changing their own password must provide the old one; setting the
// password of a freshly created operator doesn't need it.
func (data *operatorData) RequireOld() bool {
	return data.Selected.ID() == data.Operator.ID()
}

func operator(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selectedID, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return err
	}

	selected, err := ctx.engine.GetOperator(selectedID)
	if err != nil {
		return err
	}

	if req.Method == http.MethodPost {

		var new1 = req.PostFormValue("new1")
		var new2 = req.PostFormValue("new2")

		if new1 != new2 {
			return errors.New("new passwords don't match")
		}

		if strings.TrimSpace(new1) == "" {
			return errors.New("new password is empty")
		}

		if selected.ID() == ctx.Operator.ID() {
			err = ctx.engine.ChangePassword(selected, req.PostFormValue("old"), new1)
		} else {
			err = ctx.engine.SetPassword(selected, new1)
		}
		if err != nil {
			return err
		}

		ctx.Success("password of %s has been changed", selected.Name())
		ctx.SeeOther("/operator/%d", selected.ID())
		return nil
	}

	return operatorTmpl.Execute(w, &operatorData{
		context:  ctx,
		Selected: selected,
	})
}
