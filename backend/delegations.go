package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/openwebflow/assign/core"
)

var delegationsTmpl = tmpl(`<h1>Delegations</h1>

	<p>A delegate may claim every task their delegated user may claim. Only the
	delegated user's own candidacy is forwarded, not what they in turn received
	through delegation.</p>

	<table>
		<tr>
			<th>Delegated</th>
			<th>Delegate</th>
			<th></th>
		</tr>
		{{ range .Delegations }}
			<tr>
				<td>{{ .Delegated }}</td>
				<td>{{ .Delegate }}</td>
				<td>
					<form method="post">
						<input type="hidden" name="delegated" value="{{ .Delegated }}">
						<input type="hidden" name="delegate" value="{{ .Delegate }}">
						<button type="submit" name="submit_remove" value="1">Remove</button>
					</form>
				</td>
			</tr>
		{{ end }}
	</table>

	<h2>Add delegation</h2>

	<form method="post">
		<input name="delegated" placeholder="Delegated user">
		<input name="delegate" placeholder="Delegate">
		<button type="submit" name="submit_add" value="1">Add</button>
	</form>`)

type delegationsData struct {
	*context
}

func (data *delegationsData) Delegations() ([]core.DelegationEdge, error) {
	return data.engine.GetAllDelegations()
}

func delegations(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		if !ctx.DelegationsWriteable() {
			return ErrAuth
		}

		delegated := strings.TrimSpace(req.PostFormValue("delegated"))
		delegate := strings.TrimSpace(req.PostFormValue("delegate"))

		if delegated == "" || delegate == "" {
			return errors.New("missing delegated user or delegate")
		}

		switch {
		case req.PostFormValue("submit_remove") != "":
			if err := ctx.engine.RemoveDelegation(delegated, delegate); err != nil {
				return err
			}
			ctx.Success("delegation %s to %s has been removed", delegated, delegate)
		default:
			if err := ctx.engine.AddDelegation(delegated, delegate); err != nil {
				return err
			}
			ctx.Success("%s now delegates to %s", delegated, delegate)
		}

		ctx.SeeOther("/delegations")
		return nil
	}

	return delegationsTmpl.Execute(w, &delegationsData{
		context: ctx,
	})
}
