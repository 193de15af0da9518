package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

var operatorsTmpl = tmpl(`<h1>Operators</h1>

	<p>Operator {{ .Operator.Name }} is logged in.</p>

	<h2>Create Operator</h2>

	<p>The new operator can't log in until a password has been set on their
	detail page.</p>

	<form method="post">
		<input name="operator_name" placeholder="Operator name">
		<button type="submit" name="submit_add">Create operator</button>
	</form>`)

type operatorsData struct {
	*context
}

func operators(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		newOperatorName := strings.TrimSpace(req.PostFormValue("operator_name"))

		if newOperatorName == "" {
			return errors.New("missing operator name")
		}

		o, err := ctx.engine.InsertOperator(newOperatorName)
		if err != nil {
			return err
		}

		ctx.Success("operator %s has been created", o.Name())
		ctx.SeeOther("/operator/%d", o.ID())
		return nil
	}

	return operatorsTmpl.Execute(w, &operatorsData{
		context: ctx,
	})
}
