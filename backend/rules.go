package backend

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/openwebflow/assign/core"
)

var rulesTmpl = tmpl(`<h1>Assignment Rules</h1>

	<p>A rule replaces the step's default candidates for every task created
	after the rule was added. Existing tasks keep the candidate set they were
	created with. Adding an entry for an existing rule grows its sets, entries
	are never removed.</p>

	<table>
		<tr>
			<th>Process definition</th>
			<th>Step</th>
			<th>Task instance</th>
			<th>Candidate users</th>
			<th>Candidate groups</th>
			<th>Excluded users</th>
		</tr>
		{{ range .Rules }}
			<tr>
				<td>{{ .ProcessDefinitionID }}</td>
				<td>{{ .StepID }}</td>
				<td>{{ .TaskInstanceID }}</td>
				<td>{{ JoinSet .CandidateUsers }}</td>
				<td>{{ JoinSet .CandidateGroups }}</td>
				<td>{{ JoinSet .ExcludedUsers }}</td>
			</tr>
		{{ end }}
	</table>

	<h2>Add rule entry</h2>

	<form method="post">
		<div><input name="proc_def_id" placeholder="Process definition id"></div>
		<div><input name="step_id" placeholder="Step id"></div>
		<div><input name="task_instance_id" placeholder="Task instance id (optional)"></div>
		<div><input name="candidates" placeholder="Candidates, like user:neo, group:engineering"></div>
		<div><input name="excluded" placeholder="Excluded users, comma-separated"></div>
		<button type="submit" name="submit_add">Add entry</button>
	</form>`)

type rulesData struct {
	*context
}

func (data *rulesData) Rules() ([]*core.Rule, error) {
	return data.engine.GetAllRules()
}

func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// splitPrincipals parses a comma-separated list of tagged principals.
func splitPrincipals(s string) ([]core.Principal, error) {
	var result []core.Principal
	for _, part := range splitList(s) {
		principal, err := core.ParsePrincipal(part)
		if err != nil {
			return nil, err
		}
		result = append(result, principal)
	}
	return result, nil
}

func joinSet(set map[string]interface{}) string {
	var ids = make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}

func rules(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		if !ctx.RulesWriteable() {
			return ErrAuth
		}

		procDefID := strings.TrimSpace(req.PostFormValue("proc_def_id"))
		stepID := strings.TrimSpace(req.PostFormValue("step_id"))
		taskInstanceID := strings.TrimSpace(req.PostFormValue("task_instance_id"))

		if procDefID == "" || stepID == "" {
			return errors.New("missing process definition id or step id")
		}

		candidates, err := splitPrincipals(req.PostFormValue("candidates"))
		if err != nil {
			return err
		}
		userIDs, groupIDs := core.SplitPrincipals(candidates)

		err = ctx.engine.AddEntry(
			procDefID, stepID, taskInstanceID,
			userIDs, groupIDs,
			splitList(req.PostFormValue("excluded")),
		)
		if err != nil {
			return err
		}

		ctx.Success("rule entry for step %s has been added", stepID)
		ctx.SeeOther("/rules")
		return nil
	}

	return rulesTmpl.Execute(w, &rulesData{
		context: ctx,
	})
}
