package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/openwebflow/assign/core"
	"github.com/openwebflow/assign/host"
)

var tasksTmpl = tmpl(`<h1>Tasks</h1>

	<form method="get">
		<input name="user" value="{{ .FilterUser }}" placeholder="Filter by candidate user">
		<button type="submit">Filter</button>
	</form>

	<table>
		<tr>
			<th>Task</th>
			<th>Process definition</th>
			<th>Step</th>
			<th>Candidate users</th>
			<th>Candidate groups</th>
			<th></th>
		</tr>
		{{ range .Tasks }}
			<tr>
				<td>{{ .ID }}</td>
				<td>{{ .ProcessDefinitionID }}</td>
				<td>{{ .StepID }}</td>
				<td>{{ JoinSet .Assignment.CandidateUsers }}</td>
				<td>{{ JoinSet .Assignment.CandidateGroups }}</td>
				<td>
					<form method="post">
						<input type="hidden" name="task_id" value="{{ .ID }}">
						<button type="submit" name="submit_reassign" value="1">Reassign</button>
						<button type="submit" name="submit_delete" value="1">Delete</button>
					</form>
				</td>
			</tr>
		{{ end }}
	</table>

	<h2>Start task</h2>

	<p>Starting a task resolves its candidate set once. Rule and delegation
	changes made later will not alter it unless the task is reassigned.</p>

	<form method="post">
		<div><input name="proc_def_id" placeholder="Process definition id"></div>
		<div><input name="step_id" placeholder="Step id"></div>
		<div><input name="candidates" placeholder="Default candidates, like user:neo, group:engineering"></div>
		<button type="submit" name="submit_start" value="1">Start task</button>
	</form>`)

type tasksData struct {
	*context
	FilterUser string
}

func (data *tasksData) Tasks() ([]*host.Task, error) {
	if data.FilterUser != "" {
		return data.host.TasksFor(data.FilterUser)
	}
	return data.host.GetAllTasks(), nil
}

func tasks(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		switch {

		case req.PostFormValue("submit_start") != "":

			procDefID := strings.TrimSpace(req.PostFormValue("proc_def_id"))
			stepID := strings.TrimSpace(req.PostFormValue("step_id"))

			if procDefID == "" || stepID == "" {
				return errors.New("missing process definition id or step id")
			}

			candidates, err := splitPrincipals(req.PostFormValue("candidates"))
			if err != nil {
				return err
			}
			userIDs, groupIDs := core.SplitPrincipals(candidates)

			task := ctx.host.StartTask(procDefID, stepID, userIDs, groupIDs)
			ctx.Success("task %s has been started", task.ID)

		case req.PostFormValue("submit_reassign") != "":

			task, err := ctx.host.Reassign(req.PostFormValue("task_id"))
			if err != nil {
				return err
			}
			ctx.Success("task %s has been reassigned", task.ID)

		case req.PostFormValue("submit_delete") != "":

			if err := ctx.host.DeleteTask(req.PostFormValue("task_id")); err != nil {
				return err
			}
			ctx.Success("task has been deleted")
		}

		ctx.SeeOther("/tasks")
		return nil
	}

	return tasksTmpl.Execute(w, &tasksData{
		context:    ctx,
		FilterUser: strings.TrimSpace(req.FormValue("user")),
	})
}
