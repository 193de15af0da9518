package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/openwebflow/assign/core"
)

var groupsTmpl = tmpl(`<h1>Groups</h1>

	<ul>
		{{ range .Groups }}
			<li>{{ GroupLink . }}</li>
		{{ else }}
			No groups.
		{{ end }}
	</ul>

	<h2>Create Group</h2>

	<form method="post">
		<input name="group_id" placeholder="Group id">
		<input name="display_name" placeholder="Display name">
		<button type="submit" name="submit_add">Create group</button>
	</form>`)

type groupsData struct {
	*context
}

func (data *groupsData) Groups() ([]core.DBGroup, error) {
	return data.engine.GetAllGroups(10000, 0) // assuming there are not more than 10k groups
}

func groups(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		if !ctx.GroupsWriteable() {
			return ErrAuth
		}

		groupID := strings.TrimSpace(req.PostFormValue("group_id"))
		displayName := strings.TrimSpace(req.PostFormValue("display_name"))

		if groupID == "" {
			return errors.New("missing group id")
		}
		if displayName == "" {
			displayName = groupID
		}

		if err := ctx.engine.CreateGroup(groupID, displayName); err != nil {
			return err
		}

		ctx.Success("group %s has been created", groupID)
		ctx.SeeOther("/groups")
		return nil
	}

	return groupsTmpl.Execute(w, &groupsData{
		context: ctx,
	})
}
