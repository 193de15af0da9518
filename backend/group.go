package backend

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/openwebflow/assign/core"
)

var groupTmpl = tmpl(`<h1>Group &raquo;{{ .Selected.DisplayName }}&laquo;</h1>

	<h2>Members</h2>

	<ul>
		{{ range .Members }}
			<li>{{ . }}</li>
		{{ else }}
			No members.
		{{ end }}
	</ul>

	<h2>Add member</h2>

	<form method="post">
		<input name="user_id" placeholder="User id">
		<button type="submit" name="submit_add">Add user to group</button>
	</form>`)

type groupData struct {
	*context
	Selected core.DBGroup
}

func (data *groupData) Members() ([]string, error) {

	memberIDs, err := data.Selected.Members()
	if err != nil {
		return nil, err
	}

	var members = []string{}
	for memberID := range memberIDs { // map: user id -> interface{}
		members = append(members, memberID)
	}
	sort.Strings(members)

	return members, nil
}

func group(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selected, err := ctx.engine.GetGroup(params.ByName("id"))
	if err != nil {
		return err
	}

	if req.Method == http.MethodPost {

		if !ctx.GroupsWriteable() {
			return ErrAuth
		}

		if userID := strings.TrimSpace(req.PostFormValue("user_id")); userID != "" {

			if err = ctx.engine.CreateMembership(userID, selected.ID()); err != nil {
				return err
			}

			ctx.Success("user %s has been added to group %s", userID, selected.DisplayName())
			ctx.SeeOther("/group/%s", selected.ID())
			return nil
		}

		return errors.New("missing user id")
	}

	return groupTmpl.Execute(w, &groupData{
		context:  ctx,
		Selected: selected,
	})
}
