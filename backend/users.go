package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/openwebflow/assign/core"
)

var usersTmpl = tmpl(`<h1>Users</h1>

	<table>
		<tr>
			<th>User id</th>
			<th>Name</th>
			<th>Email</th>
			<th>Phone</th>
		</tr>
		{{ range .Users }}
			<tr>
				<td>{{ .UserID }}</td>
				<td>{{ .DisplayName }}</td>
				<td>{{ .Email }}</td>
				<td>{{ .Phone }}</td>
			</tr>
		{{ end }}
	</table>

	<h2>Add user details</h2>

	<form method="post">
		<input name="user_id" placeholder="User id">
		<input name="display_name" placeholder="Name">
		<input type="email" name="email" placeholder="Email address">
		<input name="phone" placeholder="Phone">
		<button type="submit" name="submit_add">Save</button>
	</form>`)

type usersData struct {
	*context
}

func (data *usersData) Users() ([]core.UserDetails, error) {
	return data.engine.GetAllUserDetails(100000, 0) // assuming there are not more than 100k users
}

// users manages the display attributes of workflow users. The resolver never
// reads these, so the page is purely informational.
func users(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		userID := strings.TrimSpace(req.PostFormValue("user_id"))

		if userID == "" {
			return errors.New("missing user id")
		}

		err := ctx.engine.PutUserDetails(core.UserDetails{
			UserID:      userID,
			DisplayName: strings.TrimSpace(req.PostFormValue("display_name")),
			Email:       strings.TrimSpace(req.PostFormValue("email")),
			Phone:       strings.TrimSpace(req.PostFormValue("phone")),
		})
		if err != nil {
			return err
		}

		ctx.Success("details of user %s have been saved", userID)
		ctx.SeeOther("/users")
		return nil
	}

	return usersTmpl.Execute(w, &usersData{
		context: ctx,
	})
}
