// Package backend is the administrative web interface: groups and
// memberships, assignment rules, delegations, the delegation policy toggle
// and a task browser for checking who sees what.
package backend

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/openwebflow/assign/core"
	"github.com/openwebflow/assign/host"
)

var ErrAuth = errors.New("unauthorized")

// we need the Engine and the task host in the backend
type context struct {
	*core.Request
	Prefix string // with trailing slash
	engine *core.Engine
	host   *host.Host
}

func (ctx *context) GroupsWriteable() bool {
	return ctx.engine.MembershipDB.Writeable()
}

func (ctx *context) RulesWriteable() bool {
	return ctx.engine.RuleDB.Writeable()
}

func (ctx *context) DelegationsWriteable() bool {
	return ctx.engine.DelegationDB.Writeable()
}

func (ctx *context) HideDelegated() bool {
	return ctx.engine.Policy.HideDelegated()
}

func middleware(engine *core.Engine, h *host.Host, prefix string, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *context, httprouter.Params) error) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var ctx = &context{
			Prefix:  prefix + "/backend/",
			Request: engine.NewRequest(w, req),
			engine:  engine,
			host:    h,
		}
		defer ctx.Cleanup()

		if requireLoggedIn && !ctx.LoggedIn() {
			ctx.SeeOther("/login")
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			// probably no template has been executed, so execute error template
			errorTmpl.Execute(w, struct {
				*context
				Err error
			}{
				context: ctx,
				Err:     err,
			})
		}
	}
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

func NewBackendRouter(engine *core.Engine, h *host.Host, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(engine, h, prefix, false, root))
	GETAndPOST("/login", middleware(engine, h, prefix, false, login))

	// private
	GETAndPOST("/delegations", middleware(engine, h, prefix, true, delegations))
	GETAndPOST("/groups", middleware(engine, h, prefix, true, groups))
	GETAndPOST("/group/:id", middleware(engine, h, prefix, true, group))
	router.GET("/help", middleware(engine, h, prefix, true, help))
	router.GET("/logout", middleware(engine, h, prefix, true, logout))
	GETAndPOST("/operators", middleware(engine, h, prefix, true, operators))
	GETAndPOST("/operator/:id", middleware(engine, h, prefix, true, operator))
	GETAndPOST("/policy", middleware(engine, h, prefix, true, policy))
	GETAndPOST("/rules", middleware(engine, h, prefix, true, rules))
	GETAndPOST("/tasks", middleware(engine, h, prefix, true, tasks))
	GETAndPOST("/users", middleware(engine, h, prefix, true, users))

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(backendTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var backendTmpl = template.Must(template.New("backend").Parse(`
<!DOCTYPE html>
<html>
	<head>
		<base href="{{.Prefix}}">
		<meta charset="utf-8">
		<title>Assignment Backend</title>

		<style>

			body {
				font-family: sans-serif;
				padding-bottom: 1rem;
			}

			h1 {
				font-size: 1.5rem;
				margin: 1rem 0 0.7rem;
			}

			h2 {
				font-size: 1.3rem;
				margin: 0.2rem 0 0.5rem;
			}

			nav ul {
				list-style: none;
				padding: 0.5rem;
				background-color: #f4f5f6;
			}

			nav li {
				display: inline-block;
				margin-right: 1rem;
			}

			table {
				border-collapse: collapse;
				margin-top: 0.5rem;
			}

			td, th {
				border-bottom: 1px solid #dee2e6;
				padding: .3rem .6rem;
				text-align: left;
			}

			.alert {
				border: 1px solid transparent;
				border-radius: .2rem;
				margin: .5rem 0;
				padding: .5rem;
			}

			.alert-danger {
				background-color: #f8d7da;
			}

			.alert-success {
				background-color: #d4edda;
			}

		</style>
	</head>
	<body>

		{{ if .LoggedIn }}

			<nav>
				<ul>
					<li><a href="tasks">Tasks</a></li>

					{{ if .GroupsWriteable }}
						<li><a href="groups">Groups</a></li>
						<li><a href="users">Users</a></li>
					{{ end }}

					{{ if .RulesWriteable }}
						<li><a href="rules">Rules</a></li>
					{{ end }}

					{{ if .DelegationsWriteable }}
						<li><a href="delegations">Delegations</a></li>
					{{ end }}

					<li><a href="policy">Policy</a></li>
					<li><a href="operators">Operators</a></li>
					<li><a href="help">Help</a></li>
					<li><a href="logout">Logout</a></li>
				</ul>
			</nav>

		{{ end }}

		<div class="container">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>
	</body>
</html>`)).Funcs(
	template.FuncMap{
		"GroupLink": func(group core.DBGroup) template.HTML {
			return template.HTML(fmt.Sprintf(`<a href="group/%s">%s</a>`, group.ID(), group.DisplayName()))
		},
		"JoinSet": joinSet,
		"OperatorLink": func(o core.DBOperator) template.HTML {
			return template.HTML(fmt.Sprintf(`<a href="operator/%d">%s</a>`, o.ID(), o.Name()))
		},
	},
)
