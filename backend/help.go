package backend

import (
	"html/template"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"gitlab.com/golang-commonmark/markdown"
)

var commonMarkParser = markdown.New(markdown.HTML(true), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

const helpMarkdown = `# Help

Who may claim a task is resolved **once**, when the task is started or
reassigned, from three inputs:

1. **Rules** replace the step's default candidates. A rule for a specific task
   instance beats the rule for the step. Rules only ever grow.
2. **Excluded users** are removed from the candidate users. Exclusion only
   works on directly named users: someone who is a candidate through a group
   keeps the task in sight.
3. **Delegations** forward candidacy one level: the delegate of a candidate
   becomes a candidate too, but the delegate's own delegates do not.

Candidate *groups* are never expanded into users at resolution time. They are
expanded when a user's task list is computed, so joining a group makes old
tasks visible while rules never rewrite old tasks.

With the *hide delegated* policy set, a candidate whose delegate is also a
candidate is dropped from the task.

Users and groups live in separate namespaces; an id never means both.`

var helpTmpl = tmpl(`{{ .Rendered }}`)

type helpData struct {
	*context
	Rendered template.HTML
}

func help(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	return helpTmpl.Execute(w, &helpData{
		context:  ctx,
		Rendered: template.HTML(commonMarkParser.RenderToString([]byte(helpMarkdown))),
	})
}
