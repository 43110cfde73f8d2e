package controller

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const pageElementID = "run-list-page"

type pageData struct {
	Title      string
	Lang       string
	ScriptURL  string
	Session    string
	UpdatesURL string
}

// runListPage wraps the run list in a document that keeps a live update
// stream open for the session.
func runListPage(data pageData, list templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html><html"+attr("lang", data.Lang)+`><head><meta charset="utf-8"><title>`+
			templ.EscapeString(data.Title)+"</title>"); err != nil {
			return err
		}
		if data.ScriptURL != "" {
			if _, err := io.WriteString(w, `<script type="module"`+attr("src", string(templ.URL(data.ScriptURL)))+"></script>"); err != nil {
				return err
			}
		}
		main := "</head><body><main" +
			attr("id", pageElementID) +
			attr("data-signals", "{session: '"+data.Session+"'}") +
			attr("data-init", "@get('"+data.UpdatesURL+"')") + ">"
		if _, err := io.WriteString(w, main); err != nil {
			return err
		}
		if err := list.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

func attr(name, value string) string {
	return " " + name + `="` + templ.EscapeString(value) + `"`
}
