package runlist

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// ElementID is the id of the root element, used to patch the list in place.
const ElementID = "run-list"

// Hooks connects rendered controls to the owner. With an empty FilterURL the
// markup is static.
type Hooks struct {
	// FilterURL receives filter-changed events as a datastar POST carrying
	// the "filter" and "value" signals.
	FilterURL string
	// DetailsURL prefixes the details link of each run; the guid is appended.
	DetailsURL string
}

// Component renders the current model as HTML.
func (v *View) Component() templ.Component {
	return runList(v.Render(), v.hooks)
}

// HTML renders the current model to a string.
func (v *View) HTML() (string, error) {
	var sb strings.Builder
	if err := v.Component().Render(context.Background(), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// markup writes to w and keeps the first error.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (m *markup) raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func (m *markup) attr(name, value string) {
	m.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (m *markup) flag(name string, on bool) {
	if on {
		m.raw(" " + name)
	}
}

func (m *markup) render(c templ.Component) {
	if m.err == nil {
		m.err = c.Render(m.ctx, m.w)
	}
}

func component(fn func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{ctx: ctx, w: w}
		fn(m)
		return m.err
	})
}

func emitExpr(hooks Hooks, filter, value string) string {
	return fmt.Sprintf("$filter = '%s'; $value = %s; @post('%s')", filter, value, hooks.FilterURL)
}

func runList(model Model, hooks Hooks) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="card run-list"`)
		m.attr("id", ElementID)
		if hooks.FilterURL != "" {
			m.attr("data-signals", `{filter: '', value: ''}`)
		}
		m.raw(`><div class="card-header"><h5 class="card-title">`)
		m.text(model.Title)
		m.raw("</h5></div>")

		if model.Controls.Visible || model.Pager != nil {
			m.raw(`<div class="card-body">`)
			m.render(filterControls(model.Controls, hooks))
			m.render(pagerControls(model.Pager, hooks))
			m.raw("</div>")
		}

		m.raw(`<table class="runs table table-striped"><thead><tr>`)
		for _, h := range model.Headers {
			m.raw("<th")
			m.attr("data-column", h.Key)
			m.raw(">")
			m.text(h.Label)
			m.raw("</th>")
		}
		m.raw("</tr></thead><tbody>")
		for _, row := range model.Rows {
			m.render(runRow(row, model.Columns, hooks))
		}
		m.raw("</tbody>")
		if model.Footer != nil {
			m.render(footer(*model.Footer, len(model.Headers)))
		}
		m.raw("</table></div>")
	})
}

func footer(f Footer, span int) templ.Component {
	return component(func(m *markup) {
		m.raw("<tfoot><tr><td")
		m.attr("colspan", strconv.Itoa(span))
		m.raw(`><button type="button" class="btn btn-primary" data-new-submission`)
		m.flag("disabled", f.Disabled)
		m.raw(">")
		m.text(f.Label)
		m.raw("</button></td></tr></tfoot>")
	})
}

func filterControls(c Controls, hooks Hooks) templ.Component {
	return component(func(m *markup) {
		if !c.Visible {
			return
		}
		m.raw(`<div class="filters form-inline">`)
		for _, f := range c.Filters {
			m.raw(`<label class="filter">`)
			m.text(f.Label)
			if f.FreeText() {
				m.render(textFilter(f, hooks))
			} else {
				m.render(selectFilter(f, hooks))
			}
			m.raw("</label>")
		}
		m.raw("</div>")
	})
}

func textFilter(f FilterControl, hooks Hooks) templ.Component {
	return component(func(m *markup) {
		m.raw(`<input type="text" class="form-control"`)
		m.flag("data-filter-"+string(f.Dimension), true)
		m.attr("name", string(f.Dimension))
		m.attr("value", f.Value)
		if hooks.FilterURL != "" {
			m.attr("data-on:change", emitExpr(hooks, string(f.Dimension), "el.value"))
		}
		m.raw(">")
	})
}

func selectFilter(f FilterControl, hooks Hooks) templ.Component {
	return component(func(m *markup) {
		m.raw(`<select class="form-control"`)
		m.flag("data-select-"+string(f.Dimension), true)
		m.attr("name", string(f.Dimension))
		if hooks.FilterURL != "" {
			m.attr("data-on:change", emitExpr(hooks, string(f.Dimension), "el.value"))
		}
		m.raw(">")
		for _, opt := range f.Options {
			m.raw("<option")
			m.attr("value", opt.Value)
			m.flag("selected", opt.Selected)
			m.raw(">")
			m.text(opt.Label)
			m.raw("</option>")
		}
		m.raw("</select>")
	})
}

func pagerControls(p *PagerModel, hooks Hooks) templ.Component {
	return component(func(m *markup) {
		if p == nil {
			return
		}
		m.raw(`<div class="pager-controls">`)
		m.render(pagerButton("data-button-page-previous", "<", p.PreviousDisabled, p.PreviousOffset, hooks))
		m.raw(`<span class="page-number">`)
		m.text(strconv.Itoa(p.Page))
		m.raw("</span>")
		m.render(pagerButton("data-button-page-next", ">", p.NextDisabled, p.NextOffset, hooks))
		m.raw("</div>")
	})
}

func pagerButton(marker, label string, disabled bool, offset int, hooks Hooks) templ.Component {
	return component(func(m *markup) {
		m.raw(`<button type="button" class="btn btn-secondary"`)
		m.flag(marker, true)
		m.flag("disabled", disabled)
		if hooks.FilterURL != "" && !disabled {
			m.attr("data-on:click", emitExpr(hooks, string(DimensionOffset), "'"+strconv.Itoa(offset)+"'"))
		}
		m.raw(">")
		m.text(label)
		m.raw("</button>")
	})
}

func cell(class, content string) templ.Component {
	return component(func(m *markup) {
		m.raw("<td")
		m.attr("class", class)
		m.raw(">")
		m.text(content)
		m.raw("</td>")
	})
}

func detailsURL(hooks Hooks, guid string) templ.SafeURL {
	if hooks.DetailsURL == "" {
		return templ.URL("#" + guid)
	}
	return templ.URL(hooks.DetailsURL + guid)
}

func runRow(r Row, cols Columns, hooks Hooks) templ.Component {
	return component(func(m *markup) {
		m.raw("<tr")
		m.attr("data-guid", r.GUID)
		if class := templ.Classes(templ.KV("disqualified", r.Disqualified)).String(); class != "" {
			m.attr("class", class)
		}
		m.raw(">")
		m.render(cell("time", r.Time))

		m.raw(`<td class="guid"><acronym`)
		m.attr("title", r.GUID)
		m.attr("data-run-guid", r.GUID)
		m.raw(">")
		m.text(r.GUID)
		m.raw("</acronym></td>")

		if cols.User {
			m.raw(`<td class="user"`)
			if r.Classname != "" {
				m.attr("data-classname", r.Classname)
			}
			if r.Country != "" {
				m.attr("data-country", r.Country)
			}
			m.raw(">")
			m.text(r.Username)
			m.raw("</td>")
		}
		if cols.Contest {
			m.render(cell("contest", r.Contest))
		}
		if cols.Problem {
			m.render(cell("problem", r.Problem))
		}

		m.raw(`<td class="status">`)
		if r.Popover != "" {
			m.raw(`<button type="button" class="btn btn-link" data-toggle="popover" data-trigger="focus"`)
			m.attr("title", r.VerdictLabel)
			m.attr("data-content", r.Popover)
			m.raw(">")
			m.text(r.StatusText)
			m.raw("</button>")
		} else {
			m.text(r.StatusText)
		}
		m.raw("</td>")

		if cols.Points {
			m.render(cell("points", r.Points))
			m.render(cell("penalty", r.Penalty))
			m.render(cell("delay", r.Delay))
		} else {
			m.render(cell("percentage", r.Percentage))
		}
		m.render(cell("language", r.Language))
		m.render(cell("memory", r.Memory))
		m.render(cell("runtime", r.Runtime))

		if cols.Details {
			m.raw(`<td class="details"><a class="btn btn-sm" data-run-details`)
			m.attr("href", string(detailsURL(hooks, r.GUID)))
			m.raw(">🔍</a></td>")
		}
		if cols.Rejudge {
			m.raw(`<td class="rejudge"><button type="button" class="btn btn-sm"`)
			m.attr("data-run-rejudge", r.GUID)
			m.raw(">↻</button></td>")
		}
		if cols.Disqualify {
			m.raw(`<td class="disqualify"><button type="button" class="btn btn-sm"`)
			m.attr("data-run-disqualify", r.GUID)
			m.raw(">✗</button></td>")
		}
		m.raw("</tr>")
	})
}
