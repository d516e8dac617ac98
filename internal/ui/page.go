package ui

import (
	"fmt"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"adsweep/internal/domain"
	"adsweep/internal/report"
)

// pageState carries the form values and query result into the template.
type pageState struct {
	Days    string
	OU      string
	Mode    string
	Notice  string
	Queried bool
	Rows    []domain.InactiveUserSummary
}

func indexPage(s pageState) gomponents.Node {
	return html.Doctype(
		html.HTML(html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.TitleEl(gomponents.Text("adsweep — inactive accounts")),
				html.StyleEl(gomponents.Raw(pageStyle)),
			),
			html.Body(
				html.H1(gomponents.Text("Inactive accounts")),
				queryForm(s),
				noticeBlock(s),
				resultBlock(s),
			),
		),
	)
}

func queryForm(s pageState) gomponents.Node {
	return html.Form(html.Method("get"), html.Action("/"),
		html.Label(html.For("days"), gomponents.Text("Days inactive")),
		html.Input(html.Type("number"), html.ID("days"), html.Name("days"),
			html.Value(s.Days), html.Min("1"), html.Max("3650"), html.Required()),
		html.Label(html.For("ou"), gomponents.Text("Organizational unit (optional)")),
		html.Input(html.Type("text"), html.ID("ou"), html.Name("ou"), html.Value(s.OU),
			html.Placeholder("OU=Staff,DC=corp,DC=example,DC=com")),
		html.Label(html.For("mode"), gomponents.Text("Mode")),
		html.Select(html.ID("mode"), html.Name("mode"),
			modeOption("standard", "Last logon before cutoff", s.Mode),
			modeOption("never-logged-in", "Never logged in", s.Mode),
		),
		html.Button(html.Type("submit"), gomponents.Text("Run query")),
	)
}

func modeOption(value, label, selected string) gomponents.Node {
	children := []gomponents.Node{html.Value(value), gomponents.Text(label)}
	if value == selected {
		children = append(children, html.Selected())
	}
	return html.Option(children...)
}

func noticeBlock(s pageState) gomponents.Node {
	if s.Notice == "" {
		return nil
	}
	return html.P(html.Class("notice"), gomponents.Text(s.Notice))
}

func resultBlock(s pageState) gomponents.Node {
	if !s.Queried {
		return nil
	}
	if len(s.Rows) == 0 {
		return html.P(html.Class("empty"), gomponents.Text("No inactive accounts matched."))
	}
	return html.Div(
		html.P(gomponents.Text(fmt.Sprintf("%d account(s) matched.", len(s.Rows)))),
		report.Table(s.Rows),
	)
}

const pageStyle = `
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a1a2e; }
form { display: grid; grid-template-columns: max-content 24rem; gap: 0.5rem 1rem; align-items: center; max-width: 36rem; }
button { grid-column: 2; justify-self: start; padding: 0.4rem 1.2rem; }
.notice { color: #a33; }
.empty { color: #555; }
table { border-collapse: collapse; min-width: 40rem; margin-top: 1rem; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #ddd; }
th { background: #f4f4f8; }
`
