package report

import (
	"io"
	"time"

	"maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"adsweep/internal/domain"
)

// WriteHTML writes the result set as a standalone HTML report page.
func WriteHTML(w io.Writer, criteria domain.InactivityCriteria, rows []domain.InactiveUserSummary, generatedAt time.Time) error {
	return Page(criteria, rows, generatedAt).Render(w)
}

// Page builds the report document. Exported so the server UI can embed the
// same table it writes to disk.
func Page(criteria domain.InactivityCriteria, rows []domain.InactiveUserSummary, generatedAt time.Time) gomponents.Node {
	scope := criteria.SearchOU
	if !criteria.Scoped() {
		scope = "entire directory"
	}
	return html.Doctype(
		html.HTML(html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.TitleEl(gomponents.Text("Inactive account report")),
				html.StyleEl(gomponents.Raw(reportStyle)),
			),
			html.Body(
				html.H1(gomponents.Text("Inactive account report")),
				html.P(html.Class("meta"),
					gomponents.Textf("Inactive for %d+ days (%s) in %s. Generated %s. %d account(s).",
						criteria.DaysInactive, criteria.Mode, scope,
						generatedAt.UTC().Format(domain.DisplayTimeLayout), len(rows)),
				),
				Table(rows),
			),
		),
	)
}

// Table renders the result rows as the shared report table.
func Table(rows []domain.InactiveUserSummary) gomponents.Node {
	body := make([]gomponents.Node, 0, len(rows))
	for _, r := range rows {
		body = append(body, html.Tr(
			html.Td(gomponents.Text(r.DisplayName)),
			html.Td(gomponents.Text(r.AccountID)),
			html.Td(gomponents.Text(r.CreatedDisplay)),
			html.Td(gomponents.Text(r.LastLogonDisplay)),
		))
	}
	return html.Table(
		html.THead(html.Tr(
			html.Th(gomponents.Text("Display Name")),
			html.Th(gomponents.Text("Account")),
			html.Th(gomponents.Text("Created")),
			html.Th(gomponents.Text("Last Logon")),
		)),
		html.TBody(gomponents.Group(body)),
	)
}

const reportStyle = `
body { font-family: system-ui, sans-serif; margin: 2rem; color: #1a1a2e; }
.meta { color: #555; }
table { border-collapse: collapse; min-width: 40rem; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #ddd; }
th { background: #f4f4f8; }
`
