package handlers

import (
	"embed"
	"encoding/json"
	"html/template"
	"slices"
	"time"

	"github.com/biomax/dashboard/internal/presentation"
	"github.com/biomax/dashboard/internal/service/reporting"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded pages for gin's HTML renderer.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"contains": func(list []string, v string) bool { return slices.Contains(list, v) },
	}
	return template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

type loginPage struct {
	Username string
	Error    string
}

type dashboardPage struct {
	Title       string
	User        string
	Path        string
	ExportBase  string
	Query       string
	Dashboard   reporting.Dashboard
	Charts      template.JS
	Aligns      []string
	SummarySpan int
	FetchedAt   string
}

func newDashboardPage(title, user, path, exportBase, rawQuery string, d reporting.Dashboard, loc *time.Location) (dashboardPage, error) {
	// encoding/json escapes <, > and &, so the payload is safe inside <script>
	specs := d.Charts
	if specs == nil {
		specs = []presentation.ChartSpec{}
	}
	charts, err := json.Marshal(specs)
	if err != nil {
		return dashboardPage{}, err
	}

	aligns := make([]string, 0, len(d.Table.Columns))
	for _, c := range d.Table.Columns {
		aligns = append(aligns, c.Align)
	}

	page := dashboardPage{
		Title:       title,
		User:        user,
		Path:        path,
		ExportBase:  exportBase,
		Dashboard:   d,
		Charts:      template.JS(charts),
		Aligns:      aligns,
		SummarySpan: max(1, len(d.Table.Columns)-1),
	}
	if rawQuery != "" {
		page.Query = "?" + rawQuery
	}
	if !d.FetchedAt.IsZero() {
		page.FetchedAt = d.FetchedAt.In(loc).Format("02/01/2006 15:04")
	}
	return page, nil
}
