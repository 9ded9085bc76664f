package view

import (
	"html/template"
	"io"

	"notesapi/internal/notefilter"
)

// PageData is everything the notes page template needs. ShowChips gates the
// whole chip container: it stays hidden when no filter is active.
type PageData struct {
	Cards     []CardModel
	Chips     []Chip
	ShowChips bool
	Stats     notefilter.Stats
}

// NewPageData assembles the page render model from the filtered collection,
// the active filter state, and the full-collection stats.
func NewPageData(cards []CardModel, state notefilter.State, stats notefilter.Stats) PageData {
	chips := Chips(state)
	return PageData{
		Cards:     cards,
		Chips:     chips,
		ShowChips: len(chips) > 0,
		Stats:     stats,
	}
}

var pageTmpl = template.Must(template.New("notes").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Study Notes</title>
</head>
<body>
  <header class="stats">
    <span class="stat">{{.Stats.TotalNotes}} note(s)</span>
    <span class="stat">{{.Stats.DistinctBranch}} branch(es)</span>
    <span class="stat">{{.Stats.UploadedByUser}} uploaded by you</span>
  </header>
{{if .ShowChips}}
  <div class="active-filters">
{{range .Chips}}    <span class="chip chip-{{.Kind}}">{{.Label}}</span>
{{end}}  </div>
{{end}}
  <main class="notes-grid">
{{range .Cards}}    <div class="note-card">
      <div class="card-header">
        <h3>{{.Title}}</h3>
        <span class="semester-badge">{{.SemesterBadge}}</span>
{{if .Branch}}        <span class="branch-badge" style="background-color: {{.BranchColor}}">{{.Branch}}</span>
{{end}}      </div>
      <div class="card-body">
        <p class="card-info"><strong>Subject:</strong> {{.Subject}}</p>
        <p class="card-info"><strong>Unit:</strong> {{.Unit}}</p>
        <p class="card-description">{{.Description}}</p>
      </div>
      <div class="card-footer">
        <span class="uploader">{{.UploaderName}}{{if .UploaderBranch}} ({{.UploaderBranch}}){{end}}</span>
        <span class="date">{{.UploadedDate}}</span>
        <a href="{{.FileURL}}" target="_blank" rel="noopener" class="btn-download">View / Download PDF</a>
      </div>
    </div>
{{end}}  </main>
{{if not .Cards}}
  <p class="empty-state">No notes available</p>
{{end}}
</body>
</html>
`))

// RenderPage writes the notes page HTML. Every text field flows through the
// template and is escaped for its context.
func RenderPage(w io.Writer, data PageData) error {
	return pageTmpl.Execute(w, data)
}
