// Package view projects domain entities into render models and renders them
// as HTML. The projection functions are pure so they can be tested without a
// rendering environment; all user-supplied text is escaped at render time by
// html/template's contextual auto-escaping.
package view

import (
	"strconv"

	"notesapi/internal/model"
	"notesapi/internal/notefilter"
)

// branchColors keys a badge color to each known branch. Unrecognized branches
// fall back to defaultBranchColor.
var branchColors = map[string]string{
	"BCA":  "#4f46e5",
	"BCom": "#059669",
	"BBA":  "#d97706",
	"BSc":  "#0284c7",
	"BA":   "#be185d",
}

const defaultBranchColor = "#64748b"

const noDescription = "No description provided"
const unknownUploader = "Unknown"

// CardModel is the render model for one note card. Plain strings only; the
// template layer escapes them on insertion.
type CardModel struct {
	Title          string
	SemesterBadge  string
	Branch         string
	BranchColor    string
	Subject        string
	Unit           string
	Description    string
	UploaderName   string
	UploaderBranch string
	UploadedDate   string
	FileURL        string
}

// BuildCard projects a Note into its card render model.
func BuildCard(n model.Note) CardModel {
	c := CardModel{
		Title:         n.Title,
		SemesterBadge: "Sem " + strconv.Itoa(n.Semester),
		Branch:        n.Branch,
		BranchColor:   defaultBranchColor,
		Subject:       n.Subject,
		Unit:          n.Unit,
		Description:   n.Description,
		UploaderName:  unknownUploader,
		UploadedDate:  n.CreatedAt.Format("Jan 2, 2006"),
		FileURL:       n.FileURL,
	}
	if color, ok := branchColors[n.Branch]; ok {
		c.BranchColor = color
	}
	if c.Description == "" {
		c.Description = noDescription
	}
	if n.Uploader != nil {
		c.UploaderName = n.Uploader.FullName
		c.UploaderBranch = n.Uploader.Branch
	}
	return c
}

// BuildCards projects a collection, preserving order.
func BuildCards(notes []model.Note) []CardModel {
	cards := make([]CardModel, 0, len(notes))
	for _, n := range notes {
		cards = append(cards, BuildCard(n))
	}
	return cards
}

// Chip is one active-filter indicator token.
type Chip struct {
	Kind  string
	Label string
}

// Chips yields one chip per active filter criterion: the search term, each
// selected branch, each selected semester. An empty result means the chip
// container should not be shown at all.
func Chips(s notefilter.State) []Chip {
	chips := make([]Chip, 0)
	if search := s.Search; search != "" {
		chips = append(chips, Chip{Kind: "search", Label: search})
	}
	for _, b := range s.Branches {
		chips = append(chips, Chip{Kind: "branch", Label: b})
	}
	for _, sem := range s.Semesters {
		chips = append(chips, Chip{Kind: "semester", Label: "Sem " + strconv.Itoa(sem)})
	}
	return chips
}
