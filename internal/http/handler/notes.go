package handler

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"notesapi/internal/http/middleware"
	"notesapi/internal/model"
	"notesapi/internal/notefilter"
	"notesapi/internal/service"
	"notesapi/internal/view"
)

// noteListResponse wraps the filtered collection for the JSON listing.
type noteListResponse struct {
	Items []model.Note `json:"items"`
	Total int          `json:"total"`
}

// filterStateFromQuery reads search/branch/semester query parameters into a
// filter selection. branch and semester accept comma-separated lists;
// unparseable semester values are dropped rather than rejected.
func filterStateFromQuery(c *fiber.Ctx) notefilter.State {
	state := notefilter.State{Search: c.Query("search")}

	if raw := c.Query("branch"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				state.Branches = append(state.Branches, b)
			}
		}
	}
	if raw := c.Query("semester"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				state.Semesters = append(state.Semesters, n)
			}
		}
	}
	return state
}

// ListNotes returns the note collection newest-first, narrowed by any active
// search/branch/semester filters.
//
// @Summary List notes
// @Tags Notes
// @Produce json
// @Param search query string false "match against title or subject"
// @Param branch query string false "comma-separated branch codes"
// @Param semester query string false "comma-separated semester numbers"
// @Success 200 {object} noteListResponse
// @Failure 500 {object} errorPayload
// @Router /notes [get]
func ListNotes(noteSvc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := noteSvc.ListAll(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}

		filtered := notefilter.Apply(notes, filterStateFromQuery(c))
		return c.JSON(noteListResponse{Items: filtered, Total: len(filtered)})
	}
}

// NoteStats returns the aggregate counters shown above the notes grid. The
// personal upload count is zero for anonymous callers.
//
// @Summary Collection statistics
// @Tags Notes
// @Produce json
// @Success 200 {object} notefilter.Stats
// @Router /notes/stats [get]
func NoteStats(noteSvc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := noteSvc.ListAll(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(notefilter.ComputeStats(notes, middleware.UserIDFromCtx(c)))
	}
}

// GetNote returns a single note by id.
//
// @Summary Get a note
// @Tags Notes
// @Produce json
// @Param id path string true "note id"
// @Success 200 {object} model.Note
// @Failure 404 {object} errorPayload
// @Router /notes/{id} [get]
func GetNote(noteSvc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		note, err := noteSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(note)
	}
}

// UploadNote accepts a PDF with its metadata (multipart/form-data, file field
// name: file) and publishes it under the authenticated user.
//
// @Summary Upload a note
// @Tags Notes
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file, at most 10MB"
// @Param title formData string true "note title"
// @Param subject formData string true "subject name"
// @Param branch formData string true "branch code"
// @Param semester formData int true "semester 1-8"
// @Param unit formData string true "unit or chapter"
// @Param description formData string false "optional description"
// @Success 201 {object} model.Note
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /notes [post]
func UploadNote(noteSvc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", service.ErrNoFile.Message)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		semester, _ := strconv.Atoi(c.FormValue("semester"))
		req := service.UploadRequest{
			Title:       c.FormValue("title"),
			Subject:     c.FormValue("subject"),
			Branch:      c.FormValue("branch"),
			Semester:    semester,
			Unit:        c.FormValue("unit"),
			Description: c.FormValue("description"),
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		}

		note, err := noteSvc.Upload(c.UserContext(), middleware.UserIDFromCtx(c), f, req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(note)
	}
}

// NotesPage renders the browse page as server-side HTML: stats header, active
// filter chips, and the card grid for the filtered collection.
func NotesPage(noteSvc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := noteSvc.ListAll(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}

		state := filterStateFromQuery(c)
		filtered := notefilter.Apply(notes, state)
		stats := notefilter.ComputeStats(notes, middleware.UserIDFromCtx(c))

		var buf bytes.Buffer
		if err := view.RenderPage(&buf, view.NewPageData(view.BuildCards(filtered), state, stats)); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "RENDER_ERROR", "failed to render page")
		}
		return c.Type("html").Send(buf.Bytes())
	}
}
