package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notesapi/internal/http/middleware"
	"notesapi/internal/model"
	"notesapi/internal/notefilter"
	"notesapi/internal/service"
	serviceMocks "notesapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// asUser injects a fixed authenticated user id, standing in for RequireAuth.
func asUser(id string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDLocalKey, id)
		return c.Next()
	}
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignup(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/auth/signup", Signup(mockSvc))

	postJSON := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		profile := &model.Profile{ID: uuid.New().String(), FullName: "Asha Rao", Branch: "BCA", Semester: 3}
		mockSvc.On("Signup", mock.Anything, mock.MatchedBy(func(r service.SignupRequest) bool {
			return r.Email == "asha@example.com" && r.Semester == 3
		})).Return(profile, nil).Once()

		resp := postJSON(`{"email":"asha@example.com","password":"secret1","full_name":"Asha Rao","branch":"BCA","semester":3}`)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var got model.Profile
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "Asha Rao", got.FullName)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := postJSON(`{not json`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_BODY", body.Error.Code)
	})

	t.Run("email already registered", func(t *testing.T) {
		mockSvc.On("Signup", mock.Anything, mock.Anything).Return(nil, service.ErrEmailTaken).Once()

		resp := postJSON(`{"email":"asha@example.com","password":"secret1","full_name":"Asha Rao","branch":"BCA","semester":3}`)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "AUTH_ERROR", body.Error.Code)
		assert.Equal(t, service.ErrEmailTaken.Message, body.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation failure surfaces message", func(t *testing.T) {
		mockSvc.On("Signup", mock.Anything, mock.Anything).
			Return(nil, &service.ValidationError{Message: "Unknown branch: XYZ"}).Once()

		resp := postJSON(`{"email":"asha@example.com","password":"secret1","full_name":"Asha Rao","branch":"XYZ","semester":3}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Equal(t, "Unknown branch: XYZ", body.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/auth/login", Login(mockSvc))

	t.Run("success", func(t *testing.T) {
		res := &service.LoginResult{UserID: "uid-1", Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
		mockSvc.On("Login", mock.Anything, "asha@example.com", "secret1").Return(res, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"asha@example.com","password":"secret1"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got service.LoginResult
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "tok", got.Token)
		mockSvc.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "asha@example.com", "wrong").
			Return(nil, service.ErrInvalidCredentials).Once()

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"asha@example.com","password":"wrong"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, service.ErrInvalidCredentials.Message, body.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestMe(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Get("/auth/me", asUser("uid-1"), Me(mockSvc))

	profile := &model.Profile{ID: "uid-1", FullName: "Asha Rao", Branch: "BCA", Semester: 3}
	mockSvc.On("Profile", mock.Anything, "uid-1").Return(profile, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Profile
	json.NewDecoder(resp.Body).Decode(&got)
	assert.Equal(t, "uid-1", got.ID)
	mockSvc.AssertExpectations(t)
}

func TestListNotes(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Get("/notes", ListNotes(mockSvc))

	collection := []model.Note{
		{ID: uuid.New().String(), Title: "DBMS Unit 1", Subject: "Database Systems", Branch: "BCA", Semester: 3},
		{ID: uuid.New().String(), Title: "Micro Notes", Subject: "Microeconomics", Branch: "BCom", Semester: 1},
	}

	t.Run("unfiltered returns everything", func(t *testing.T) {
		mockSvc.On("ListAll", mock.Anything).Return(collection, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got noteListResponse
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, 2, got.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("branch and semester filters narrow the set", func(t *testing.T) {
		mockSvc.On("ListAll", mock.Anything).Return(collection, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/notes?branch=BCA&semester=3", nil)
		resp, _ := app.Test(req)

		var got noteListResponse
		json.NewDecoder(resp.Body).Decode(&got)
		require.Equal(t, 1, got.Total)
		assert.Equal(t, "DBMS Unit 1", got.Items[0].Title)
		mockSvc.AssertExpectations(t)
	})

	t.Run("search matches subject", func(t *testing.T) {
		mockSvc.On("ListAll", mock.Anything).Return(collection, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/notes?search=microecon", nil)
		resp, _ := app.Test(req)

		var got noteListResponse
		json.NewDecoder(resp.Body).Decode(&got)
		require.Equal(t, 1, got.Total)
		assert.Equal(t, "Micro Notes", got.Items[0].Title)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("ListAll", mock.Anything).
			Return(nil, &service.FetchError{Err: errors.New("db down")}).Once()

		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "FETCH_ERROR", body.Error.Code)
		assert.Equal(t, "failed to load notes: db down", body.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestNoteStats(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Get("/notes/stats", asUser("uid-1"), NoteStats(mockSvc))

	mockSvc.On("ListAll", mock.Anything).Return([]model.Note{
		{Branch: "BCA", UploadedBy: "uid-1"},
		{Branch: "BCA", UploadedBy: "uid-2"},
		{Branch: "BCom", UploadedBy: "uid-1"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notes/stats", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got notefilter.Stats
	json.NewDecoder(resp.Body).Decode(&got)
	assert.Equal(t, 3, got.TotalNotes)
	assert.Equal(t, 2, got.DistinctBranch)
	assert.Equal(t, 2, got.UploadedByUser)
	mockSvc.AssertExpectations(t)
}

func TestGetNote(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Get("/notes/:id", GetNote(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).
			Return(&model.Note{ID: id, Title: "DBMS Unit 1"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/notes/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/notes/not-a-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_ID", body.Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).
			Return(nil, &service.FetchError{Err: sql.ErrNoRows}).Once()

		req := httptest.NewRequest(http.MethodGet, "/notes/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func newUploadForm(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
		h["Content-Type"] = []string{contentType}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUploadNote(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Post("/notes", asUser("uid-1"), UploadNote(mockSvc))

	fields := map[string]string{
		"title":       "DBMS Unit 1",
		"subject":     "Database Systems",
		"branch":      "BCA",
		"semester":    "3",
		"unit":        "Unit 1",
		"description": "Normalization notes",
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, "uid-1", mock.Anything,
			mock.MatchedBy(func(r service.UploadRequest) bool {
				return r.Title == "DBMS Unit 1" && r.Semester == 3 &&
					r.Filename == "dbms.pdf" && r.ContentType == "application/pdf"
			})).Return(&model.Note{ID: uuid.New().String(), Title: "DBMS Unit 1"}, nil).Once()

		body, ct := newUploadForm(t, fields, "dbms.pdf", "application/pdf", []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/notes", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		freshSvc := new(serviceMocks.MockNoteService)
		freshApp := fiber.New()
		freshApp.Post("/notes", asUser("uid-1"), UploadNote(freshSvc))

		body, ct := newUploadForm(t, fields, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/notes", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := freshApp.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, service.ErrNoFile.Message, payload.Error.Message)
		freshSvc.AssertNotCalled(t, "Upload")
	})

	t.Run("service rejects non-pdf", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, "uid-1", mock.Anything, mock.Anything).
			Return(nil, service.ErrNotPDF).Once()

		body, ct := newUploadForm(t, fields, "notes.docx",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []byte("zip"))
		req := httptest.NewRequest(http.MethodPost, "/notes", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, service.ErrNotPDF.Message, payload.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("storage failure surfaces cause", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, "uid-1", mock.Anything, mock.Anything).
			Return(nil, &service.BlobError{Err: errors.New("bucket notes-files does not exist")}).Once()

		body, ct := newUploadForm(t, fields, "dbms.pdf", "application/pdf", []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/notes", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "BLOB_ERROR", payload.Error.Code)
		assert.Equal(t, "upload to storage: bucket notes-files does not exist", payload.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("metadata write failure surfaces cause", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, "uid-1", mock.Anything, mock.Anything).
			Return(nil, &service.WriteError{Err: errors.New("insert notes: connection reset")}).Once()

		body, ct := newUploadForm(t, fields, "dbms.pdf", "application/pdf", []byte("%PDF-1.4"))
		req := httptest.NewRequest(http.MethodPost, "/notes", body)
		req.Header.Set(fiber.HeaderContentType, ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "WRITE_ERROR", payload.Error.Code)
		assert.Equal(t, "save failed: insert notes: connection reset", payload.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestNotesPage(t *testing.T) {
	mockSvc := new(serviceMocks.MockNoteService)
	app := fiber.New()
	app.Get("/", NotesPage(mockSvc))

	t.Run("renders cards and stats", func(t *testing.T) {
		mockSvc.On("ListAll", mock.Anything).Return([]model.Note{
			{ID: uuid.New().String(), Title: "DBMS Unit 1", Subject: "Database Systems", Branch: "BCA", Semester: 3},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")

		page, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(page), "DBMS Unit 1")
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty collection shows empty state", func(t *testing.T) {
		mockSvc.On("ListAll", mock.Anything).Return([]model.Note{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		page, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(page), "No notes available")
		mockSvc.AssertExpectations(t)
	})
}
