package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"notesapi/internal/model"
	"notesapi/internal/repository"
	"notesapi/internal/storage"
)

// MaxUploadSize is the hard ceiling for an uploaded PDF: 10 MB.
const MaxUploadSize = 10 * 1024 * 1024

// PDFContentType is the only MIME type accepted for note files.
const PDFContentType = "application/pdf"

// UploadRequest carries the upload form metadata fields.
type UploadRequest struct {
	Title       string `json:"title" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Branch      string `json:"branch" validate:"required"`
	Semester    int    `json:"semester" validate:"required,min=1,max=8"`
	Unit        string `json:"unit" validate:"required"`
	Description string `json:"description"`

	// Filename is the original upload name, used only to extract the extension.
	Filename    string
	ContentType string
	Size        int64
}

// NoteService defines the use cases for handling notes.
type NoteService interface {
	// ListAll returns the full note collection newest-first, with each note's
	// file resolved to a public URL.
	ListAll(ctx context.Context) ([]model.Note, error)

	// Get returns a single note by ID with its file URL resolved.
	Get(ctx context.Context, id string) (*model.Note, error)

	// Upload validates the file, stores the blob under a generated unique key,
	// then records the note metadata. The blob is deleted again if the
	// metadata insert fails. At most one upload per user is in flight.
	Upload(ctx context.Context, userID string, r io.Reader, req UploadRequest) (*model.Note, error)
}

type noteService struct {
	store    storage.Storage
	notes    repository.NoteRepository
	validate *validator.Validate

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewNoteService constructs a new NoteService.
func NewNoteService(store storage.Storage, notes repository.NoteRepository) NoteService {
	return &noteService{
		store:    store,
		notes:    notes,
		validate: validator.New(),
		inFlight: make(map[string]struct{}),
	}
}

func (s *noteService) ListAll(ctx context.Context) ([]model.Note, error) {
	items, err := s.notes.ListAll(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	for i := range items {
		items[i].FileURL = s.store.PublicURL(items[i].FilePath)
	}
	return items, nil
}

func (s *noteService) Get(ctx context.Context, id string) (*model.Note, error) {
	if id == "" {
		return nil, &ValidationError{Message: "id is required"}
	}
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	note.FileURL = s.store.PublicURL(note.FilePath)
	return note, nil
}

func (s *noteService) Upload(ctx context.Context, userID string, r io.Reader, req UploadRequest) (*model.Note, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	if req.ContentType != PDFContentType {
		return nil, ErrNotPDF
	}
	if req.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if !model.ValidBranch(req.Branch) {
		return nil, &ValidationError{Message: "Unknown branch: " + req.Branch}
	}

	// One upload per user at a time. Prevents a double-submit from racing two
	// blob writes for the same form.
	if !s.acquire(userID) {
		return nil, ErrUploadInFlight
	}
	defer s.release(userID)

	key, err := buildObjectKey(req.Branch, req.Semester, req.Subject, req.Filename, time.Now())
	if err != nil {
		return nil, &BlobError{Err: err}
	}

	_, err = s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        req.Size,
		ContentType: req.ContentType,
		Metadata: map[string]string{
			"original-filename": req.Filename,
		},
	})
	if err != nil {
		return nil, &BlobError{Err: err}
	}

	note := &model.Note{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Subject:     req.Subject,
		Branch:      req.Branch,
		Semester:    req.Semester,
		Unit:        req.Unit,
		Description: req.Description,
		FilePath:    key,
		UploadedBy:  userID,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.notes.Create(ctx, note)
	if err != nil {
		// Compensating delete so the bucket does not accumulate orphans.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, &WriteError{Err: fmt.Errorf("%v; rollback delete failed: %v", err, delErr)}
		}
		return nil, &WriteError{Err: err}
	}
	stored.FileURL = s.store.PublicURL(stored.FilePath)
	return stored, nil
}

func (s *noteService) acquire(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *noteService) release(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// slugify lowercases s and collapses whitespace runs into single hyphens.
func slugify(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}

// buildObjectKey generates a unique storage key of the form
// {branch}/semester-{n}/{subjectSlug}/{unixMillis}_{token}{ext}.
// The millisecond timestamp plus random token makes collisions negligible;
// no uniqueness check is performed against the bucket.
func buildObjectKey(branch string, semester int, subject, filename string, now time.Time) (string, error) {
	token, err := randomToken(3)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}
	name := fmt.Sprintf("%d_%s%s", now.UnixMilli(), token, ext)
	return strings.ToLower(branch) + "/semester-" + fmt.Sprint(semester) + "/" + slugify(subject) + "/" + name, nil
}

func randomToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
