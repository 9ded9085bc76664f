package service

// Error taxonomy for the notes flows. Every external call failure is wrapped
// into one of these so handlers can translate it into the uniform response
// envelope without inspecting call sites.

// AuthError covers credential and account failures. The message is safe to
// surface to the user verbatim.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ValidationError covers client-side rejections (missing file, wrong type,
// oversized file, bad metadata). Each distinct failure carries its own message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// FetchError wraps a note listing failure, carrying the underlying message.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "failed to load notes: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// BlobError wraps an object storage upload failure.
type BlobError struct {
	Err error
}

func (e *BlobError) Error() string { return "upload to storage: " + e.Err.Error() }
func (e *BlobError) Unwrap() error { return e.Err }

// WriteError wraps a profile or note metadata insert failure.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "save failed: " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

// Sentinel validation failures. Pointer identity makes them usable with
// errors.Is while still carrying their distinct user-facing messages.
var (
	ErrNoFile         = &ValidationError{Message: "Please select a PDF file"}
	ErrNotPDF         = &ValidationError{Message: "Only PDF files are allowed"}
	ErrFileTooLarge   = &ValidationError{Message: "File size must be less than 10MB"}
	ErrUploadInFlight = &ValidationError{Message: "An upload is already in progress, please wait"}
)

var (
	ErrInvalidCredentials = &AuthError{Message: "Invalid email or password"}
	ErrEmailTaken         = &AuthError{Message: "An account with this email already exists"}
)
