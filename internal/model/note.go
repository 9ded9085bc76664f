package model

import "time"

// Note represents one uploaded PDF study document plus its metadata record.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	Branch      string    `json:"branch"`
	Semester    int       `json:"semester"`
	Unit        string    `json:"unit"`
	Description string    `json:"description"`
	FilePath    string    `json:"file_path"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`

	// Uploader carries the denormalized profile join (full_name, branch).
	// Nil when the uploader's profile row is missing.
	Uploader *UploaderProfile `json:"profiles,omitempty"`

	// FileURL is the resolved public URL of the stored PDF. Populated by the
	// service layer, never persisted.
	FileURL string `json:"file_url,omitempty"`
}

// UploaderProfile is the subset of Profile joined onto a Note listing.
type UploaderProfile struct {
	FullName string `json:"full_name"`
	Branch   string `json:"branch"`
}
