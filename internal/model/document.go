package model

import "time"

// PlaceholderPageCount is reported for every document until real page
// introspection is wired in.
const PlaceholderPageCount = 1

// Document represents one uploaded file and its derived metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// UploadDateTime is set once at creation and never changes afterwards.
// LastAccessDateTime is nil until the first successful get and only ever
// advances forward in time.
type Document struct {
	ID                 int64      `json:"id"`
	FileName           string     `json:"fileName"`
	UserName           string     `json:"userName"`
	UserID             string     `json:"userId"`
	OriginalFileName   string     `json:"originalFileName"`
	ContentType        string     `json:"contentType"`
	FileSize           int64      `json:"fileSize"`
	PublicURL          string     `json:"publicUrl"`
	PageCount          int        `json:"pageCount"`
	FileExtension      string     `json:"fileExtension"`
	Metadata           *string    `json:"metadata"`
	UploadDateTime     time.Time  `json:"uploadDateTime"`
	LastAccessDateTime *time.Time `json:"lastAccessDateTime"`
}

// Clone returns a deep copy so store internals are never aliased by callers.
func (d *Document) Clone() *Document {
	out := *d
	if d.Metadata != nil {
		m := *d.Metadata
		out.Metadata = &m
	}
	if d.LastAccessDateTime != nil {
		t := *d.LastAccessDateTime
		out.LastAccessDateTime = &t
	}
	return &out
}
