package domain

import "io"

// PendingFile is an uploaded image that has not been written to the object store yet.
type PendingFile struct {
	Filename  string
	SizeBytes int64
	MimeType  string
	Data      io.Reader
}
