package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrFileTooLarge is returned when a single image exceeds the per-file limit
var ErrFileTooLarge = errors.New("file too large")

// ErrInvalidMimeType is returned when an uploaded file has a disallowed MIME type
var ErrInvalidMimeType = errors.New("invalid MIME type")

// ErrInvalidImage is returned when a file sniffs as an image but its header cannot be decoded
var ErrInvalidImage = errors.New("invalid image")

// ErrImageTooLarge is returned when an image exceeds the maximum width or height
var ErrImageTooLarge = errors.New("image dimensions too large")

// ErrTooManyAttachments is returned when too many files are uploaded
var ErrTooManyAttachments = errors.New("too many images")

// ErrMalformedForm is returned when the body is not a valid multipart form
var ErrMalformedForm = errors.New("malformed multipart form")
