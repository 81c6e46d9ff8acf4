package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidateAndParseMultipart caps the request body at maxSize and parses the
// multipart form. Exceeding the cap makes the server stop reading and close
// the connection, which clients see as a reset.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
		}
		return fmt.Errorf("%w: %v", ErrMalformedForm, err)
	}

	return nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer
// for form fields and multipart boundaries.
func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
