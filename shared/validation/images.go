package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/codingbrain01/MyBlog/shared/domain"
	_ "golang.org/x/image/webp"
)

// ImageLimits bounds what a single request may upload.
type ImageLimits struct {
	AllowedMimeTypes []string
	MaxFileSize      int64
	MaxCount         int
	MaxDimension     int // max width and height in pixels, 0 means unlimited
}

// ValidateImages opens every uploaded file, sniffs its type from content and
// checks it against limits. On success the caller owns the returned files and
// must close them with CloseAll.
func ValidateImages(fileHeaders []*multipart.FileHeader, limits ImageLimits) ([]*domain.PendingFile, error) {
	if len(fileHeaders) == 0 {
		return []*domain.PendingFile{}, nil
	}
	if limits.MaxCount > 0 && len(fileHeaders) > limits.MaxCount {
		return nil, fmt.Errorf("%w: %d, max %d allowed", ErrTooManyAttachments, len(fileHeaders), limits.MaxCount)
	}

	allowed := make(map[string]bool, len(limits.AllowedMimeTypes))
	for _, m := range limits.AllowedMimeTypes {
		allowed[m] = true
	}

	pending := make([]*domain.PendingFile, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		if limits.MaxFileSize > 0 && fileHeader.Size > limits.MaxFileSize {
			CloseAll(pending)
			return nil, fmt.Errorf("%w: %s is %.1f MB, max %.1f MB", ErrFileTooLarge, fileHeader.Filename, FormatSizeMB(fileHeader.Size), FormatSizeMB(limits.MaxFileSize))
		}

		file, err := fileHeader.Open()
		if err != nil {
			CloseAll(pending)
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		mimeType, err := DetectMimeType(file)
		if err != nil {
			file.Close()
			CloseAll(pending)
			return nil, err
		}
		if !allowed[mimeType] {
			file.Close()
			CloseAll(pending)
			return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
		}

		width, height, err := ExtractImageDimensions(file)
		if err != nil {
			file.Close()
			CloseAll(pending)
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImage, fileHeader.Filename, err)
		}
		if limits.MaxDimension > 0 && (width > limits.MaxDimension || height > limits.MaxDimension) {
			file.Close()
			CloseAll(pending)
			return nil, fmt.Errorf("%w: %s is %dx%d, max %dx%d", ErrImageTooLarge, fileHeader.Filename, width, height, limits.MaxDimension, limits.MaxDimension)
		}

		pending = append(pending, &domain.PendingFile{
			Filename:  fileHeader.Filename,
			SizeBytes: fileHeader.Size,
			MimeType:  mimeType,
			Data:      file,
		})
	}

	return pending, nil
}

// DetectMimeType sniffs the content type from the first 512 bytes and rewinds the file.
// The client supplied Content-Type is ignored.
func DetectMimeType(file io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	mimeType, _, _ := strings.Cut(http.DetectContentType(head[:n]), ";")
	return strings.TrimSpace(mimeType), nil
}

// ExtractImageDimensions decodes the image header and rewinds the file.
func ExtractImageDimensions(file io.ReadSeeker) (int, int, error) {
	cfg, _, err := image.DecodeConfig(file)
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return 0, 0, fmt.Errorf("failed to rewind uploaded file: %w", seekErr)
	}
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// CloseAll closes the data of every pending file that can be closed.
func CloseAll(files []*domain.PendingFile) {
	for _, f := range files {
		if c, ok := f.Data.(io.Closer); ok {
			c.Close()
		}
	}
}
