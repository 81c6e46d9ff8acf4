package handler

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/codingbrain01/MyBlog/shared/domain"
	sharederrors "github.com/codingbrain01/MyBlog/shared/errors"
	"github.com/codingbrain01/MyBlog/shared/middleware"
	"github.com/codingbrain01/MyBlog/shared/utils"
	"github.com/codingbrain01/MyBlog/shared/validation"
	"github.com/go-chi/chi/v5"
)

// multipart form overhead on top of the image bytes
const formOverheadBytes = 1 << 20

// parseRequest reads the request payload. Multipart requests carry the JSON
// payload in the "json" field and images in "images"; any other content type
// is decoded as a plain JSON body without images.
// The returned cleanup closes the uploaded files and must always be called.
func parseRequest[T any](w http.ResponseWriter, r *http.Request, h *Handler) (body T, files []*domain.PendingFile, cleanup func(), err error) {
	cleanup = func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		err = utils.DecodeValidate(r.Body, &body)
		return
	}

	media := h.cfg.Public.Media
	maxRequestSize := validation.CalculateMaxRequestSize(media.MaxTotalUploadBytes, formOverheadBytes)
	if err = validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
		if errors.Is(err, validation.ErrPayloadTooLarge) {
			err = fmt.Errorf("%w: total upload size exceeds the limit of %.0f MB", validation.ErrPayloadTooLarge, validation.FormatSizeMB(media.MaxTotalUploadBytes))
		}
		err = uploadError(err)
		return
	}

	jsonPayload := r.FormValue("json")
	if jsonPayload == "" {
		r.MultipartForm.RemoveAll()
		err = &sharederrors.ErrorWithStatusCode{Message: "missing JSON payload in multipart form", StatusCode: http.StatusBadRequest}
		return
	}
	if err = utils.DecodeValidate(strings.NewReader(jsonPayload), &body); err != nil {
		r.MultipartForm.RemoveAll()
		return
	}

	files, err = validation.ValidateImages(r.MultipartForm.File["images"], validation.ImageLimits{
		AllowedMimeTypes: media.AllowedImageMimeTypes,
		MaxFileSize:      media.MaxImageSizeBytes,
		MaxCount:         media.MaxImagesPerEntity,
		MaxDimension:     media.MaxImageDimension,
	})
	if err != nil {
		r.MultipartForm.RemoveAll()
		err = uploadError(err)
		return
	}

	form := r.MultipartForm
	cleanup = func() {
		validation.CloseAll(files)
		form.RemoveAll()
	}
	return
}

// uploadError attaches an HTTP status to the errors of the validation package.
func uploadError(err error) error {
	switch {
	case errors.Is(err, validation.ErrPayloadTooLarge):
		return &sharederrors.ErrorWithStatusCode{Message: err.Error(), StatusCode: http.StatusRequestEntityTooLarge}
	case errors.Is(err, validation.ErrFileTooLarge),
		errors.Is(err, validation.ErrInvalidMimeType),
		errors.Is(err, validation.ErrInvalidImage),
		errors.Is(err, validation.ErrImageTooLarge),
		errors.Is(err, validation.ErrTooManyAttachments),
		errors.Is(err, validation.ErrMalformedForm):
		return &sharederrors.ErrorWithStatusCode{Message: err.Error(), StatusCode: http.StatusBadRequest}
	}
	return err
}

// parseIdParam parses a chi URL parameter as an entity id.
func parseIdParam(r *http.Request, name string) (int64, error) {
	val, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || val <= 0 {
		return 0, &sharederrors.ErrorWithStatusCode{Message: fmt.Sprintf("invalid %s id", name), StatusCode: http.StatusBadRequest}
	}
	return val, nil
}

// parseIntQuery returns the query value as int, or def when it is absent.
func parseIntQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &sharederrors.ErrorWithStatusCode{Message: fmt.Sprintf("invalid %s: must be an integer", name), StatusCode: http.StatusBadRequest}
	}
	return val, nil
}

func callerFromRequest(r *http.Request) (*domain.User, error) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		return nil, &sharederrors.ErrorWithStatusCode{Message: "Unauthorized", StatusCode: http.StatusUnauthorized}
	}
	return user, nil
}
