package utils

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/codingbrain01/MyBlog/shared/errors"
	"github.com/codingbrain01/MyBlog/shared/logger"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteErrorAndStatusCode writes err with the status it carries.
// Errors without a status, and any 5xx, are reported as a generic message;
// the details only go to the log.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var coder errors.StatusCoder
	if stderrors.As(err, &coder) {
		status = coder.Status()
	}

	if status >= http.StatusInternalServerError {
		logger.Log.Error("request failed", "status", status, "error", err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}

func GetIP(r *http.Request) (string, error) {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	if net.ParseIP(ip) != nil {
		return ip, nil
	}

	// Get IP from X-FORWARDED-FOR header
	for _, ip := range strings.Split(r.Header.Get("X-FORWARDED-FOR"), ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip, nil
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if net.ParseIP(ip) != nil {
		return ip, nil
	}
	return "", &errors.ErrorWithStatusCode{Message: "No valid ip found", StatusCode: http.StatusBadRequest}
}

// DecodeValidate decodes JSON from r into body and runs the `validate` struct tags.
func DecodeValidate(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body failed validation", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: http.StatusBadRequest}
	}
	return nil
}
