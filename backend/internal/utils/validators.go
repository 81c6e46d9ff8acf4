package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/codingbrain01/MyBlog/backend/internal/errors"
	"github.com/codingbrain01/MyBlog/shared/domain"
)

const (
	MaxTitleLength   = 200
	MaxBodyLength    = 50_000
	MaxContentLength = 10_000
)

type PostValidator struct{}

func (e *PostValidator) Title(title domain.PostTitle) error {
	return textLength("Title", title, MaxTitleLength)
}

func (e *PostValidator) Body(body domain.PostBody) error {
	return textLength("Body", body, MaxBodyLength)
}

type CommentValidator struct{}

func (e *CommentValidator) Content(content domain.CommentContent) error {
	return textLength("Content", content, MaxContentLength)
}

func textLength(field, text string, max int) error {
	if strings.TrimSpace(text) == "" {
		return &errors.ValidationError{Message: field + " is empty"}
	}
	if utf8.RuneCountInString(text) > max {
		return &errors.ValidationError{Message: field + " is too long"}
	}
	return nil
}
