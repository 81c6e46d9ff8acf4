package domain

import "github.com/lib/pq"

type (
	UserId    = int64
	PostId    = int64
	CommentId = int64

	// ImageRef is the public URL of an uploaded image.
	ImageRef = string
	// Images is an ordered list of image references, stored as a postgres text[].
	Images = pq.StringArray

	PostTitle      = string
	PostBody       = string
	CommentContent = string
)
