package domain

import "time"

type CommentCreationData struct {
	PostId   PostId
	AuthorId UserId
	ParentId *CommentId
	Content  CommentContent
	Files    []*PendingFile
}

type CommentUpdateData struct {
	Id            CommentId
	Content       CommentContent
	RemovedImages []ImageRef
	Files         []*PendingFile
	CallerId      UserId
}

type Comment struct {
	Id        CommentId
	PostId    PostId
	AuthorId  UserId
	ParentId  *CommentId // nil for top-level comments
	Content   CommentContent
	Images    Images
	CreatedAt time.Time
}

func (c *Comment) IsTopLevel() bool {
	return c.ParentId == nil
}

// CommentThread is a top-level comment with its replies in creation order.
type CommentThread struct {
	Comment *Comment
	Replies []*Comment
}
