package domain

import "time"

// to iterate thru layers: handler -> service -> storage
type PostCreationData struct {
	Title    PostTitle
	Body     PostBody
	AuthorId UserId
	Files    []*PendingFile
}

type PostUpdateData struct {
	Id            PostId
	Title         PostTitle
	Body          PostBody
	RemovedImages []ImageRef
	Files         []*PendingFile
	CallerId      UserId
}

type Post struct {
	Id        PostId
	Title     PostTitle
	Body      PostBody
	AuthorId  UserId
	Images    Images
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostPage is one page of a post listing plus the total number of posts matching.
type PostPage struct {
	Posts []*Post
	Total int
}
