package domain

import (
	"fmt"
	"strings"
	"time"
)

// for debug
func (p *Post) String() string {
	return fmt.Sprintf("[id:%d, author:%d, title:%s, created:%s, images:[%s]]",
		p.Id, p.AuthorId, p.Title, p.CreatedAt.Format(time.StampMilli), strings.Join(p.Images, ", "))
}

func (c *Comment) String() string {
	parent := "nil"
	if c.ParentId != nil {
		parent = fmt.Sprintf("%d", *c.ParentId)
	}
	return fmt.Sprintf("[id:%d, post:%d, parent:%s, author:%d, created:%s, images:[%s]]",
		c.Id, c.PostId, parent, c.AuthorId, c.CreatedAt.Format(time.StampMilli), strings.Join(c.Images, ", "))
}

// AllImages returns the images of every comment in order.
func AllImages(comments []*Comment) []ImageRef {
	var refs []ImageRef
	for _, c := range comments {
		refs = append(refs, c.Images...)
	}
	return refs
}
