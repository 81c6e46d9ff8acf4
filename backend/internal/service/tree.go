package service

import "github.com/codingbrain01/MyBlog/shared/domain"

// AssembleTree groups a flat, creation-ordered comment list into top-level
// comments with their replies. Input order is kept at both levels.
// Replies whose parent is not in the list are dropped.
func AssembleTree(comments []*domain.Comment) []domain.CommentThread {
	tree := make([]domain.CommentThread, 0)
	index := make(map[domain.CommentId]int)

	for _, c := range comments {
		if c.IsTopLevel() {
			index[c.Id] = len(tree)
			tree = append(tree, domain.CommentThread{Comment: c, Replies: []*domain.Comment{}})
		}
	}
	for _, c := range comments {
		if c.IsTopLevel() {
			continue
		}
		if i, ok := index[*c.ParentId]; ok {
			tree[i].Replies = append(tree[i].Replies, c)
		}
	}
	return tree
}
