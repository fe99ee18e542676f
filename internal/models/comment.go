package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to a blog and is owned by its author. ParentID
// enables replies; read paths return comments as a flat list.
type Comment struct {
	ID       uuid.UUID  `json:"id"`
	BlogID   uuid.UUID  `json:"blogId"`
	AuthorID uuid.UUID  `json:"authorId"`
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parentCommentId,omitempty"`

	CommentLikes      []uuid.UUID `json:"commentLikes"`
	CommentLikesCount int         `json:"commentLikesCount"`

	IsEdited  bool       `json:"isEdited"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// Joined per page from the author document, not stored
	AuthorName  string `json:"authorName,omitempty"`
	AuthorImage string `json:"authorImage,omitempty"`
}

// IsLikedBy reports membership in the comment's like set.
func (c *Comment) IsLikedBy(userID uuid.UUID) bool {
	for _, id := range c.CommentLikes {
		if id == userID {
			return true
		}
	}
	return false
}
