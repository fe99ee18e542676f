package models

import (
	"time"

	"github.com/google/uuid"
)

// Blog is a post owned by one user. LikedBy/SavedBy are the membership
// arrays backing LikesCount/SavedCount.
type Blog struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"ownerId"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Tags    []string  `json:"tags,omitempty"`

	CustomImageURL  string `json:"customImageUrl,omitempty"`
	UploadedImageID string `json:"uploadedImageId,omitempty"`

	LikesCount    int `json:"likesCount"`
	SavedCount    int `json:"savedCount"`
	CommentsCount int `json:"commentsCount"`

	LikedBy []uuid.UUID `json:"likedBy"`
	SavedBy []uuid.UUID `json:"savedBy"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// IsLikedBy reports membership in the blog's like set.
func (b *Blog) IsLikedBy(userID uuid.UUID) bool {
	for _, id := range b.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// IsSavedBy reports membership in the blog's save set.
func (b *Blog) IsSavedBy(userID uuid.UUID) bool {
	for _, id := range b.SavedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// BlogPatch carries owner edits; nil fields are left unchanged. Like
// and save state is never touched through a patch.
type BlogPatch struct {
	Title           *string   `json:"title,omitempty"`
	Content         *string   `json:"content,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
	CustomImageURL  *string   `json:"customImageUrl,omitempty"`
	UploadedImageID *string   `json:"uploadedImageId,omitempty"`
}
