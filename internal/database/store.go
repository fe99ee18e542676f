// internal/database/store.go
package database

import (
	"context"

	"blogswamp/internal/models"

	"github.com/google/uuid"
)

// Store is the entity-store contract the actors operate against. MongoDB
// implements it; tests substitute an in-memory fake. Every method that
// adjusts a denormalized counter pairs it with the matching membership
// mutation inside one atomic store operation.
type Store interface {
	// Users
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, patch *models.ProfilePatch) error
	UpdateUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error
	UpdateUserActivity(ctx context.Context, userID uuid.UUID) error
	GetUserRefs(ctx context.Context, ids []uuid.UUID) ([]models.UserRef, error)

	// Social graph
	AddFollow(ctx context.Context, followerID, targetID uuid.UUID) error
	RemoveFollow(ctx context.Context, followerID, targetID uuid.UUID) error

	// Blogs
	InsertBlog(ctx context.Context, blog *models.Blog) error
	GetBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	UpdateBlog(ctx context.Context, blogID uuid.UUID, patch *models.BlogPatch) error
	DeleteBlog(ctx context.Context, blog *models.Blog) error
	AddBlogLike(ctx context.Context, blogID, userID uuid.UUID) error
	RemoveBlogLike(ctx context.Context, blogID, userID uuid.UUID) error
	AddBlogSave(ctx context.Context, blogID, userID uuid.UUID) error
	RemoveBlogSave(ctx context.Context, blogID, userID uuid.UUID) error
	GetBlogsPage(ctx context.Context, cursor string, pageSize int) (*BlogPage, error)
	GetUserBlogsPage(ctx context.Context, ownerID uuid.UUID, cursor string, pageSize int) (*BlogPage, error)
	GetLikedBlogsPage(ctx context.Context, userID uuid.UUID, cursor string, pageSize int) (*BlogPage, error)
	GetSavedBlogsPage(ctx context.Context, userID uuid.UUID, cursor string, pageSize int) (*BlogPage, error)

	// Comments
	InsertComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	UpdateCommentContent(ctx context.Context, commentID uuid.UUID, content string) error
	DeleteComment(ctx context.Context, comment *models.Comment) error
	AddCommentLike(ctx context.Context, commentID, userID uuid.UUID) error
	RemoveCommentLike(ctx context.Context, commentID, userID uuid.UUID) error
	GetCommentsPage(ctx context.Context, blogID uuid.UUID, cursor string, pageSize int) (*CommentPage, error)

	// Interaction journal
	GetInteractionsPage(ctx context.Context, actorID uuid.UUID, cursor string, pageSize int) (*InteractionPage, error)
}

var _ Store = (*MongoDB)(nil)
