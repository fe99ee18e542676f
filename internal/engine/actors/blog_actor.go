package actors

import (
	"log"
	"strings"
	"time"

	"blogswamp/internal/database"
	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for blog operations
type (
	CreateBlogMsg struct {
		OwnerID         uuid.UUID
		Title           string
		Content         string
		Tags            []string
		CustomImageURL  string
		UploadedImageID string
	}

	GetBlogMsg struct {
		BlogID uuid.UUID
	}

	UpdateBlogMsg struct {
		EditorID uuid.UUID
		BlogID   uuid.UUID
		Patch    *models.BlogPatch
	}

	DeleteBlogMsg struct {
		RequesterID uuid.UUID
		BlogID      uuid.UUID
	}

	LikeBlogMsg struct {
		UserID uuid.UUID
		BlogID uuid.UUID
	}

	UnlikeBlogMsg struct {
		UserID uuid.UUID
		BlogID uuid.UUID
	}

	BlogStateMsg struct {
		UserID uuid.UUID
		BlogID uuid.UUID
	}

	SaveBlogMsg struct {
		UserID uuid.UUID
		BlogID uuid.UUID
	}

	UnsaveBlogMsg struct {
		UserID uuid.UUID
		BlogID uuid.UUID
	}

	ListBlogsMsg struct {
		Cursor   string
		PageSize int
	}

	ListUserBlogsMsg struct {
		OwnerID  uuid.UUID
		Cursor   string
		PageSize int
	}

	ListLikedBlogsMsg struct {
		UserID   uuid.UUID
		Cursor   string
		PageSize int
	}

	ListSavedBlogsMsg struct {
		UserID   uuid.UUID
		Cursor   string
		PageSize int
	}
)

// BlobRemover releases stored image blobs once the entity that owns
// them is gone.
type BlobRemover interface {
	Delete(id string) error
}

// BlogActor owns every blog-document mutation
type BlogActor struct {
	store     database.Store
	metrics   *utils.MetricsCollector
	publisher ChangePublisher
	blobs     BlobRemover
}

func NewBlogActor(store database.Store, metrics *utils.MetricsCollector, publisher ChangePublisher, blobs BlobRemover) actor.Actor {
	return &BlogActor{store: store, metrics: metrics, publisher: publisher, blobs: blobs}
}

func (a *BlogActor) publish(entityID, action string) {
	if a.publisher != nil {
		a.publisher.PublishChange("blogs", entityID, action)
	}
}

func (a *BlogActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateBlogMsg:
		a.handleCreate(context, msg)
	case *GetBlogMsg:
		a.handleGet(context, msg)
	case *UpdateBlogMsg:
		a.handleUpdate(context, msg)
	case *DeleteBlogMsg:
		a.handleDelete(context, msg)
	case *LikeBlogMsg:
		a.handleToggle(context, msg.UserID, msg.BlogID, a.store.AddBlogLike, "like_blog")
	case *UnlikeBlogMsg:
		a.handleToggle(context, msg.UserID, msg.BlogID, a.store.RemoveBlogLike, "unlike_blog")
	case *SaveBlogMsg:
		a.handleToggle(context, msg.UserID, msg.BlogID, a.store.AddBlogSave, "save_blog")
	case *UnsaveBlogMsg:
		a.handleToggle(context, msg.UserID, msg.BlogID, a.store.RemoveBlogSave, "unsave_blog")
	case *BlogStateMsg:
		a.handleState(context, msg)
	case *ListBlogsMsg:
		page, err := a.store.GetBlogsPage(stdctx.Background(), msg.Cursor, msg.PageSize)
		a.respondPage(context, page, err)
	case *ListUserBlogsMsg:
		page, err := a.store.GetUserBlogsPage(stdctx.Background(), msg.OwnerID, msg.Cursor, msg.PageSize)
		a.respondPage(context, page, err)
	case *ListLikedBlogsMsg:
		page, err := a.store.GetLikedBlogsPage(stdctx.Background(), msg.UserID, msg.Cursor, msg.PageSize)
		a.respondPage(context, page, err)
	case *ListSavedBlogsMsg:
		page, err := a.store.GetSavedBlogsPage(stdctx.Background(), msg.UserID, msg.Cursor, msg.PageSize)
		a.respondPage(context, page, err)
	}
}

func (a *BlogActor) handleCreate(context actor.Context, msg *CreateBlogMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.OwnerID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}
	if strings.TrimSpace(msg.Title) == "" || strings.TrimSpace(msg.Content) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Title and content are required", nil))
		return
	}

	blog := &models.Blog{
		ID:              uuid.New(),
		OwnerID:         msg.OwnerID,
		Title:           msg.Title,
		Content:         msg.Content,
		Tags:            msg.Tags,
		CustomImageURL:  msg.CustomImageURL,
		UploadedImageID: msg.UploadedImageID,
		LikedBy:         []uuid.UUID{},
		SavedBy:         []uuid.UUID{},
		CreatedAt:       time.Now(),
	}

	if err := a.store.InsertBlog(ctx, blog); err != nil {
		context.Respond(wrapStoreError(err, "Failed to create blog"))
		return
	}

	a.metrics.AddOperationLatency("create_blog", time.Since(startTime))
	a.publish(blog.ID.String(), "created")
	context.Respond(blog)
}

func (a *BlogActor) handleGet(context actor.Context, msg *GetBlogMsg) {
	blog, err := a.store.GetBlog(stdctx.Background(), msg.BlogID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get blog"))
		return
	}
	context.Respond(blog)
}

func (a *BlogActor) handleState(context actor.Context, msg *BlogStateMsg) {
	blog, err := a.store.GetBlog(stdctx.Background(), msg.BlogID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get blog"))
		return
	}
	context.Respond(&models.BlogState{
		Liked: blog.IsLikedBy(msg.UserID),
		Saved: blog.IsSavedBy(msg.UserID),
	})
}

func (a *BlogActor) handleUpdate(context actor.Context, msg *UpdateBlogMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.EditorID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}
	if msg.Patch == nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Empty blog update", nil))
		return
	}
	if msg.Patch.Title != nil && strings.TrimSpace(*msg.Patch.Title) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Title cannot be empty", nil))
		return
	}
	if msg.Patch.Content != nil && strings.TrimSpace(*msg.Patch.Content) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Content cannot be empty", nil))
		return
	}

	blog, err := a.store.GetBlog(ctx, msg.BlogID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get blog"))
		return
	}
	if blog.OwnerID != msg.EditorID {
		context.Respond(utils.NewForbiddenError("only the owner can edit this blog"))
		return
	}

	if err := a.store.UpdateBlog(ctx, msg.BlogID, msg.Patch); err != nil {
		context.Respond(wrapStoreError(err, "Failed to update blog"))
		return
	}

	updated, err := a.store.GetBlog(ctx, msg.BlogID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load updated blog"))
		return
	}

	a.metrics.AddOperationLatency("update_blog", time.Since(startTime))
	a.publish(msg.BlogID.String(), "updated")
	context.Respond(updated)
}

func (a *BlogActor) handleDelete(context actor.Context, msg *DeleteBlogMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.RequesterID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}

	blog, err := a.store.GetBlog(ctx, msg.BlogID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get blog"))
		return
	}
	if blog.OwnerID != msg.RequesterID {
		context.Respond(utils.NewForbiddenError("only the owner can delete this blog"))
		return
	}

	if err := a.store.DeleteBlog(ctx, blog); err != nil {
		context.Respond(wrapStoreError(err, "Failed to delete blog"))
		return
	}

	if blog.UploadedImageID != "" && a.blobs != nil {
		if err := a.blobs.Delete(blog.UploadedImageID); err != nil {
			log.Printf("BlogActor: Failed to release image %s for blog %s: %v", blog.UploadedImageID, blog.ID, err)
		}
	}

	a.metrics.AddOperationLatency("delete_blog", time.Since(startTime))
	a.publish(msg.BlogID.String(), "deleted")
	context.Respond(&models.StatusResponse{Success: true, Message: "Blog deleted"})
}

// handleToggle runs one membership mutation against the store. The
// store distinguishes missing blogs from wrong-state toggles.
func (a *BlogActor) handleToggle(context actor.Context, userID, blogID uuid.UUID, op func(stdctx.Context, uuid.UUID, uuid.UUID) error, name string) {
	startTime := time.Now()

	if userID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}

	if err := op(stdctx.Background(), blogID, userID); err != nil {
		context.Respond(wrapStoreError(err, "Failed to "+strings.ReplaceAll(name, "_", " ")))
		return
	}

	a.metrics.AddOperationLatency(name, time.Since(startTime))
	a.publish(blogID.String(), "updated")
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *BlogActor) respondPage(context actor.Context, page *database.BlogPage, err error) {
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load blogs"))
		return
	}
	context.Respond(page)
}
