package actors

import (
	"strings"
	"time"

	"blogswamp/internal/database"
	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for comment operations
type (
	CreateCommentMsg struct {
		AuthorID uuid.UUID
		BlogID   uuid.UUID
		Content  string
		ParentID *uuid.UUID
	}

	GetCommentMsg struct {
		CommentID uuid.UUID
	}

	UpdateCommentMsg struct {
		EditorID  uuid.UUID
		CommentID uuid.UUID
		Content   string
	}

	DeleteCommentMsg struct {
		RequesterID uuid.UUID
		CommentID   uuid.UUID
	}

	LikeCommentMsg struct {
		UserID    uuid.UUID
		CommentID uuid.UUID
	}

	UnlikeCommentMsg struct {
		UserID    uuid.UUID
		CommentID uuid.UUID
	}

	CommentStateMsg struct {
		UserID    uuid.UUID
		CommentID uuid.UUID
	}

	ListCommentsMsg struct {
		BlogID   uuid.UUID
		Cursor   string
		PageSize int
	}
)

// CommentActor owns every comment-document mutation
type CommentActor struct {
	store     database.Store
	metrics   *utils.MetricsCollector
	publisher ChangePublisher
}

func NewCommentActor(store database.Store, metrics *utils.MetricsCollector, publisher ChangePublisher) actor.Actor {
	return &CommentActor{store: store, metrics: metrics, publisher: publisher}
}

func (a *CommentActor) publish(entityID, action string) {
	if a.publisher != nil {
		a.publisher.PublishChange("comments", entityID, action)
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *CreateCommentMsg:
		a.handleCreate(context, msg)
	case *GetCommentMsg:
		a.handleGet(context, msg)
	case *UpdateCommentMsg:
		a.handleUpdate(context, msg)
	case *DeleteCommentMsg:
		a.handleDelete(context, msg)
	case *LikeCommentMsg:
		a.handleLike(context, msg)
	case *UnlikeCommentMsg:
		a.handleUnlike(context, msg)
	case *CommentStateMsg:
		a.handleState(context, msg)
	case *ListCommentsMsg:
		a.handleList(context, msg)
	}
}

func (a *CommentActor) handleCreate(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.AuthorID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Comment content is required", nil))
		return
	}

	if msg.ParentID != nil {
		parent, err := a.store.GetComment(ctx, *msg.ParentID)
		if err != nil {
			context.Respond(wrapStoreError(err, "Failed to get parent comment"))
			return
		}
		if parent.BlogID != msg.BlogID {
			context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Parent comment belongs to another blog", nil))
			return
		}
	}

	comment := &models.Comment{
		ID:           uuid.New(),
		BlogID:       msg.BlogID,
		AuthorID:     msg.AuthorID,
		Content:      msg.Content,
		ParentID:     msg.ParentID,
		CommentLikes: []uuid.UUID{},
		CreatedAt:    time.Now(),
	}

	if err := a.store.InsertComment(ctx, comment); err != nil {
		context.Respond(wrapStoreError(err, "Failed to create comment"))
		return
	}

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	a.publish(comment.ID.String(), "created")
	context.Respond(comment)
}

func (a *CommentActor) handleGet(context actor.Context, msg *GetCommentMsg) {
	comment, err := a.store.GetComment(stdctx.Background(), msg.CommentID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get comment"))
		return
	}
	context.Respond(comment)
}

func (a *CommentActor) handleState(context actor.Context, msg *CommentStateMsg) {
	comment, err := a.store.GetComment(stdctx.Background(), msg.CommentID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get comment"))
		return
	}
	context.Respond(&models.CommentState{
		Liked: comment.IsLikedBy(msg.UserID),
		Owner: comment.AuthorID == msg.UserID,
	})
}

func (a *CommentActor) handleUpdate(context actor.Context, msg *UpdateCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.EditorID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Comment content is required", nil))
		return
	}

	comment, err := a.store.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get comment"))
		return
	}
	if comment.AuthorID != msg.EditorID {
		context.Respond(utils.NewForbiddenError("only the author can edit this comment"))
		return
	}

	if err := a.store.UpdateCommentContent(ctx, msg.CommentID, msg.Content); err != nil {
		context.Respond(wrapStoreError(err, "Failed to update comment"))
		return
	}

	updated, err := a.store.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load updated comment"))
		return
	}

	a.metrics.AddOperationLatency("update_comment", time.Since(startTime))
	a.publish(msg.CommentID.String(), "updated")
	context.Respond(updated)
}

func (a *CommentActor) handleDelete(context actor.Context, msg *DeleteCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.RequesterID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}

	comment, err := a.store.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get comment"))
		return
	}

	if comment.AuthorID != msg.RequesterID {
		context.Respond(utils.NewForbiddenError("only the author can delete this comment"))
		return
	}

	if err := a.store.DeleteComment(ctx, comment); err != nil {
		context.Respond(wrapStoreError(err, "Failed to delete comment"))
		return
	}

	a.metrics.AddOperationLatency("delete_comment", time.Since(startTime))
	a.publish(msg.CommentID.String(), "deleted")
	context.Respond(&models.StatusResponse{Success: true, Message: "Comment deleted"})
}

func (a *CommentActor) handleLike(context actor.Context, msg *LikeCommentMsg) {
	startTime := time.Now()

	if msg.UserID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}

	if err := a.store.AddCommentLike(stdctx.Background(), msg.CommentID, msg.UserID); err != nil {
		context.Respond(wrapStoreError(err, "Failed to like comment"))
		return
	}

	a.metrics.AddOperationLatency("like_comment", time.Since(startTime))
	a.publish(msg.CommentID.String(), "updated")
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *CommentActor) handleUnlike(context actor.Context, msg *UnlikeCommentMsg) {
	startTime := time.Now()

	if msg.UserID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}

	if err := a.store.RemoveCommentLike(stdctx.Background(), msg.CommentID, msg.UserID); err != nil {
		context.Respond(wrapStoreError(err, "Failed to unlike comment"))
		return
	}

	a.metrics.AddOperationLatency("unlike_comment", time.Since(startTime))
	a.publish(msg.CommentID.String(), "updated")
	context.Respond(&models.StatusResponse{Success: true})
}

func (a *CommentActor) handleList(context actor.Context, msg *ListCommentsMsg) {
	page, err := a.store.GetCommentsPage(stdctx.Background(), msg.BlogID, msg.Cursor, msg.PageSize)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load comments"))
		return
	}
	context.Respond(page)
}
