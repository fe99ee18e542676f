package actors

import (
	"testing"
	"time"

	"blogswamp/internal/database"
	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnCommentActor(t *testing.T, store *fakeStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(store, utils.NewMetricsCollector(), nil)
	})
	return system, system.Root.Spawn(props)
}

func seedBlog(store *fakeStore, ownerID uuid.UUID) *models.Blog {
	blog := &models.Blog{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     "a blog",
		Content:   "content",
		LikedBy:   []uuid.UUID{},
		SavedBy:   []uuid.UUID{},
		CreatedAt: time.Now(),
	}
	store.blogs[blog.ID] = blog
	return blog
}

func createComment(t *testing.T, system *actor.ActorSystem, pid *actor.PID, authorID, blogID uuid.UUID, content string) *models.Comment {
	t.Helper()
	result := ask(t, system, pid, &CreateCommentMsg{
		AuthorID: authorID,
		BlogID:   blogID,
		Content:  content,
	})
	comment, ok := result.(*models.Comment)
	require.True(t, ok, "expected a comment, got %T: %v", result, result)
	return comment
}

func TestCreateComment(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)
	author := seedUser(store, "alice")
	blog := seedBlog(store, author.ID)

	comment := createComment(t, system, pid, author.ID, blog.ID, "nice post")
	assert.Equal(t, blog.ID, comment.BlogID)
	assert.Equal(t, 1, store.blogs[blog.ID].CommentsCount)

	// Commenting on a missing blog fails
	result := ask(t, system, pid, &CreateCommentMsg{
		AuthorID: author.ID,
		BlogID:   uuid.New(),
		Content:  "into the void",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrBlogNotFound, appErr.Code)
}

func TestReplyTargetsSameBlog(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)
	author := seedUser(store, "alice")
	blog := seedBlog(store, author.ID)
	other := seedBlog(store, author.ID)

	parent := createComment(t, system, pid, author.ID, blog.ID, "parent")

	// Reply on the same blog succeeds and carries the parent ID
	result := ask(t, system, pid, &CreateCommentMsg{
		AuthorID: author.ID,
		BlogID:   blog.ID,
		Content:  "reply",
		ParentID: &parent.ID,
	})
	reply, ok := result.(*models.Comment)
	require.True(t, ok, "reply failed: %v", result)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)

	// Reply pointing at a parent from another blog is rejected
	result = ask(t, system, pid, &CreateCommentMsg{
		AuthorID: author.ID,
		BlogID:   other.ID,
		Content:  "cross reply",
		ParentID: &parent.ID,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestUpdateCommentOwnership(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)
	author := seedUser(store, "alice")
	stranger := seedUser(store, "bob")
	blog := seedBlog(store, author.ID)

	comment := createComment(t, system, pid, author.ID, blog.ID, "original")

	result := ask(t, system, pid, &UpdateCommentMsg{
		EditorID:  stranger.ID,
		CommentID: comment.ID,
		Content:   "defaced",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
	assert.Equal(t, "original", store.comments[comment.ID].Content)

	result = ask(t, system, pid, &UpdateCommentMsg{
		EditorID:  author.ID,
		CommentID: comment.ID,
		Content:   "revised",
	})
	updated, ok := result.(*models.Comment)
	require.True(t, ok, "update failed: %v", result)
	assert.Equal(t, "revised", updated.Content)
	assert.True(t, updated.IsEdited)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)
	blogOwner := seedUser(store, "alice")
	commenter := seedUser(store, "bob")
	blog := seedBlog(store, blogOwner.ID)

	comment := createComment(t, system, pid, commenter.ID, blog.ID, "hot take")

	// Not even the blog owner may delete someone else's comment
	result := ask(t, system, pid, &DeleteCommentMsg{RequesterID: blogOwner.ID, CommentID: comment.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
	assert.Contains(t, store.comments, comment.ID)

	result = ask(t, system, pid, &DeleteCommentMsg{RequesterID: commenter.ID, CommentID: comment.ID})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "delete failed: %v", result)
	assert.True(t, status.Success)
	assert.NotContains(t, store.comments, comment.ID)
	assert.Equal(t, 0, store.blogs[blog.ID].CommentsCount)
}

func TestCommentLikeRoundTrip(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)
	author := seedUser(store, "alice")
	reader := seedUser(store, "bob")
	blog := seedBlog(store, author.ID)

	comment := createComment(t, system, pid, author.ID, blog.ID, "likeable")

	result := ask(t, system, pid, &LikeCommentMsg{UserID: reader.ID, CommentID: comment.ID})
	_, ok := result.(*models.StatusResponse)
	require.True(t, ok, "like failed: %v", result)
	assert.Equal(t, 1, store.comments[comment.ID].CommentLikesCount)

	result = ask(t, system, pid, &CommentStateMsg{UserID: reader.ID, CommentID: comment.ID})
	state, ok := result.(*models.CommentState)
	require.True(t, ok, "state read failed: %v", result)
	assert.True(t, state.Liked)
	assert.False(t, state.Owner)

	result = ask(t, system, pid, &CommentStateMsg{UserID: author.ID, CommentID: comment.ID})
	state, ok = result.(*models.CommentState)
	require.True(t, ok)
	assert.False(t, state.Liked)
	assert.True(t, state.Owner)

	result = ask(t, system, pid, &LikeCommentMsg{UserID: reader.ID, CommentID: comment.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrCommentAlreadyLike, appErr.Code)
	assert.Equal(t, 1, store.comments[comment.ID].CommentLikesCount)

	result = ask(t, system, pid, &UnlikeCommentMsg{UserID: reader.ID, CommentID: comment.ID})
	_, ok = result.(*models.StatusResponse)
	require.True(t, ok, "unlike failed: %v", result)
	assert.Equal(t, 0, store.comments[comment.ID].CommentLikesCount)

	result = ask(t, system, pid, &UnlikeCommentMsg{UserID: reader.ID, CommentID: comment.ID})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrCommentNotLiked, appErr.Code)
}

func TestListCommentsJoinsAuthors(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnCommentActor(t, store)
	author := seedUser(store, "alice")
	blog := seedBlog(store, author.ID)

	createComment(t, system, pid, author.ID, blog.ID, "first")
	createComment(t, system, pid, author.ID, blog.ID, "second")

	result := ask(t, system, pid, &ListCommentsMsg{BlogID: blog.ID})
	page, ok := result.(*database.CommentPage)
	require.True(t, ok, "list failed: %v", result)
	require.Len(t, page.Page, 2)
	for _, comment := range page.Page {
		assert.Equal(t, "alice", comment.AuthorName)
	}
}
