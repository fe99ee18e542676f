package actors

import (
	"fmt"
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

func spawnBlogActor(t *testing.T, store *fakeStore) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewBlogActor(store, utils.NewMetricsCollector(), nil, nil)
	})
	return system, system.Root.Spawn(props)
}

func seedUser(store *fakeStore, name string) *models.User {
	user := &models.User{
		ID:             uuid.New(),
		Name:           name,
		Email:          name + "@example.com",
		Role:           models.RoleUser,
		FollowingUsers: []uuid.UUID{},
		FollowedUser:   []uuid.UUID{},
		CreatedAt:      time.Now(),
	}
	store.users[user.ID] = user
	return user
}

func createBlog(t *testing.T, system *actor.ActorSystem, pid *actor.PID, ownerID uuid.UUID, title string) *models.Blog {
	t.Helper()
	result := ask(t, system, pid, &CreateBlogMsg{
		OwnerID: ownerID,
		Title:   title,
		Content: "some content",
		Tags:    []string{"swamp"},
	})
	blog, ok := result.(*models.Blog)
	require.True(t, ok, "expected a blog, got %T: %v", result, result)
	return blog
}

func TestCreateBlog(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnBlogActor(t, store)
	owner := seedUser(store, "alice")

	blog := createBlog(t, system, pid, owner.ID, "First post")
	assert.Equal(t, owner.ID, blog.OwnerID)
	assert.Equal(t, 0, blog.LikesCount)
	assert.Equal(t, 1, store.users[owner.ID].BlogsCount)

	// Anonymous creation is rejected
	result := ask(t, system, pid, &CreateBlogMsg{Title: "x", Content: "y"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrUnauthenticated, appErr.Code)

	// Empty title is rejected
	result = ask(t, system, pid, &CreateBlogMsg{OwnerID: owner.ID, Title: "  ", Content: "y"})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestUpdateBlogOwnership(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnBlogActor(t, store)
	owner := seedUser(store, "alice")
	stranger := seedUser(store, "bob")

	blog := createBlog(t, system, pid, owner.ID, "Original title")

	newTitle := "Hijacked"
	result := ask(t, system, pid, &UpdateBlogMsg{
		EditorID: stranger.ID,
		BlogID:   blog.ID,
		Patch:    &models.BlogPatch{Title: &newTitle},
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
	assert.Equal(t, "Original title", store.blogs[blog.ID].Title)

	ownTitle := "Revised title"
	result = ask(t, system, pid, &UpdateBlogMsg{
		EditorID: owner.ID,
		BlogID:   blog.ID,
		Patch:    &models.BlogPatch{Title: &ownTitle},
	})
	updated, ok := result.(*models.Blog)
	require.True(t, ok, "update failed: %v", result)
	assert.Equal(t, "Revised title", updated.Title)
}

func TestLikeRoundTrip(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnBlogActor(t, store)
	owner := seedUser(store, "alice")
	reader := seedUser(store, "bob")

	blog := createBlog(t, system, pid, owner.ID, "Likeable")

	result := ask(t, system, pid, &LikeBlogMsg{UserID: reader.ID, BlogID: blog.ID})
	_, ok := result.(*models.StatusResponse)
	require.True(t, ok, "like failed: %v", result)
	assert.Equal(t, 1, store.blogs[blog.ID].LikesCount)
	assert.Len(t, store.blogs[blog.ID].LikedBy, 1)
	assert.Equal(t, 1, store.users[reader.ID].LikedBlogsCount)

	result = ask(t, system, pid, &BlogStateMsg{UserID: reader.ID, BlogID: blog.ID})
	state, ok := result.(*models.BlogState)
	require.True(t, ok, "state read failed: %v", result)
	assert.True(t, state.Liked)
	assert.False(t, state.Saved)

	// Double like fails and moves nothing
	result = ask(t, system, pid, &LikeBlogMsg{UserID: reader.ID, BlogID: blog.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrAlreadyLiked, appErr.Code)
	assert.Equal(t, 1, store.blogs[blog.ID].LikesCount)

	// Unlike returns to zero
	result = ask(t, system, pid, &UnlikeBlogMsg{UserID: reader.ID, BlogID: blog.ID})
	_, ok = result.(*models.StatusResponse)
	require.True(t, ok, "unlike failed: %v", result)
	assert.Equal(t, 0, store.blogs[blog.ID].LikesCount)
	assert.Empty(t, store.blogs[blog.ID].LikedBy)
	assert.Equal(t, 0, store.users[reader.ID].LikedBlogsCount)

	result = ask(t, system, pid, &BlogStateMsg{UserID: reader.ID, BlogID: blog.ID})
	state, ok = result.(*models.BlogState)
	require.True(t, ok)
	assert.False(t, state.Liked)

	// Unlike when absent is a state error
	result = ask(t, system, pid, &UnlikeBlogMsg{UserID: reader.ID, BlogID: blog.ID})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotLiked, appErr.Code)
}

func TestSaveRoundTrip(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnBlogActor(t, store)
	owner := seedUser(store, "alice")
	reader := seedUser(store, "bob")

	blog := createBlog(t, system, pid, owner.ID, "Saveable")

	result := ask(t, system, pid, &SaveBlogMsg{UserID: reader.ID, BlogID: blog.ID})
	_, ok := result.(*models.StatusResponse)
	require.True(t, ok, "save failed: %v", result)
	assert.Equal(t, 1, store.blogs[blog.ID].SavedCount)
	assert.Equal(t, 1, store.users[reader.ID].SavedBlogsCount)

	result = ask(t, system, pid, &UnsaveBlogMsg{UserID: reader.ID, BlogID: blog.ID})
	_, ok = result.(*models.StatusResponse)
	require.True(t, ok, "unsave failed: %v", result)
	assert.Equal(t, 0, store.blogs[blog.ID].SavedCount)
	assert.Equal(t, 0, store.users[reader.ID].SavedBlogsCount)
}

func TestBlogFeedPagination(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnBlogActor(t, store)
	owner := seedUser(store, "alice")

	for i := 0; i < 5; i++ {
		createBlog(t, system, pid, owner.ID, fmt.Sprintf("Post %d", i))
	}

	seen := map[uuid.UUID]bool{}
	cursor := ""
	for {
		result := ask(t, system, pid, &ListBlogsMsg{Cursor: cursor, PageSize: 2})
		page, ok := result.(*database.BlogPage)
		require.True(t, ok, "expected a page, got %T: %v", result, result)
		for _, blog := range page.Page {
			assert.False(t, seen[blog.ID], "blog %s returned twice", blog.ID)
			seen[blog.ID] = true
		}
		if page.IsDone {
			assert.Equal(t, database.TerminalCursor, page.ContinueCursor)
			break
		}
		cursor = page.ContinueCursor
	}
	assert.Len(t, seen, 5)

	// Paging past the end stays empty and done
	result := ask(t, system, pid, &ListBlogsMsg{Cursor: database.TerminalCursor, PageSize: 2})
	page, ok := result.(*database.BlogPage)
	require.True(t, ok)
	assert.Empty(t, page.Page)
	assert.True(t, page.IsDone)
}

func TestLikeMissingBlog(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnBlogActor(t, store)
	reader := seedUser(store, "bob")

	result := ask(t, system, pid, &LikeBlogMsg{UserID: reader.ID, BlogID: uuid.New()})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrBlogNotFound, appErr.Code)
}

func TestDeleteBlog(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnBlogActor(t, store)
	owner := seedUser(store, "alice")
	stranger := seedUser(store, "bob")

	blog := createBlog(t, system, pid, owner.ID, "Short lived")

	result := ask(t, system, pid, &DeleteBlogMsg{RequesterID: stranger.ID, BlogID: blog.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	result = ask(t, system, pid, &DeleteBlogMsg{RequesterID: owner.ID, BlogID: blog.ID})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "delete failed: %v", result)
	assert.True(t, status.Success)
	assert.NotContains(t, store.blogs, blog.ID)
	assert.Equal(t, 0, store.users[owner.ID].BlogsCount)
}

func TestLikedAndSavedFeeds(t *testing.T) {
	store := newFakeStore()
	system, pid := spawnBlogActor(t, store)
	owner := seedUser(store, "alice")
	reader := seedUser(store, "bob")

	first := createBlog(t, system, pid, owner.ID, "first")
	second := createBlog(t, system, pid, owner.ID, "second")

	ask(t, system, pid, &LikeBlogMsg{UserID: reader.ID, BlogID: first.ID})
	ask(t, system, pid, &SaveBlogMsg{UserID: reader.ID, BlogID: second.ID})

	result := ask(t, system, pid, &ListLikedBlogsMsg{UserID: reader.ID})
	likedPage, ok := result.(*database.BlogPage)
	require.True(t, ok, "liked feed failed: %v", result)
	require.Len(t, likedPage.Page, 1)
	assert.Equal(t, first.ID, likedPage.Page[0].ID)

	result = ask(t, system, pid, &ListSavedBlogsMsg{UserID: reader.ID})
	savedPage, ok := result.(*database.BlogPage)
	require.True(t, ok, "saved feed failed: %v", result)
	require.Len(t, savedPage.Page, 1)
	assert.Equal(t, second.ID, savedPage.Page[0].ID)

	result = ask(t, system, pid, &ListBlogsMsg{})
	allPage, ok := result.(*database.BlogPage)
	require.True(t, ok)
	assert.Len(t, allPage.Page, 2)
	assert.True(t, allPage.IsDone)
}
