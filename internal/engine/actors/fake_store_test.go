package actors

import (
	"context"
	"sort"
	"sync"

	"blogswamp/internal/database"
	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store with the same guarded-update
// semantics as the MongoDB implementation: counters only move together
// with their membership arrays, and wrong-state toggles fail.
type fakeStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*models.User
	blogs        map[uuid.UUID]*models.Blog
	comments     map[uuid.UUID]*models.Comment
	interactions []*models.Interaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*models.User),
		blogs:    make(map[uuid.UUID]*models.Blog),
		comments: make(map[uuid.UUID]*models.Comment),
	}
}

var _ database.Store = (*fakeStore)(nil)

func (f *fakeStore) SaveUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email && existing.ID != user.ID {
			return utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", nil)
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	clone := *user
	return &clone, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", nil)
}

func (f *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, userID uuid.UUID, patch *models.ProfilePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return utils.NewUserNotFoundError(userID.String())
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.ShowEmail != nil {
		user.ShowEmail = *patch.ShowEmail
	}
	if patch.MessagePrivacy != nil {
		user.MessagePrivacy = *patch.MessagePrivacy
	}
	return nil
}

func (f *fakeStore) UpdateUserRole(_ context.Context, userID uuid.UUID, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return utils.NewUserNotFoundError(userID.String())
	}
	user.Role = role
	return nil
}

func (f *fakeStore) UpdateUserActivity(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return utils.NewUserNotFoundError(userID.String())
	}
	return nil
}

func (f *fakeStore) GetUserRefs(_ context.Context, ids []uuid.UUID) ([]models.UserRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make([]models.UserRef, 0, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			refs = append(refs, user.Ref())
		}
	}
	return refs, nil
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func remove(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (f *fakeStore) AddFollow(_ context.Context, followerID, targetID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	follower, ok := f.users[followerID]
	if !ok {
		return utils.NewUserNotFoundError(followerID.String())
	}
	target, ok := f.users[targetID]
	if !ok {
		return utils.NewUserNotFoundError(targetID.String())
	}
	if contains(follower.FollowingUsers, targetID) {
		return utils.NewAppError(utils.ErrAlreadyFollowing, "Already following this user", nil)
	}
	follower.FollowingUsers = append(follower.FollowingUsers, targetID)
	follower.FollowingCount++
	target.FollowedUser = append(target.FollowedUser, followerID)
	target.FollowersCount++
	f.journal(followerID, targetID, models.InteractionFollow)
	return nil
}

func (f *fakeStore) RemoveFollow(_ context.Context, followerID, targetID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	follower, ok := f.users[followerID]
	if !ok {
		return utils.NewUserNotFoundError(followerID.String())
	}
	target, ok := f.users[targetID]
	if !ok {
		return utils.NewUserNotFoundError(targetID.String())
	}
	if !contains(follower.FollowingUsers, targetID) {
		return utils.NewAppError(utils.ErrNotFollowing, "Not following this user", nil)
	}
	follower.FollowingUsers = remove(follower.FollowingUsers, targetID)
	follower.FollowingCount--
	if contains(target.FollowedUser, followerID) {
		target.FollowedUser = remove(target.FollowedUser, followerID)
		if target.FollowersCount > 0 {
			target.FollowersCount--
		}
	}
	f.unjournal(followerID, targetID, models.InteractionFollow)
	return nil
}

func (f *fakeStore) InsertBlog(_ context.Context, blog *models.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner, ok := f.users[blog.OwnerID]
	if !ok {
		return utils.NewUserNotFoundError(blog.OwnerID.String())
	}
	owner.BlogsCount++
	clone := *blog
	f.blogs[blog.ID] = &clone
	return nil
}

func (f *fakeStore) GetBlog(_ context.Context, id uuid.UUID) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[id]
	if !ok {
		return nil, utils.NewBlogNotFoundError(id.String())
	}
	clone := *blog
	return &clone, nil
}

func (f *fakeStore) UpdateBlog(_ context.Context, blogID uuid.UUID, patch *models.BlogPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[blogID]
	if !ok {
		return utils.NewBlogNotFoundError(blogID.String())
	}
	if patch.Title != nil {
		blog.Title = *patch.Title
	}
	if patch.Content != nil {
		blog.Content = *patch.Content
	}
	if patch.Tags != nil {
		blog.Tags = *patch.Tags
	}
	return nil
}

func (f *fakeStore) DeleteBlog(_ context.Context, blog *models.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blogs[blog.ID]; !ok {
		return utils.NewBlogNotFoundError(blog.ID.String())
	}
	delete(f.blogs, blog.ID)
	for id, comment := range f.comments {
		if comment.BlogID == blog.ID {
			delete(f.comments, id)
		}
	}
	if owner, ok := f.users[blog.OwnerID]; ok && owner.BlogsCount > 0 {
		owner.BlogsCount--
	}
	return nil
}

func (f *fakeStore) AddBlogLike(_ context.Context, blogID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[blogID]
	if !ok {
		return utils.NewBlogNotFoundError(blogID.String())
	}
	if contains(blog.LikedBy, userID) {
		return utils.NewAppError(utils.ErrAlreadyLiked, "Blog already liked", nil)
	}
	blog.LikedBy = append(blog.LikedBy, userID)
	blog.LikesCount++
	if user, ok := f.users[userID]; ok {
		user.LikedBlogsCount++
	}
	f.journal(userID, blogID, models.InteractionBlogLike)
	return nil
}

func (f *fakeStore) RemoveBlogLike(_ context.Context, blogID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[blogID]
	if !ok {
		return utils.NewBlogNotFoundError(blogID.String())
	}
	if !contains(blog.LikedBy, userID) {
		return utils.NewAppError(utils.ErrNotLiked, "Blog not liked", nil)
	}
	blog.LikedBy = remove(blog.LikedBy, userID)
	blog.LikesCount--
	if user, ok := f.users[userID]; ok && user.LikedBlogsCount > 0 {
		user.LikedBlogsCount--
	}
	f.unjournal(userID, blogID, models.InteractionBlogLike)
	return nil
}

func (f *fakeStore) AddBlogSave(_ context.Context, blogID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[blogID]
	if !ok {
		return utils.NewBlogNotFoundError(blogID.String())
	}
	if contains(blog.SavedBy, userID) {
		return utils.NewAppError(utils.ErrAlreadySaved, "Blog already saved", nil)
	}
	blog.SavedBy = append(blog.SavedBy, userID)
	blog.SavedCount++
	if user, ok := f.users[userID]; ok {
		user.SavedBlogsCount++
	}
	f.journal(userID, blogID, models.InteractionBlogSave)
	return nil
}

func (f *fakeStore) RemoveBlogSave(_ context.Context, blogID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[blogID]
	if !ok {
		return utils.NewBlogNotFoundError(blogID.String())
	}
	if !contains(blog.SavedBy, userID) {
		return utils.NewAppError(utils.ErrNotSaved, "Blog not saved", nil)
	}
	blog.SavedBy = remove(blog.SavedBy, userID)
	blog.SavedCount--
	if user, ok := f.users[userID]; ok && user.SavedBlogsCount > 0 {
		user.SavedBlogsCount--
	}
	f.unjournal(userID, blogID, models.InteractionBlogSave)
	return nil
}

func (f *fakeStore) sortedBlogs(filter func(*models.Blog) bool) []*models.Blog {
	blogs := make([]*models.Blog, 0, len(f.blogs))
	for _, blog := range f.blogs {
		if filter(blog) {
			clone := *blog
			blogs = append(blogs, &clone)
		}
	}
	sort.Slice(blogs, func(i, j int) bool {
		if !blogs[i].CreatedAt.Equal(blogs[j].CreatedAt) {
			return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
		}
		return blogs[i].ID.String() > blogs[j].ID.String()
	})
	return blogs
}

// blogPage mimics the store's cursor contract with the last-returned
// blog id as the opaque token.
func (f *fakeStore) blogPage(filter func(*models.Blog) bool, cursor string, pageSize int) (*database.BlogPage, error) {
	if cursor == database.TerminalCursor {
		return &database.BlogPage{Page: []*models.Blog{}, IsDone: true, ContinueCursor: database.TerminalCursor}, nil
	}
	if pageSize <= 0 {
		pageSize = database.DefaultPageSize
	}
	blogs := f.sortedBlogs(filter)

	start := 0
	if cursor != "" {
		start = len(blogs)
		for i, blog := range blogs {
			if blog.ID.String() == cursor {
				start = i + 1
				break
			}
		}
	}

	end := start + pageSize
	if end >= len(blogs) {
		return &database.BlogPage{Page: blogs[start:], IsDone: true, ContinueCursor: database.TerminalCursor}, nil
	}
	return &database.BlogPage{Page: blogs[start:end], IsDone: false, ContinueCursor: blogs[end-1].ID.String()}, nil
}

func (f *fakeStore) GetBlogsPage(_ context.Context, cursor string, pageSize int) (*database.BlogPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blogPage(func(*models.Blog) bool { return true }, cursor, pageSize)
}

func (f *fakeStore) GetUserBlogsPage(_ context.Context, ownerID uuid.UUID, cursor string, pageSize int) (*database.BlogPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blogPage(func(b *models.Blog) bool { return b.OwnerID == ownerID }, cursor, pageSize)
}

func (f *fakeStore) GetLikedBlogsPage(_ context.Context, userID uuid.UUID, cursor string, pageSize int) (*database.BlogPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blogPage(func(b *models.Blog) bool { return contains(b.LikedBy, userID) }, cursor, pageSize)
}

func (f *fakeStore) GetSavedBlogsPage(_ context.Context, userID uuid.UUID, cursor string, pageSize int) (*database.BlogPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blogPage(func(b *models.Blog) bool { return contains(b.SavedBy, userID) }, cursor, pageSize)
}

func (f *fakeStore) InsertComment(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[comment.BlogID]
	if !ok {
		return utils.NewBlogNotFoundError(comment.BlogID.String())
	}
	blog.CommentsCount++
	clone := *comment
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeStore) GetComment(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, utils.NewCommentNotFoundError(id.String())
	}
	clone := *comment
	return &clone, nil
}

func (f *fakeStore) UpdateCommentContent(_ context.Context, commentID uuid.UUID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok {
		return utils.NewCommentNotFoundError(commentID.String())
	}
	comment.Content = content
	comment.IsEdited = true
	return nil
}

func (f *fakeStore) DeleteComment(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[comment.ID]; !ok {
		return utils.NewCommentNotFoundError(comment.ID.String())
	}
	delete(f.comments, comment.ID)
	if blog, ok := f.blogs[comment.BlogID]; ok && blog.CommentsCount > 0 {
		blog.CommentsCount--
	}
	return nil
}

func (f *fakeStore) AddCommentLike(_ context.Context, commentID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok {
		return utils.NewCommentNotFoundError(commentID.String())
	}
	if contains(comment.CommentLikes, userID) {
		return utils.NewAppError(utils.ErrCommentAlreadyLike, "Comment already liked", nil)
	}
	comment.CommentLikes = append(comment.CommentLikes, userID)
	comment.CommentLikesCount++
	f.journal(userID, commentID, models.InteractionCommentLike)
	return nil
}

func (f *fakeStore) RemoveCommentLike(_ context.Context, commentID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[commentID]
	if !ok {
		return utils.NewCommentNotFoundError(commentID.String())
	}
	if !contains(comment.CommentLikes, userID) {
		return utils.NewAppError(utils.ErrCommentNotLiked, "Comment not liked", nil)
	}
	comment.CommentLikes = remove(comment.CommentLikes, userID)
	comment.CommentLikesCount--
	f.unjournal(userID, commentID, models.InteractionCommentLike)
	return nil
}

func (f *fakeStore) GetCommentsPage(_ context.Context, blogID uuid.UUID, cursor string, pageSize int) (*database.CommentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cursor == database.TerminalCursor {
		return &database.CommentPage{Page: []*models.Comment{}, IsDone: true, ContinueCursor: database.TerminalCursor}, nil
	}
	comments := make([]*models.Comment, 0)
	for _, comment := range f.comments {
		if comment.BlogID == blogID {
			clone := *comment
			if author, ok := f.users[comment.AuthorID]; ok {
				clone.AuthorName = author.Name
				clone.AuthorImage = author.DisplayImage()
			}
			comments = append(comments, &clone)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return &database.CommentPage{Page: comments, IsDone: true, ContinueCursor: database.TerminalCursor}, nil
}

func (f *fakeStore) journal(actorID, targetID uuid.UUID, kind models.InteractionKind) {
	f.interactions = append(f.interactions, &models.Interaction{
		ID:       uuid.New(),
		ActorID:  actorID,
		TargetID: targetID,
		Kind:     kind,
	})
}

func (f *fakeStore) unjournal(actorID, targetID uuid.UUID, kind models.InteractionKind) {
	kept := f.interactions[:0]
	for _, entry := range f.interactions {
		if entry.ActorID == actorID && entry.TargetID == targetID && entry.Kind == kind {
			continue
		}
		kept = append(kept, entry)
	}
	f.interactions = kept
}

func (f *fakeStore) GetInteractionsPage(_ context.Context, actorID uuid.UUID, cursor string, pageSize int) (*database.InteractionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cursor == database.TerminalCursor {
		return &database.InteractionPage{Page: []*models.Interaction{}, IsDone: true, ContinueCursor: database.TerminalCursor}, nil
	}
	entries := make([]*models.Interaction, 0)
	for _, entry := range f.interactions {
		if entry.ActorID == actorID {
			clone := *entry
			entries = append(entries, &clone)
		}
	}
	return &database.InteractionPage{Page: entries, IsDone: true, ContinueCursor: database.TerminalCursor}, nil
}
