// internal/database/blog_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlogDocument represents the MongoDB schema for a blog post
type BlogDocument struct {
	ID      string   `bson:"_id"`
	OwnerID string   `bson:"ownerId"`
	Title   string   `bson:"title"`
	Content string   `bson:"content"`
	Tags    []string `bson:"tags"`

	CustomImageURL  string `bson:"customImageUrl,omitempty"`
	UploadedImageID string `bson:"uploadedImageId,omitempty"`

	LikesCount    int `bson:"likesCount"`
	SavedCount    int `bson:"savedCount"`
	CommentsCount int `bson:"commentsCount"`

	LikedBy []string `bson:"likedBy"`
	SavedBy []string `bson:"savedBy"`

	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

func blogToDocument(blog *models.Blog) *BlogDocument {
	tags := blog.Tags
	if tags == nil {
		tags = []string{}
	}
	return &BlogDocument{
		ID:              blog.ID.String(),
		OwnerID:         blog.OwnerID.String(),
		Title:           blog.Title,
		Content:         blog.Content,
		Tags:            tags,
		CustomImageURL:  blog.CustomImageURL,
		UploadedImageID: blog.UploadedImageID,
		LikesCount:      blog.LikesCount,
		SavedCount:      blog.SavedCount,
		CommentsCount:   blog.CommentsCount,
		LikedBy:         uuidsToStrings(blog.LikedBy),
		SavedBy:         uuidsToStrings(blog.SavedBy),
		CreatedAt:       blog.CreatedAt,
		UpdatedAt:       blog.UpdatedAt,
	}
}

func documentToBlog(doc *BlogDocument) (*models.Blog, error) {
	blogID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID in database: %v", err)
	}
	ownerID, err := uuid.Parse(doc.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog owner ID in database: %v", err)
	}
	likedBy, err := stringsToUUIDs(doc.LikedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid likedBy entry in database: %v", err)
	}
	savedBy, err := stringsToUUIDs(doc.SavedBy)
	if err != nil {
		return nil, fmt.Errorf("invalid savedBy entry in database: %v", err)
	}

	return &models.Blog{
		ID:              blogID,
		OwnerID:         ownerID,
		Title:           doc.Title,
		Content:         doc.Content,
		Tags:            doc.Tags,
		CustomImageURL:  doc.CustomImageURL,
		UploadedImageID: doc.UploadedImageID,
		LikesCount:      doc.LikesCount,
		SavedCount:      doc.SavedCount,
		CommentsCount:   doc.CommentsCount,
		LikedBy:         likedBy,
		SavedBy:         savedBy,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}, nil
}

// InsertBlog creates a blog post and bumps the owner's blogsCount in
// the same transaction
func (m *MongoDB) InsertBlog(ctx context.Context, blog *models.Blog) error {
	doc := blogToDocument(blog)

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Users.UpdateOne(sc,
			bson.M{"_id": doc.OwnerID},
			bson.M{"$inc": bson.M{"blogsCount": 1}},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return utils.NewUserNotFoundError(doc.OwnerID)
		}

		_, err = m.Blogs.InsertOne(sc, doc)
		return err
	})
}

// GetBlog retrieves a blog post by its ID
func (m *MongoDB) GetBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var doc BlogDocument

	err := m.Blogs.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewBlogNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}

	return documentToBlog(&doc)
}

// UpdateBlog applies a partial edit and stamps updatedAt. Ownership is
// checked by the caller before this runs.
func (m *MongoDB) UpdateBlog(ctx context.Context, blogID uuid.UUID, patch *models.BlogPatch) error {
	now := time.Now()
	set := bson.M{"updatedAt": now}

	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}
	if patch.CustomImageURL != nil {
		set["customImageUrl"] = *patch.CustomImageURL
	}
	if patch.UploadedImageID != nil {
		set["uploadedImageId"] = *patch.UploadedImageID
	}

	result, err := m.Blogs.UpdateOne(ctx, bson.M{"_id": blogID.String()}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewBlogNotFoundError(blogID.String())
	}
	return nil
}

// DeleteBlog removes a blog post along with its comments and the
// interaction journal entries that point at it, and rolls the owner's
// blogsCount back. The caller passes the loaded blog so the cleanup
// knows the owner without a second read.
func (m *MongoDB) DeleteBlog(ctx context.Context, blog *models.Blog) error {
	blogID := blog.ID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Blogs.DeleteOne(sc, bson.M{"_id": blogID})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return utils.NewBlogNotFoundError(blogID)
		}

		// Comment-like journal entries target comment IDs, so collect
		// them before the comments go.
		commentIDs, err := m.Comments.Distinct(sc, "_id", bson.M{"blogId": blogID})
		if err != nil {
			return err
		}
		if _, err := m.Comments.DeleteMany(sc, bson.M{"blogId": blogID}); err != nil {
			return err
		}

		targets := make([]string, 0, len(commentIDs)+1)
		targets = append(targets, blogID)
		for _, id := range commentIDs {
			if s, ok := id.(string); ok {
				targets = append(targets, s)
			}
		}
		if _, err := m.Interactions.DeleteMany(sc, bson.M{"targetId": bson.M{"$in": targets}}); err != nil {
			return err
		}

		_, err = m.Users.UpdateOne(sc,
			bson.M{"_id": blog.OwnerID.String(), "blogsCount": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"blogsCount": -1}},
		)
		return err
	})
}

// AddBlogLike adds the user to the blog's likedBy set, bumping
// likesCount in the same guarded update, then mirrors the change on
// the user's likedBlogsCount and journals the interaction.
func (m *MongoDB) AddBlogLike(ctx context.Context, blogID, userID uuid.UUID) error {
	blog := blogID.String()
	user := userID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Blogs.UpdateOne(sc,
			bson.M{"_id": blog, "likedBy": bson.M{"$ne": user}},
			bson.M{
				"$addToSet": bson.M{"likedBy": user},
				"$inc":      bson.M{"likesCount": 1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Blogs.FindOne(sc, bson.M{"_id": blog}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewBlogNotFoundError(blog)
			}
			return utils.NewAppError(utils.ErrAlreadyLiked, "Blog already liked", nil)
		}

		if err := m.incUserCounter(sc, user, "likedBlogsCount", 1); err != nil {
			return err
		}

		return m.insertInteraction(sc, userID, blogID, models.InteractionBlogLike)
	})
}

// RemoveBlogLike is the inverse of AddBlogLike
func (m *MongoDB) RemoveBlogLike(ctx context.Context, blogID, userID uuid.UUID) error {
	blog := blogID.String()
	user := userID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Blogs.UpdateOne(sc,
			bson.M{"_id": blog, "likedBy": user},
			bson.M{
				"$pull": bson.M{"likedBy": user},
				"$inc":  bson.M{"likesCount": -1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Blogs.FindOne(sc, bson.M{"_id": blog}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewBlogNotFoundError(blog)
			}
			return utils.NewAppError(utils.ErrNotLiked, "Blog not liked", nil)
		}

		if err := m.incUserCounter(sc, user, "likedBlogsCount", -1); err != nil {
			return err
		}

		return m.removeInteraction(sc, userID, blogID, models.InteractionBlogLike)
	})
}

// AddBlogSave adds the user to the blog's savedBy set with the same
// shape as AddBlogLike
func (m *MongoDB) AddBlogSave(ctx context.Context, blogID, userID uuid.UUID) error {
	blog := blogID.String()
	user := userID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Blogs.UpdateOne(sc,
			bson.M{"_id": blog, "savedBy": bson.M{"$ne": user}},
			bson.M{
				"$addToSet": bson.M{"savedBy": user},
				"$inc":      bson.M{"savedCount": 1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Blogs.FindOne(sc, bson.M{"_id": blog}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewBlogNotFoundError(blog)
			}
			return utils.NewAppError(utils.ErrAlreadySaved, "Blog already saved", nil)
		}

		if err := m.incUserCounter(sc, user, "savedBlogsCount", 1); err != nil {
			return err
		}

		return m.insertInteraction(sc, userID, blogID, models.InteractionBlogSave)
	})
}

// RemoveBlogSave is the inverse of AddBlogSave
func (m *MongoDB) RemoveBlogSave(ctx context.Context, blogID, userID uuid.UUID) error {
	blog := blogID.String()
	user := userID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Blogs.UpdateOne(sc,
			bson.M{"_id": blog, "savedBy": user},
			bson.M{
				"$pull": bson.M{"savedBy": user},
				"$inc":  bson.M{"savedCount": -1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Blogs.FindOne(sc, bson.M{"_id": blog}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewBlogNotFoundError(blog)
			}
			return utils.NewAppError(utils.ErrNotSaved, "Blog not saved", nil)
		}

		if err := m.incUserCounter(sc, user, "savedBlogsCount", -1); err != nil {
			return err
		}

		return m.removeInteraction(sc, userID, blogID, models.InteractionBlogSave)
	})
}

// incUserCounter adjusts a user-side mirror counter. Decrements stop
// at zero rather than going negative.
func (m *MongoDB) incUserCounter(sc mongo.SessionContext, userID, field string, delta int) error {
	filter := bson.M{"_id": userID}
	if delta < 0 {
		filter[field] = bson.M{"$gt": 0}
	}

	result, err := m.Users.UpdateOne(sc, filter, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && delta > 0 {
		return utils.NewUserNotFoundError(userID)
	}
	return nil
}

// GetBlogsPage returns a page of the global feed, newest first
func (m *MongoDB) GetBlogsPage(ctx context.Context, cursor string, pageSize int) (*BlogPage, error) {
	return m.blogsPage(ctx, bson.M{}, cursor, pageSize)
}

// GetUserBlogsPage returns a page of one author's blogs, newest first
func (m *MongoDB) GetUserBlogsPage(ctx context.Context, ownerID uuid.UUID, cursor string, pageSize int) (*BlogPage, error) {
	return m.blogsPage(ctx, bson.M{"ownerId": ownerID.String()}, cursor, pageSize)
}

// GetLikedBlogsPage returns a page of blogs whose likedBy set contains
// the user
func (m *MongoDB) GetLikedBlogsPage(ctx context.Context, userID uuid.UUID, cursor string, pageSize int) (*BlogPage, error) {
	return m.blogsPage(ctx, bson.M{"likedBy": userID.String()}, cursor, pageSize)
}

// GetSavedBlogsPage returns a page of blogs whose savedBy set contains
// the user
func (m *MongoDB) GetSavedBlogsPage(ctx context.Context, userID uuid.UUID, cursor string, pageSize int) (*BlogPage, error) {
	return m.blogsPage(ctx, bson.M{"savedBy": userID.String()}, cursor, pageSize)
}

func (m *MongoDB) blogsPage(ctx context.Context, base bson.M, cursor string, pageSize int) (*BlogPage, error) {
	pageSize = clampPageSize(pageSize)

	if cursor == TerminalCursor {
		return &BlogPage{Page: []*models.Blog{}, IsDone: true, ContinueCursor: TerminalCursor}, nil
	}

	pc, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	// One extra row tells us whether another page exists.
	cur, err := m.Blogs.Find(ctx, cursorFilter(base, pc),
		options.Find().SetSort(pageSortOrder).SetLimit(int64(pageSize+1)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []BlogDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	isDone := len(docs) <= pageSize
	if !isDone {
		docs = docs[:pageSize]
	}

	blogs := make([]*models.Blog, 0, len(docs))
	for i := range docs {
		blog, err := documentToBlog(&docs[i])
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	page := &BlogPage{Page: blogs, IsDone: isDone, ContinueCursor: TerminalCursor}
	if !isDone {
		last := docs[len(docs)-1]
		page.ContinueCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}
