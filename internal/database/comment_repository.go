// internal/database/comment_repository.go
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

// CommentDocument represents the MongoDB schema for a comment
type CommentDocument struct {
	ID       string `bson:"_id"`
	BlogID   string `bson:"blogId"`
	AuthorID string `bson:"authorId"`
	Content  string `bson:"content"`
	ParentID string `bson:"parentCommentId,omitempty"`

	CommentLikes      []string `bson:"commentLikes"`
	CommentLikesCount int      `bson:"commentLikesCount"`

	IsEdited  bool       `bson:"isEdited"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

func commentToDocument(comment *models.Comment) *CommentDocument {
	doc := &CommentDocument{
		ID:                comment.ID.String(),
		BlogID:            comment.BlogID.String(),
		AuthorID:          comment.AuthorID.String(),
		Content:           comment.Content,
		CommentLikes:      uuidsToStrings(comment.CommentLikes),
		CommentLikesCount: comment.CommentLikesCount,
		IsEdited:          comment.IsEdited,
		CreatedAt:         comment.CreatedAt,
		UpdatedAt:         comment.UpdatedAt,
	}
	if comment.ParentID != nil {
		doc.ParentID = comment.ParentID.String()
	}
	return doc
}

func documentToComment(doc *CommentDocument) (*models.Comment, error) {
	commentID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID in database: %v", err)
	}
	blogID, err := uuid.Parse(doc.BlogID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment blog ID in database: %v", err)
	}
	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment author ID in database: %v", err)
	}
	likes, err := stringsToUUIDs(doc.CommentLikes)
	if err != nil {
		return nil, fmt.Errorf("invalid comment like entry in database: %v", err)
	}

	comment := &models.Comment{
		ID:                commentID,
		BlogID:            blogID,
		AuthorID:          authorID,
		Content:           doc.Content,
		CommentLikes:      likes,
		CommentLikesCount: doc.CommentLikesCount,
		IsEdited:          doc.IsEdited,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
	if doc.ParentID != "" {
		parentID, err := uuid.Parse(doc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("invalid comment parent ID in database: %v", err)
		}
		comment.ParentID = &parentID
	}
	return comment, nil
}

// InsertComment creates a comment and bumps the blog's commentsCount
// in the same transaction. A vanished blog fails the whole write.
func (m *MongoDB) InsertComment(ctx context.Context, comment *models.Comment) error {
	doc := commentToDocument(comment)

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Blogs.UpdateOne(sc,
			bson.M{"_id": doc.BlogID},
			bson.M{"$inc": bson.M{"commentsCount": 1}},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return utils.NewBlogNotFoundError(doc.BlogID)
		}

		_, err = m.Comments.InsertOne(sc, doc)
		return err
	})
}

// GetComment retrieves a comment by its ID
func (m *MongoDB) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var doc CommentDocument

	err := m.Comments.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewCommentNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}

	return documentToComment(&doc)
}

// UpdateCommentContent replaces a comment's text and marks it edited.
// Ownership is checked by the caller.
func (m *MongoDB) UpdateCommentContent(ctx context.Context, commentID uuid.UUID, content string) error {
	now := time.Now()
	result, err := m.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID.String()},
		bson.M{"$set": bson.M{"content": content, "isEdited": true, "updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewCommentNotFoundError(commentID.String())
	}
	return nil
}

// DeleteComment removes a comment, rolls the blog's commentsCount
// back, and clears the comment's like journal entries. The caller
// passes the loaded comment so the cleanup knows the blog without a
// second read.
func (m *MongoDB) DeleteComment(ctx context.Context, comment *models.Comment) error {
	commentID := comment.ID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Comments.DeleteOne(sc, bson.M{"_id": commentID})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return utils.NewCommentNotFoundError(commentID)
		}

		_, err = m.Blogs.UpdateOne(sc,
			bson.M{"_id": comment.BlogID.String(), "commentsCount": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"commentsCount": -1}},
		)
		if err != nil {
			return err
		}

		_, err = m.Interactions.DeleteMany(sc, bson.M{"targetId": commentID})
		return err
	})
}

// AddCommentLike adds the user to the comment's like set, bumping the
// count in the same guarded update, and journals the interaction
func (m *MongoDB) AddCommentLike(ctx context.Context, commentID, userID uuid.UUID) error {
	comment := commentID.String()
	user := userID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Comments.UpdateOne(sc,
			bson.M{"_id": comment, "commentLikes": bson.M{"$ne": user}},
			bson.M{
				"$addToSet": bson.M{"commentLikes": user},
				"$inc":      bson.M{"commentLikesCount": 1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Comments.FindOne(sc, bson.M{"_id": comment}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewCommentNotFoundError(comment)
			}
			return utils.NewAppError(utils.ErrCommentAlreadyLike, "Comment already liked", nil)
		}

		return m.insertInteraction(sc, userID, commentID, models.InteractionCommentLike)
	})
}

// RemoveCommentLike is the inverse of AddCommentLike
func (m *MongoDB) RemoveCommentLike(ctx context.Context, commentID, userID uuid.UUID) error {
	comment := commentID.String()
	user := userID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Comments.UpdateOne(sc,
			bson.M{"_id": comment, "commentLikes": user},
			bson.M{
				"$pull": bson.M{"commentLikes": user},
				"$inc":  bson.M{"commentLikesCount": -1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Comments.FindOne(sc, bson.M{"_id": comment}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewCommentNotFoundError(comment)
			}
			return utils.NewAppError(utils.ErrCommentNotLiked, "Comment not liked", nil)
		}

		return m.removeInteraction(sc, userID, commentID, models.InteractionCommentLike)
	})
}

// GetCommentsPage returns a page of a blog's comments, newest first,
// with author name and image joined in from the user collection
func (m *MongoDB) GetCommentsPage(ctx context.Context, blogID uuid.UUID, cursor string, pageSize int) (*CommentPage, error) {
	pageSize = clampPageSize(pageSize)

	if cursor == TerminalCursor {
		return &CommentPage{Page: []*models.Comment{}, IsDone: true, ContinueCursor: TerminalCursor}, nil
	}

	pc, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	base := bson.M{"blogId": blogID.String()}
	cur, err := m.Comments.Find(ctx, cursorFilter(base, pc),
		options.Find().SetSort(pageSortOrder).SetLimit(int64(pageSize+1)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []CommentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	isDone := len(docs) <= pageSize
	if !isDone {
		docs = docs[:pageSize]
	}

	comments := make([]*models.Comment, 0, len(docs))
	authorIDs := make([]uuid.UUID, 0, len(docs))
	seen := make(map[uuid.UUID]bool, len(docs))
	for i := range docs {
		comment, err := documentToComment(&docs[i])
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
		if !seen[comment.AuthorID] {
			seen[comment.AuthorID] = true
			authorIDs = append(authorIDs, comment.AuthorID)
		}
	}

	refs, err := m.GetUserRefs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.UserRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}
	for _, comment := range comments {
		if ref, ok := byID[comment.AuthorID]; ok {
			comment.AuthorName = ref.Name
			comment.AuthorImage = ref.Image
		}
	}

	page := &CommentPage{Page: comments, IsDone: isDone, ContinueCursor: TerminalCursor}
	if !isDone {
		last := docs[len(docs)-1]
		page.ContinueCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}
