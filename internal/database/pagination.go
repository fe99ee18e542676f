// internal/database/pagination.go
package database

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// TerminalCursor is the continuation token returned with the last page.
// Paging with it returns an empty done page deterministically; an empty
// cursor starts from the head.
const TerminalCursor = "~end~"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// BlogPage is one forward-only page of blogs, latest first.
type BlogPage struct {
	Page           []*models.Blog `json:"page"`
	IsDone         bool           `json:"isDone"`
	ContinueCursor string         `json:"continueCursor"`
}

// CommentPage is one forward-only page of comments, latest first.
type CommentPage struct {
	Page           []*models.Comment `json:"page"`
	IsDone         bool              `json:"isDone"`
	ContinueCursor string            `json:"continueCursor"`
}

// InteractionPage is one forward-only page of journal entries.
type InteractionPage struct {
	Page           []*models.Interaction `json:"page"`
	IsDone         bool                  `json:"isDone"`
	ContinueCursor string                `json:"continueCursor"`
}

// UserRefPage is one forward-only page of user projections.
type UserRefPage struct {
	Page           []models.UserRef `json:"page"`
	IsDone         bool             `json:"isDone"`
	ContinueCursor string           `json:"continueCursor"`
}

// pageCursor pins a position in the (createdAt desc, _id desc) order.
// Insertion-time ordering keeps already-returned pages stable under
// concurrent inserts: new rows sort before every handed-out cursor.
type pageCursor struct {
	CreatedAt int64  `json:"t"` // unix nanoseconds
	ID        string `json:"id"`
}

func encodeCursor(createdAt time.Time, id string) string {
	raw, _ := json.Marshal(pageCursor{CreatedAt: createdAt.UnixNano(), ID: id})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor returns nil for the head-of-collection cursor.
func decodeCursor(cursor string) (*pageCursor, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "malformed pagination cursor", err)
	}
	var pc pageCursor
	if err := json.Unmarshal(raw, &pc); err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "malformed pagination cursor", err)
	}
	return &pc, nil
}

// clampPageSize applies the default and upper bound.
func clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

// cursorFilter extends a base filter so the query resumes strictly
// after the cursor position in (createdAt desc, _id desc) order.
func cursorFilter(base bson.M, pc *pageCursor) bson.M {
	if pc == nil {
		return base
	}
	at := time.Unix(0, pc.CreatedAt)
	resume := bson.M{"$or": bson.A{
		bson.M{"createdAt": bson.M{"$lt": at}},
		bson.M{"createdAt": at, "_id": bson.M{"$lt": pc.ID}},
	}}
	if len(base) == 0 {
		return resume
	}
	return bson.M{"$and": bson.A{base, resume}}
}

// pageSortOrder is the stable feed order: newest first, id as tiebreak.
var pageSortOrder = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
