// internal/database/interaction_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"blogswamp/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InteractionDocument represents the MongoDB schema for one journal
// entry
type InteractionDocument struct {
	ID        string    `bson:"_id"`
	ActorID   string    `bson:"actorId"`
	TargetID  string    `bson:"targetId"`
	Kind      string    `bson:"kind"`
	CreatedAt time.Time `bson:"createdAt"`
}

func documentToInteraction(doc *InteractionDocument) (*models.Interaction, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid interaction ID in database: %v", err)
	}
	actorID, err := uuid.Parse(doc.ActorID)
	if err != nil {
		return nil, fmt.Errorf("invalid interaction actor ID in database: %v", err)
	}
	targetID, err := uuid.Parse(doc.TargetID)
	if err != nil {
		return nil, fmt.Errorf("invalid interaction target ID in database: %v", err)
	}

	return &models.Interaction{
		ID:        id,
		ActorID:   actorID,
		TargetID:  targetID,
		Kind:      models.InteractionKind(doc.Kind),
		CreatedAt: doc.CreatedAt,
	}, nil
}

// insertInteraction journals a social action inside the caller's
// transaction
func (m *MongoDB) insertInteraction(sc mongo.SessionContext, actorID, targetID uuid.UUID, kind models.InteractionKind) error {
	doc := InteractionDocument{
		ID:        uuid.New().String(),
		ActorID:   actorID.String(),
		TargetID:  targetID.String(),
		Kind:      string(kind),
		CreatedAt: time.Now(),
	}
	_, err := m.Interactions.InsertOne(sc, doc)
	return err
}

// removeInteraction drops the journal entry for an undone action.
// Nothing to delete is not an error; the membership arrays stay the
// source of truth.
func (m *MongoDB) removeInteraction(sc mongo.SessionContext, actorID, targetID uuid.UUID, kind models.InteractionKind) error {
	_, err := m.Interactions.DeleteMany(sc, bson.M{
		"actorId":  actorID.String(),
		"targetId": targetID.String(),
		"kind":     string(kind),
	})
	return err
}

// GetInteractionsPage returns one actor's journal, newest first
func (m *MongoDB) GetInteractionsPage(ctx context.Context, actorID uuid.UUID, cursor string, pageSize int) (*InteractionPage, error) {
	pageSize = clampPageSize(pageSize)

	if cursor == TerminalCursor {
		return &InteractionPage{Page: []*models.Interaction{}, IsDone: true, ContinueCursor: TerminalCursor}, nil
	}

	pc, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	base := bson.M{"actorId": actorID.String()}
	cur, err := m.Interactions.Find(ctx, cursorFilter(base, pc),
		options.Find().SetSort(pageSortOrder).SetLimit(int64(pageSize+1)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []InteractionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	isDone := len(docs) <= pageSize
	if !isDone {
		docs = docs[:pageSize]
	}

	entries := make([]*models.Interaction, 0, len(docs))
	for i := range docs {
		entry, err := documentToInteraction(&docs[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	page := &InteractionPage{Page: entries, IsDone: isDone, ContinueCursor: TerminalCursor}
	if !isDone {
		last := docs[len(docs)-1]
		page.ContinueCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}
