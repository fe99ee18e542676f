package models

import (
	"time"

	"github.com/google/uuid"
)

// InteractionKind discriminates journal entries.
type InteractionKind string

const (
	InteractionFollow      InteractionKind = "follow"
	InteractionBlogLike    InteractionKind = "blog_like"
	InteractionBlogSave    InteractionKind = "blog_save"
	InteractionCommentLike InteractionKind = "comment_like"
)

// Interaction is a journal record of one social action, written
// alongside the paired counter/array update. It gives bidirectional
// indexed lookup (by actor and by target) without scanning the
// membership arrays.
type Interaction struct {
	ID        uuid.UUID       `json:"id"`
	ActorID   uuid.UUID       `json:"actorId"`
	TargetID  uuid.UUID       `json:"targetId"`
	Kind      InteractionKind `json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`
}
