package engine

import (
	"blogswamp/internal/database"
	"blogswamp/internal/engine/actors"
	"blogswamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine spawns the domain actors and hands their PIDs to the HTTP
// layer. One actor per entity domain serializes that domain's writes.
type Engine struct {
	userActor    *actor.PID
	blogActor    *actor.PID
	commentActor *actor.PID
}

func NewEngine(system *actor.ActorSystem, store database.Store, metrics *utils.MetricsCollector, publisher actors.ChangePublisher, blobs actors.BlobRemover) *Engine {
	context := system.Root

	userProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(store, metrics, publisher, blobs)
	})
	userPID := context.Spawn(userProps)

	blogProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewBlogActor(store, metrics, publisher, blobs)
	})
	blogPID := context.Spawn(blogProps)

	commentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(store, metrics, publisher)
	})
	commentPID := context.Spawn(commentProps)

	return &Engine{
		userActor:    userPID,
		blogActor:    blogPID,
		commentActor: commentPID,
	}
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}

// GetBlogActor returns the PID of the blog actor
func (e *Engine) GetBlogActor() *actor.PID {
	return e.blogActor
}

// GetCommentActor returns the PID of the comment actor
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}
