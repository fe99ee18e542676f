package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"blogswamp/internal/database"
	"blogswamp/internal/engine"
	"blogswamp/internal/middleware"
	"blogswamp/internal/storage"
	"blogswamp/internal/utils"
	"blogswamp/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	MongoDB        *database.MongoDB
	Images         *storage.ImageStore
	Hub            *websocket.Hub
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	mongodb *database.MongoDB,
	images *storage.ImageStore,
	hub *websocket.Hub,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		MongoDB:        mongodb,
		Images:         images,
		Hub:            hub,
		RequestTimeout: 5 * time.Second,
	}
}

// RegisterRoutes wires every endpoint into the mux with CORS and JWT
// middleware applied
func (s *Server) RegisterRoutes(mux *http.ServeMux, cors *middleware.CORSConfig, metricsEnabled bool) {
	register := func(path string, handler http.HandlerFunc) {
		mux.HandleFunc(path, middleware.ApplyCORS(middleware.ApplyJWTMiddleware(handler, path), cors))
	}

	register("/health", s.HandleHealth())
	if metricsEnabled {
		register("/metrics", s.HandleMetrics())
	}

	register("/user/register", s.HandleUserRegistration())
	register("/user/login", s.HandleUserLogin())
	register("/user/check-email", s.HandleCheckEmail())
	register("/user/profile", s.HandleUserProfile())
	register("/user/role", s.HandleUserRole())
	register("/user/follow", s.HandleFollow())
	register("/user/followers", s.HandleFollowers())
	register("/user/following", s.HandleFollowing())
	register("/user/interactions", s.HandleInteractions())

	register("/blog", s.HandleBlog())
	register("/blog/like", s.HandleBlogLike())
	register("/blog/save", s.HandleBlogSave())
	register("/blogs", s.HandleBlogFeed())
	register("/blogs/user", s.HandleUserBlogs())
	register("/blogs/liked", s.HandleLikedBlogs())
	register("/blogs/saved", s.HandleSavedBlogs())

	register("/comment", s.HandleComment())
	register("/comment/like", s.HandleCommentLike())
	register("/comments", s.HandleComments())

	register("/images", s.HandleImageUpload())
	register("/images/", s.HandleImageDownload())

	register("/ws", s.HandleWebSocket())
}

// ask forwards one message to an actor and waits for its reply
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError(pid.String())
	}
	return result, nil
}

// respond writes the actor's reply, translating AppErrors to their
// HTTP status
func (s *Server) respond(w http.ResponseWriter, result interface{}, err error) {
	s.Metrics.IncrementRequests()
	if err == nil {
		if appErr, ok := result.(*utils.AppError); ok {
			err = appErr
		}
	}
	if err != nil {
		s.Metrics.IncrementErrors()
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("HTTP Handler: Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*utils.AppError)
	if !ok {
		appErr = utils.NewAppError(utils.ErrDatabase, "Internal server error", err)
	}
	writeJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]string{
		"code":  appErr.Code,
		"error": appErr.Message,
	})
}
