package handlers

import (
	"encoding/json"
	"net/http"

	"blogswamp/internal/engine/actors"
	"blogswamp/internal/middleware"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to comment on a blog
type CreateCommentRequest struct {
	BlogID          string `json:"blogId"`
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
}

// UpdateCommentRequest represents an author's edit to their comment
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentToggleRequest names the comment a like request targets
type CommentToggleRequest struct {
	CommentID string `json:"commentId"`
}

// HandleComment serves single-comment reads, edits and deletion
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, _ := middleware.GetUserIDFromContext(r.Context())

		switch r.Method {
		case http.MethodGet:
			commentID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid comment ID format", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.GetCommentMsg{CommentID: commentID})
			s.respond(w, result, askErr)

		case http.MethodPut:
			commentID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid comment ID format", http.StatusBadRequest)
				return
			}

			var req UpdateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.UpdateCommentMsg{
				EditorID:  requesterID,
				CommentID: commentID,
				Content:   req.Content,
			})
			s.respond(w, result, askErr)

		case http.MethodDelete:
			commentID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid comment ID format", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.DeleteCommentMsg{
				RequesterID: requesterID,
				CommentID:   commentID,
			})
			s.respond(w, result, askErr)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleCommentLike toggles a comment like on (POST) or off (DELETE),
// and reports the requester's like/ownership state (GET ?id=)
func (s *Server) HandleCommentLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())

		if r.Method == http.MethodGet {
			commentID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid comment ID format", http.StatusBadRequest)
				return
			}
			result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.CommentStateMsg{
				UserID:    userID,
				CommentID: commentID,
			})
			s.respond(w, result, askErr)
			return
		}

		var req CommentToggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		commentID, err := uuid.Parse(req.CommentID)
		if err != nil {
			http.Error(w, "Invalid comment ID format", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodPost:
			result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.LikeCommentMsg{
				UserID:    userID,
				CommentID: commentID,
			})
			s.respond(w, result, askErr)
		case http.MethodDelete:
			result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.UnlikeCommentMsg{
				UserID:    userID,
				CommentID: commentID,
			})
			s.respond(w, result, askErr)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleComments creates comments (POST) and pages through a blog's
// comments (GET)
func (s *Server) HandleComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			blogID, err := uuid.Parse(r.URL.Query().Get("blogId"))
			if err != nil {
				http.Error(w, "Invalid blog ID format", http.StatusBadRequest)
				return
			}

			cursor, pageSize := pageParams(r)
			result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.ListCommentsMsg{
				BlogID:   blogID,
				Cursor:   cursor,
				PageSize: pageSize,
			})
			s.respond(w, result, askErr)

		case http.MethodPost:
			authorID, _ := middleware.GetUserIDFromContext(r.Context())

			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			blogID, err := uuid.Parse(req.BlogID)
			if err != nil {
				http.Error(w, "Invalid blog ID format", http.StatusBadRequest)
				return
			}

			var parentID *uuid.UUID
			if req.ParentCommentID != "" {
				parsed, err := uuid.Parse(req.ParentCommentID)
				if err != nil {
					http.Error(w, "Invalid parent comment ID format", http.StatusBadRequest)
					return
				}
				parentID = &parsed
			}

			result, askErr := s.ask(s.Engine.GetCommentActor(), &actors.CreateCommentMsg{
				AuthorID: authorID,
				BlogID:   blogID,
				Content:  req.Content,
				ParentID: parentID,
			})
			s.respond(w, result, askErr)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
