package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"blogswamp/internal/engine/actors"
	"blogswamp/internal/middleware"
	"blogswamp/internal/models"

	"github.com/google/uuid"
)

// CreateBlogRequest represents a request to publish a new blog post
type CreateBlogRequest struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Tags            []string `json:"tags"`
	CustomImageURL  string   `json:"customImageUrl"`
	UploadedImageID string   `json:"uploadedImageId"`
}

// BlogToggleRequest names the blog a like or save request targets
type BlogToggleRequest struct {
	BlogID string `json:"blogId"`
}

func pageParams(r *http.Request) (string, int) {
	cursor := r.URL.Query().Get("cursor")
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return cursor, pageSize
}

// HandleBlog serves single-blog reads, creation, edits and deletion
func (s *Server) HandleBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, _ := middleware.GetUserIDFromContext(r.Context())

		switch r.Method {
		case http.MethodGet:
			blogID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid blog ID format", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.GetBlogActor(), &actors.GetBlogMsg{BlogID: blogID})
			s.respond(w, result, askErr)

		case http.MethodPost:
			var req CreateBlogRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.GetBlogActor(), &actors.CreateBlogMsg{
				OwnerID:         requesterID,
				Title:           req.Title,
				Content:         req.Content,
				Tags:            req.Tags,
				CustomImageURL:  req.CustomImageURL,
				UploadedImageID: req.UploadedImageID,
			})
			s.respond(w, result, askErr)

		case http.MethodPut:
			blogID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid blog ID format", http.StatusBadRequest)
				return
			}

			var patch models.BlogPatch
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.GetBlogActor(), &actors.UpdateBlogMsg{
				EditorID: requesterID,
				BlogID:   blogID,
				Patch:    &patch,
			})
			s.respond(w, result, askErr)

		case http.MethodDelete:
			blogID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid blog ID format", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.GetBlogActor(), &actors.DeleteBlogMsg{
				RequesterID: requesterID,
				BlogID:      blogID,
			})
			s.respond(w, result, askErr)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleBlogLike toggles a like on (POST) or off (DELETE); GET reports
// the requester's like/save state for the blog
func (s *Server) HandleBlogLike() http.HandlerFunc {
	return s.handleBlogToggle(
		func(userID, blogID uuid.UUID) interface{} {
			return &actors.LikeBlogMsg{UserID: userID, BlogID: blogID}
		},
		func(userID, blogID uuid.UUID) interface{} {
			return &actors.UnlikeBlogMsg{UserID: userID, BlogID: blogID}
		},
	)
}

// HandleBlogSave toggles a save on (POST) or off (DELETE)
func (s *Server) HandleBlogSave() http.HandlerFunc {
	return s.handleBlogToggle(
		func(userID, blogID uuid.UUID) interface{} {
			return &actors.SaveBlogMsg{UserID: userID, BlogID: blogID}
		},
		func(userID, blogID uuid.UUID) interface{} {
			return &actors.UnsaveBlogMsg{UserID: userID, BlogID: blogID}
		},
	)
}

func (s *Server) handleBlogToggle(onMsg, offMsg func(userID, blogID uuid.UUID) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.GetUserIDFromContext(r.Context())

		if r.Method == http.MethodGet {
			blogID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid blog ID format", http.StatusBadRequest)
				return
			}
			result, askErr := s.ask(s.Engine.GetBlogActor(), &actors.BlogStateMsg{
				UserID: userID,
				BlogID: blogID,
			})
			s.respond(w, result, askErr)
			return
		}

		var req BlogToggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		blogID, err := uuid.Parse(req.BlogID)
		if err != nil {
			http.Error(w, "Invalid blog ID format", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodPost:
			result, askErr := s.ask(s.Engine.GetBlogActor(), onMsg(userID, blogID))
			s.respond(w, result, askErr)
		case http.MethodDelete:
			result, askErr := s.ask(s.Engine.GetBlogActor(), offMsg(userID, blogID))
			s.respond(w, result, askErr)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleBlogFeed pages through the global feed, newest first
func (s *Server) HandleBlogFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		cursor, pageSize := pageParams(r)
		result, err := s.ask(s.Engine.GetBlogActor(), &actors.ListBlogsMsg{
			Cursor:   cursor,
			PageSize: pageSize,
		})
		s.respond(w, result, err)
	}
}

// HandleUserBlogs pages through one author's blogs
func (s *Server) HandleUserBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ownerID, _ := middleware.GetUserIDFromContext(r.Context())
		if raw := r.URL.Query().Get("userId"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "Invalid user ID format", http.StatusBadRequest)
				return
			}
			ownerID = parsed
		}

		cursor, pageSize := pageParams(r)
		result, err := s.ask(s.Engine.GetBlogActor(), &actors.ListUserBlogsMsg{
			OwnerID:  ownerID,
			Cursor:   cursor,
			PageSize: pageSize,
		})
		s.respond(w, result, err)
	}
}

// HandleLikedBlogs pages through the blogs the requester has liked
func (s *Server) HandleLikedBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, _ := middleware.GetUserIDFromContext(r.Context())
		cursor, pageSize := pageParams(r)
		result, err := s.ask(s.Engine.GetBlogActor(), &actors.ListLikedBlogsMsg{
			UserID:   userID,
			Cursor:   cursor,
			PageSize: pageSize,
		})
		s.respond(w, result, err)
	}
}

// HandleSavedBlogs pages through the blogs the requester has saved
func (s *Server) HandleSavedBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, _ := middleware.GetUserIDFromContext(r.Context())
		cursor, pageSize := pageParams(r)
		result, err := s.ask(s.Engine.GetBlogActor(), &actors.ListSavedBlogsMsg{
			UserID:   userID,
			Cursor:   cursor,
			PageSize: pageSize,
		})
		s.respond(w, result, err)
	}
}
