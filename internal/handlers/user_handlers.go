package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"blogswamp/internal/engine/actors"
	"blogswamp/internal/middleware"
	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	"github.com/google/uuid"
)

// RegisterUserRequest represents a request to register a new user
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the token issued after registration or login
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	UserID  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RoleRequest represents an admin request to change a user's role
type RoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// FollowRequest represents a follow or unfollow request
type FollowRequest struct {
	TargetID string `json:"targetId"`
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserActor(), &actors.RegisterUserMsg{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			s.respond(w, nil, err)
			return
		}

		user, ok := result.(*models.User)
		if !ok {
			s.respond(w, result, nil)
			return
		}

		token, err := middleware.GenerateToken(user.ID)
		if err != nil {
			log.Printf("HTTP Handler: Failed to generate token: %v", err)
			s.respond(w, nil, utils.NewAppError(utils.ErrDatabase, "Failed to issue token", err))
			return
		}

		s.Metrics.IncrementRequests()
		writeJSON(w, http.StatusCreated, &AuthResponse{
			Success: true,
			Token:   token,
			UserID:  user.ID.String(),
		})
	}
}

// HandleUserLogin handles requests to log in a user
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.ask(s.Engine.GetUserActor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			s.respond(w, nil, err)
			return
		}

		user, ok := result.(*models.User)
		if !ok {
			s.respond(w, result, nil)
			return
		}

		token, err := middleware.GenerateToken(user.ID)
		if err != nil {
			log.Printf("HTTP Handler: Failed to generate token: %v", err)
			s.respond(w, nil, utils.NewAppError(utils.ErrDatabase, "Failed to issue token", err))
			return
		}

		s.respond(w, &AuthResponse{
			Success: true,
			Token:   token,
			UserID:  user.ID.String(),
		}, nil)
	}
}

// HandleCheckEmail reports whether an email is already registered
func (s *Server) HandleCheckEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		result, err := s.ask(s.Engine.GetUserActor(), &actors.CheckEmailMsg{
			Email: r.URL.Query().Get("email"),
		})
		s.respond(w, result, err)
	}
}

// HandleUserProfile serves profile reads and owner-only updates
func (s *Server) HandleUserProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, _ := middleware.GetUserIDFromContext(r.Context())

		switch r.Method {
		case http.MethodGet:
			userID := requesterID
			if raw := r.URL.Query().Get("userId"); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					http.Error(w, "Invalid user ID format", http.StatusBadRequest)
					return
				}
				userID = parsed
			}

			result, err := s.ask(s.Engine.GetUserActor(), &actors.GetProfileMsg{
				UserID:      userID,
				RequesterID: requesterID,
			})
			s.respond(w, result, err)

		case http.MethodPut:
			var patch models.ProfilePatch
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, err := s.ask(s.Engine.GetUserActor(), &actors.UpdateProfileMsg{
				UserID: requesterID,
				Patch:  &patch,
			})
			s.respond(w, result, err)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleUserRole handles admin role changes
func (s *Server) HandleUserRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		adminID, _ := middleware.GetUserIDFromContext(r.Context())

		var req RoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		targetID, err := uuid.Parse(req.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.GetUserActor(), &actors.UpdateRoleMsg{
			AdminID:  adminID,
			TargetID: targetID,
			Role:     models.Role(req.Role),
		})
		s.respond(w, result, askErr)
	}
}

// HandleFollow handles follow (POST), unfollow (DELETE) and
// follow-state reads (GET ?targetId=).
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, _ := middleware.GetUserIDFromContext(r.Context())

		if r.Method == http.MethodGet {
			targetID, err := uuid.Parse(r.URL.Query().Get("targetId"))
			if err != nil {
				http.Error(w, "Invalid target ID format", http.StatusBadRequest)
				return
			}
			result, askErr := s.ask(s.Engine.GetUserActor(), &actors.FollowStateMsg{
				UserID:   followerID,
				TargetID: targetID,
			})
			s.respond(w, result, askErr)
			return
		}

		var req FollowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		targetID, err := uuid.Parse(req.TargetID)
		if err != nil {
			http.Error(w, "Invalid target ID format", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodPost:
			result, askErr := s.ask(s.Engine.GetUserActor(), &actors.FollowUserMsg{
				FollowerID: followerID,
				TargetID:   targetID,
			})
			s.respond(w, result, askErr)

		case http.MethodDelete:
			result, askErr := s.ask(s.Engine.GetUserActor(), &actors.UnfollowUserMsg{
				FollowerID: followerID,
				TargetID:   targetID,
			})
			s.respond(w, result, askErr)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleFollowers pages through the users following the given user
func (s *Server) HandleFollowers() http.HandlerFunc {
	return s.handleUserListing(func(userID uuid.UUID, cursor string, pageSize int) interface{} {
		return &actors.GetFollowersMsg{UserID: userID, Cursor: cursor, PageSize: pageSize}
	})
}

// HandleFollowing pages through the users the given user follows
func (s *Server) HandleFollowing() http.HandlerFunc {
	return s.handleUserListing(func(userID uuid.UUID, cursor string, pageSize int) interface{} {
		return &actors.GetFollowingMsg{UserID: userID, Cursor: cursor, PageSize: pageSize}
	})
}

func (s *Server) handleUserListing(buildMsg func(uuid.UUID, string, int) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, _ := middleware.GetUserIDFromContext(r.Context())
		if raw := r.URL.Query().Get("userId"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "Invalid user ID format", http.StatusBadRequest)
				return
			}
			userID = parsed
		}

		cursor, pageSize := pageParams(r)
		result, err := s.ask(s.Engine.GetUserActor(), buildMsg(userID, cursor, pageSize))
		s.respond(w, result, err)
	}
}

// HandleInteractions pages through the requester's interaction journal
func (s *Server) HandleInteractions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, _ := middleware.GetUserIDFromContext(r.Context())
		cursor, pageSize := pageParams(r)

		result, err := s.ask(s.Engine.GetUserActor(), &actors.GetInteractionsMsg{
			UserID:   userID,
			Cursor:   cursor,
			PageSize: pageSize,
		})
		s.respond(w, result, err)
	}
}
