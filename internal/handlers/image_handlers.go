package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"blogswamp/internal/middleware"

	"github.com/google/uuid"
)

// Uploads larger than this are rejected before touching the bucket.
const maxImageSize = 8 << 20 // 8 MiB

// ImageUploadResponse returns the ID callers store in their profile or
// blog document
type ImageUploadResponse struct {
	ImageID string `json:"imageId"`
}

// HandleImageUpload accepts one multipart image and stores it in the
// GridFS bucket
func (s *Server) HandleImageUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, _ := middleware.GetUserIDFromContext(r.Context())
		if userID == uuid.Nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
		if err := r.ParseMultipartForm(maxImageSize); err != nil {
			http.Error(w, "Image too large or malformed upload", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "Missing image file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			http.Error(w, "Only image uploads are accepted", http.StatusBadRequest)
			return
		}

		imageID := uuid.New().String()
		if err := s.Images.Upload(imageID, header.Filename, contentType, file); err != nil {
			log.Printf("HTTP Handler: Image upload failed for user %s: %v", userID, err)
			writeError(w, err)
			return
		}

		s.Metrics.IncrementRequests()
		writeJSON(w, http.StatusCreated, &ImageUploadResponse{ImageID: imageID})
	}
}

// HandleImageDownload streams a stored image by ID
func (s *Server) HandleImageDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		imageID := strings.TrimPrefix(r.URL.Path, "/images/")
		if imageID == "" || strings.Contains(imageID, "/") {
			http.Error(w, "Invalid image ID", http.StatusBadRequest)
			return
		}

		stream, contentType, err := s.Images.Open(imageID)
		if err != nil {
			writeError(w, err)
			return
		}
		defer stream.Close()

		w.Header().Set("Content-Type", contentType)
		if _, err := io.Copy(w, stream); err != nil {
			log.Printf("HTTP Handler: Image stream interrupted for %s: %v", imageID, err)
		}
	}
}
