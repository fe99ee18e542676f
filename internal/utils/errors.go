package utils

import "fmt"

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"
	ErrInvalidInput = "INVALID_INPUT"

	// Authentication/Authorization errors
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrForbidden       = "FORBIDDEN" // Caller is authenticated but doesn't own the target
	ErrInvalidToken    = "INVALID_TOKEN"

	// User-specific errors
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrUserAlreadyExists  = "USER_ALREADY_EXISTS"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// Blog/comment resource errors
	ErrBlogNotFound    = "BLOG_NOT_FOUND"
	ErrCommentNotFound = "COMMENT_NOT_FOUND"

	// State-transition errors: the requested toggle does not match the
	// current membership state. Strict policy, applied uniformly.
	ErrAlreadyFollowing   = "ALREADY_FOLLOWING"
	ErrNotFollowing       = "NOT_FOLLOWING"
	ErrAlreadyLiked       = "ALREADY_LIKED"
	ErrNotLiked           = "NOT_LIKED"
	ErrAlreadySaved       = "ALREADY_SAVED"
	ErrNotSaved           = "NOT_SAVED"
	ErrCommentAlreadyLike = "COMMENT_ALREADY_LIKED"
	ErrCommentNotLiked    = "COMMENT_NOT_LIKED"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"

	ErrDatabase = "DATABASE_ERROR"
)

// Error creation helper functions
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewUserNotFoundError(userID string) *AppError {
	return &AppError{
		Code:    ErrUserNotFound,
		Message: "User not found: " + userID,
	}
}

func NewUnauthenticatedError(reason string) *AppError {
	return &AppError{
		Code:    ErrUnauthenticated,
		Message: "Not authenticated: " + reason,
	}
}

func NewForbiddenError(reason string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: "Forbidden: " + reason,
	}
}

func NewBlogNotFoundError(blogID string) *AppError {
	return &AppError{
		Code:    ErrBlogNotFound,
		Message: "Blog not found: " + blogID,
	}
}

func NewCommentNotFoundError(commentID string) *AppError {
	return &AppError{
		Code:    ErrCommentNotFound,
		Message: "Comment not found: " + commentID,
	}
}

func NewActorTimeoutError(actorName string) *AppError {
	return &AppError{
		Code:    ErrActorTimeout,
		Message: fmt.Sprintf("Actor communication timeout: %s", actorName),
	}
}

// Helper method to check if an error is of a specific type
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// IsStateError reports whether the error is a strict state-transition
// rejection (duplicate follow/like/save or their inverses).
func IsStateError(err error) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	switch appErr.Code {
	case ErrAlreadyFollowing, ErrNotFollowing,
		ErrAlreadyLiked, ErrNotLiked,
		ErrAlreadySaved, ErrNotSaved,
		ErrCommentAlreadyLike, ErrCommentNotLiked:
		return true
	}
	return false
}

// Helper method to check if an error is related to authentication
func IsAuthError(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == ErrUnauthenticated ||
			appErr.Code == ErrForbidden ||
			appErr.Code == ErrInvalidToken
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrNotFound, ErrUserNotFound, ErrBlogNotFound, ErrCommentNotFound:
		return 404 // http.StatusNotFound
	case ErrInvalidInput, ErrInvalidCredentials:
		return 400 // http.StatusBadRequest
	case ErrUnauthenticated, ErrInvalidToken:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrDuplicate, ErrUserAlreadyExists,
		ErrAlreadyFollowing, ErrNotFollowing,
		ErrAlreadyLiked, ErrNotLiked,
		ErrAlreadySaved, ErrNotSaved,
		ErrCommentAlreadyLike, ErrCommentNotLiked:
		return 409 // http.StatusConflict
	case ErrDatabase, ErrActorTimeout:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
