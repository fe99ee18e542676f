package models

import "github.com/google/uuid"

// Role controls role-gated operations. Only admins may change another
// user's role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser || r == RoleMember
}

// ImagePreference selects which of the two display-image fields a
// profile or blog presents: an external URL or an uploaded blob.
type ImagePreference string

const (
	ImageCustom   ImagePreference = "custom"
	ImageUploaded ImagePreference = "uploaded"
)

func (p ImagePreference) Valid() bool {
	return p == ImageCustom || p == ImageUploaded
}

// MessagePrivacy restricts who may message a user.
type MessagePrivacy string

const (
	MessagesFromEveryone  MessagePrivacy = "everyone"
	MessagesFromFollowers MessagePrivacy = "followers"
	MessagesFromNone      MessagePrivacy = "none"
)

func (p MessagePrivacy) Valid() bool {
	return p == MessagesFromEveryone || p == MessagesFromFollowers || p == MessagesFromNone
}

// StatusResponse is the generic success payload for mutations that
// return no entity.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// EmailCheck answers a pre-registration availability probe.
type EmailCheck struct {
	Exists bool `json:"exists"`
}

// FollowState answers "does this user follow that one".
type FollowState struct {
	Following bool `json:"following"`
}

// BlogState answers the requester's relationship to a blog.
type BlogState struct {
	Liked bool `json:"liked"`
	Saved bool `json:"saved"`
}

// CommentState answers the requester's relationship to a comment.
type CommentState struct {
	Liked bool `json:"liked"`
	Owner bool `json:"owner"`
}

// UserRef is the lightweight user projection joined into follower
// listings and comment pages.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
}
