package models

import (
	"time"

	"github.com/google/uuid"
)

// User holds identity and profile attributes together with the
// denormalized social-graph state. The counter fields mirror the
// lengths of their membership arrays; every mutation of one is paired
// with the other inside a single store operation.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`

	// Profile attributes
	Bio       string `json:"bio,omitempty"`
	Location  string `json:"location,omitempty"`
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`

	// Display image: either an external URL or an uploaded blob,
	// selected by ImagePreference.
	ImagePreference ImagePreference `json:"imagePreference"`
	CustomImageURL  string          `json:"customImageUrl,omitempty"`
	UploadedImageID string          `json:"uploadedImageId,omitempty"`

	// Visibility flags, one per publicly presentable profile field
	ShowEmail      bool `json:"showEmail"`
	ShowBio        bool `json:"showBio"`
	ShowLocation   bool `json:"showLocation"`
	ShowFollowers  bool `json:"showFollowers"`
	ShowFollowing  bool `json:"showFollowing"`
	ShowPosts      bool `json:"showPosts"`
	ShowSavedPosts bool `json:"showSavedPosts"`
	ShowLikedPosts bool `json:"showLikedPosts"`
	ShowJoinedAt   bool `json:"showJoinedAt"`
	ShowLastActive bool `json:"showLastActive"`

	MessagePrivacy MessagePrivacy `json:"messagePrivacy"`

	// Denormalized counters
	FollowersCount  int `json:"followersCount"`
	FollowingCount  int `json:"followingCount"`
	BlogsCount      int `json:"blogsCount"`
	LikedBlogsCount int `json:"likedBlogsCount"`
	SavedBlogsCount int `json:"savedBlogsCount"`

	// Membership arrays. FollowingUsers holds the users this user
	// follows; FollowedUser holds the users following this user.
	FollowingUsers []uuid.UUID `json:"followingUsers"`
	FollowedUser   []uuid.UUID `json:"followedUser"`

	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

// DisplayImage resolves the image the profile presents, honoring the
// user's preference.
func (u *User) DisplayImage() string {
	if u.ImagePreference == ImageUploaded && u.UploadedImageID != "" {
		return "/images/" + u.UploadedImageID
	}
	return u.CustomImageURL
}

// Ref returns the lightweight projection used in listings.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Image: u.DisplayImage()}
}

// IsFollowing reports membership in the user's following set.
func (u *User) IsFollowing(target uuid.UUID) bool {
	for _, id := range u.FollowingUsers {
		if id == target {
			return true
		}
	}
	return false
}

// ProfileView is the externally visible projection of a User. Fields
// hidden by the owner's visibility flags are zeroed for non-owners.
type ProfileView struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email,omitempty"`
	Role            Role           `json:"role"`
	Bio             string         `json:"bio,omitempty"`
	Location        string         `json:"location,omitempty"`
	Website         string         `json:"website,omitempty"`
	Instagram       string         `json:"instagram,omitempty"`
	Image           string         `json:"image,omitempty"`
	MessagePrivacy  MessagePrivacy `json:"messagePrivacy"`
	FollowersCount  *int           `json:"followersCount,omitempty"`
	FollowingCount  *int           `json:"followingCount,omitempty"`
	BlogsCount      *int           `json:"blogsCount,omitempty"`
	LikedBlogsCount *int           `json:"likedBlogsCount,omitempty"`
	SavedBlogsCount *int           `json:"savedBlogsCount,omitempty"`
	JoinedAt        *time.Time     `json:"joinedAt,omitempty"`
	LastActive      *time.Time     `json:"lastActive,omitempty"`
}

// View projects the user for an external reader. The owner (and an
// admin) sees everything; everyone else sees only what the visibility
// flags allow.
func (u *User) View(asOwner bool) *ProfileView {
	view := &ProfileView{
		ID:             u.ID,
		Name:           u.Name,
		Role:           u.Role,
		Image:          u.DisplayImage(),
		MessagePrivacy: u.MessagePrivacy,
	}

	if asOwner || u.ShowEmail {
		view.Email = u.Email
	}
	if asOwner || u.ShowBio {
		view.Bio = u.Bio
	}
	if asOwner || u.ShowLocation {
		view.Location = u.Location
		view.Website = u.Website
		view.Instagram = u.Instagram
	}
	if asOwner || u.ShowFollowers {
		count := u.FollowersCount
		view.FollowersCount = &count
	}
	if asOwner || u.ShowFollowing {
		count := u.FollowingCount
		view.FollowingCount = &count
	}
	if asOwner || u.ShowPosts {
		count := u.BlogsCount
		view.BlogsCount = &count
	}
	if asOwner || u.ShowLikedPosts {
		count := u.LikedBlogsCount
		view.LikedBlogsCount = &count
	}
	if asOwner || u.ShowSavedPosts {
		count := u.SavedBlogsCount
		view.SavedBlogsCount = &count
	}
	if asOwner || u.ShowJoinedAt {
		joined := u.CreatedAt
		view.JoinedAt = &joined
	}
	if asOwner || u.ShowLastActive {
		active := u.LastActive
		view.LastActive = &active
	}

	return view
}

// ProfilePatch carries optional profile updates; nil fields are left
// unchanged.
type ProfilePatch struct {
	Name            *string          `json:"name,omitempty"`
	Bio             *string          `json:"bio,omitempty"`
	Location        *string          `json:"location,omitempty"`
	Website         *string          `json:"website,omitempty"`
	Instagram       *string          `json:"instagram,omitempty"`
	ImagePreference *ImagePreference `json:"imagePreference,omitempty"`
	CustomImageURL  *string          `json:"customImageUrl,omitempty"`
	UploadedImageID *string          `json:"uploadedImageId,omitempty"`
	ShowEmail       *bool            `json:"showEmail,omitempty"`
	ShowBio         *bool            `json:"showBio,omitempty"`
	ShowLocation    *bool            `json:"showLocation,omitempty"`
	ShowFollowers   *bool            `json:"showFollowers,omitempty"`
	ShowFollowing   *bool            `json:"showFollowing,omitempty"`
	ShowPosts       *bool            `json:"showPosts,omitempty"`
	ShowSavedPosts  *bool            `json:"showSavedPosts,omitempty"`
	ShowLikedPosts  *bool            `json:"showLikedPosts,omitempty"`
	ShowJoinedAt    *bool            `json:"showJoinedAt,omitempty"`
	ShowLastActive  *bool            `json:"showLastActive,omitempty"`
	MessagePrivacy  *MessagePrivacy  `json:"messagePrivacy,omitempty"`
}
