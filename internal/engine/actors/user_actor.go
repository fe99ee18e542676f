package actors

import (
	"log"
	"strings"
	"time"

	"blogswamp/internal/database"
	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	stdctx "context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ChangePublisher receives change-feed notifications after successful
// mutations. A nil publisher disables the feed.
type ChangePublisher interface {
	PublishChange(collection, entityID, action string)
}

// Message types for user operations
type (
	RegisterUserMsg struct {
		Name     string
		Email    string
		Password string
	}

	LoginMsg struct {
		Email    string
		Password string
	}

	CheckEmailMsg struct {
		Email string
	}

	GetProfileMsg struct {
		UserID      uuid.UUID
		RequesterID uuid.UUID
	}

	UpdateProfileMsg struct {
		UserID uuid.UUID
		Patch  *models.ProfilePatch
	}

	UpdateRoleMsg struct {
		AdminID  uuid.UUID
		TargetID uuid.UUID
		Role     models.Role
	}

	FollowUserMsg struct {
		FollowerID uuid.UUID
		TargetID   uuid.UUID
	}

	UnfollowUserMsg struct {
		FollowerID uuid.UUID
		TargetID   uuid.UUID
	}

	FollowStateMsg struct {
		UserID   uuid.UUID
		TargetID uuid.UUID
	}

	GetFollowersMsg struct {
		UserID   uuid.UUID
		Cursor   string
		PageSize int
	}

	GetFollowingMsg struct {
		UserID   uuid.UUID
		Cursor   string
		PageSize int
	}

	GetInteractionsMsg struct {
		UserID   uuid.UUID
		Cursor   string
		PageSize int
	}
)

// UserActor owns every user-document mutation. Funneling them through
// one mailbox serializes writes per process; the guarded store updates
// keep counts honest across processes.
type UserActor struct {
	store     database.Store
	metrics   *utils.MetricsCollector
	publisher ChangePublisher
	blobs     BlobRemover
}

func NewUserActor(store database.Store, metrics *utils.MetricsCollector, publisher ChangePublisher, blobs BlobRemover) actor.Actor {
	return &UserActor{store: store, metrics: metrics, publisher: publisher, blobs: blobs}
}

func (a *UserActor) publish(entityID, action string) {
	if a.publisher != nil {
		a.publisher.PublishChange("users", entityID, action)
	}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RegisterUserMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *CheckEmailMsg:
		a.handleCheckEmail(context, msg)
	case *GetProfileMsg:
		a.handleGetProfile(context, msg)
	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)
	case *UpdateRoleMsg:
		a.handleUpdateRole(context, msg)
	case *FollowUserMsg:
		a.handleFollow(context, msg)
	case *UnfollowUserMsg:
		a.handleUnfollow(context, msg)
	case *FollowStateMsg:
		a.handleFollowState(context, msg)
	case *GetFollowersMsg:
		a.handleGetFollowers(context, msg)
	case *GetFollowingMsg:
		a.handleGetFollowing(context, msg)
	case *GetInteractionsMsg:
		a.handleGetInteractions(context, msg)
	}
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	name := strings.TrimSpace(msg.Name)
	email := strings.ToLower(strings.TrimSpace(msg.Email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Name and a valid email are required", nil))
		return
	}
	if len(msg.Password) < 8 {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Password must be at least 8 characters", nil))
		return
	}

	exists, err := a.store.EmailExists(ctx, email)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to check email", err))
		return
	}
	if exists {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", nil))
		return
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(msg.Password), 14)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
		return
	}

	now := time.Now()
	user := &models.User{
		ID:              uuid.New(),
		Name:            name,
		Email:           email,
		HashedPassword:  string(hashedBytes),
		Role:            models.RoleUser,
		ImagePreference: models.ImageCustom,
		MessagePrivacy:  models.MessagesFromEveryone,
		ShowBio:         true,
		ShowLocation:    true,
		ShowFollowers:   true,
		ShowFollowing:   true,
		ShowPosts:       true,
		ShowSavedPosts:  true,
		ShowLikedPosts:  true,
		ShowJoinedAt:    true,
		ShowLastActive:  true,
		FollowingUsers:  []uuid.UUID{},
		FollowedUser:    []uuid.UUID{},
		CreatedAt:       now,
		LastActive:      now,
	}

	if err := a.store.SaveUser(ctx, user); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			context.Respond(appErr)
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save user", err))
		return
	}

	log.Printf("UserActor: Registered user %s (%s)", user.ID, user.Email)
	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	a.publish(user.ID.String(), "created")
	context.Respond(user)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	email := strings.ToLower(strings.TrimSpace(msg.Email))
	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil {
		// Same response for unknown email and bad password.
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil))
		return
	}

	if err := a.store.UpdateUserActivity(ctx, user.ID); err != nil {
		log.Printf("UserActor: Failed to update activity for %s: %v", user.ID, err)
	}

	a.metrics.AddOperationLatency("login_user", time.Since(startTime))
	context.Respond(user)
}

func (a *UserActor) handleCheckEmail(context actor.Context, msg *CheckEmailMsg) {
	email := strings.ToLower(strings.TrimSpace(msg.Email))
	if email == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Email is required", nil))
		return
	}

	exists, err := a.store.EmailExists(stdctx.Background(), email)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to check email", err))
		return
	}
	context.Respond(&models.EmailCheck{Exists: exists})
}

func (a *UserActor) handleGetProfile(context actor.Context, msg *GetProfileMsg) {
	ctx := stdctx.Background()

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get user"))
		return
	}

	context.Respond(user.View(msg.RequesterID == user.ID))
}

func (a *UserActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.UserID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}
	if msg.Patch == nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Empty profile update", nil))
		return
	}
	if msg.Patch.Name != nil && strings.TrimSpace(*msg.Patch.Name) == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Name cannot be empty", nil))
		return
	}
	if msg.Patch.ImagePreference != nil && !msg.Patch.ImagePreference.Valid() {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Unknown image preference", nil))
		return
	}
	if msg.Patch.MessagePrivacy != nil && !msg.Patch.MessagePrivacy.Valid() {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Unknown message privacy", nil))
		return
	}

	var replacedImage string
	if msg.Patch.UploadedImageID != nil {
		before, err := a.store.GetUser(ctx, msg.UserID)
		if err != nil {
			context.Respond(wrapStoreError(err, "Failed to get user"))
			return
		}
		if before.UploadedImageID != "" && before.UploadedImageID != *msg.Patch.UploadedImageID {
			replacedImage = before.UploadedImageID
		}
	}

	if err := a.store.UpdateUserProfile(ctx, msg.UserID, msg.Patch); err != nil {
		context.Respond(wrapStoreError(err, "Failed to update profile"))
		return
	}

	if replacedImage != "" && a.blobs != nil {
		if err := a.blobs.Delete(replacedImage); err != nil {
			log.Printf("UserActor: Failed to release image %s for user %s: %v", replacedImage, msg.UserID, err)
		}
	}

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load updated profile"))
		return
	}

	a.metrics.AddOperationLatency("update_profile", time.Since(startTime))
	a.publish(user.ID.String(), "updated")
	context.Respond(user.View(true))
}

func (a *UserActor) handleUpdateRole(context actor.Context, msg *UpdateRoleMsg) {
	ctx := stdctx.Background()

	if msg.AdminID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}
	if !msg.Role.Valid() {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Unknown role", nil))
		return
	}

	admin, err := a.store.GetUser(ctx, msg.AdminID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load requester"))
		return
	}
	if admin.Role != models.RoleAdmin {
		context.Respond(utils.NewForbiddenError("only admins can change roles"))
		return
	}

	if err := a.store.UpdateUserRole(ctx, msg.TargetID, msg.Role); err != nil {
		context.Respond(wrapStoreError(err, "Failed to update role"))
		return
	}

	log.Printf("UserActor: Admin %s set role of %s to %s", msg.AdminID, msg.TargetID, msg.Role)
	a.publish(msg.TargetID.String(), "updated")
	context.Respond(&models.StatusResponse{Success: true, Message: "Role updated"})
}

func (a *UserActor) handleFollow(context actor.Context, msg *FollowUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.FollowerID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}
	if msg.FollowerID == msg.TargetID {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Cannot follow yourself", nil))
		return
	}

	if err := a.store.AddFollow(ctx, msg.FollowerID, msg.TargetID); err != nil {
		context.Respond(wrapStoreError(err, "Failed to follow user"))
		return
	}

	a.metrics.AddOperationLatency("follow_user", time.Since(startTime))
	a.publish(msg.TargetID.String(), "updated")
	a.publish(msg.FollowerID.String(), "updated")
	context.Respond(&models.StatusResponse{Success: true, Message: "Now following"})
}

func (a *UserActor) handleUnfollow(context actor.Context, msg *UnfollowUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.FollowerID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}
	if msg.FollowerID == msg.TargetID {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Cannot unfollow yourself", nil))
		return
	}

	if err := a.store.RemoveFollow(ctx, msg.FollowerID, msg.TargetID); err != nil {
		context.Respond(wrapStoreError(err, "Failed to unfollow user"))
		return
	}

	a.metrics.AddOperationLatency("unfollow_user", time.Since(startTime))
	a.publish(msg.TargetID.String(), "updated")
	a.publish(msg.FollowerID.String(), "updated")
	context.Respond(&models.StatusResponse{Success: true, Message: "Unfollowed"})
}

func (a *UserActor) handleFollowState(context actor.Context, msg *FollowStateMsg) {
	ctx := stdctx.Background()

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get user"))
		return
	}
	context.Respond(&models.FollowState{Following: user.IsFollowing(msg.TargetID)})
}

func (a *UserActor) handleGetFollowers(context actor.Context, msg *GetFollowersMsg) {
	ctx := stdctx.Background()

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get user"))
		return
	}

	page, err := a.pageRefs(ctx, user.FollowedUser, msg.Cursor, msg.PageSize)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load followers"))
		return
	}
	context.Respond(page)
}

func (a *UserActor) handleGetFollowing(context actor.Context, msg *GetFollowingMsg) {
	ctx := stdctx.Background()

	user, err := a.store.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to get user"))
		return
	}

	page, err := a.pageRefs(ctx, user.FollowingUsers, msg.Cursor, msg.PageSize)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load following"))
		return
	}
	context.Respond(page)
}

// pageRefs walks a membership array in stored order, joining the user
// projections one page at a time. The cursor is the last id of the
// previous page; arrays are append-ordered so positions stay stable.
func (a *UserActor) pageRefs(ctx stdctx.Context, ids []uuid.UUID, cursor string, pageSize int) (*database.UserRefPage, error) {
	if cursor == database.TerminalCursor {
		return &database.UserRefPage{Page: []models.UserRef{}, IsDone: true, ContinueCursor: database.TerminalCursor}, nil
	}
	if pageSize <= 0 {
		pageSize = database.DefaultPageSize
	}
	if pageSize > database.MaxPageSize {
		pageSize = database.MaxPageSize
	}

	start := 0
	if cursor != "" {
		after, err := uuid.Parse(cursor)
		if err != nil {
			return nil, utils.NewAppError(utils.ErrInvalidInput, "malformed pagination cursor", err)
		}
		start = len(ids)
		for i, id := range ids {
			if id == after {
				start = i + 1
				break
			}
		}
	}

	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}

	refs, err := a.store.GetUserRefs(ctx, ids[start:end])
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "Failed to load users", err)
	}

	page := &database.UserRefPage{Page: refs, IsDone: true, ContinueCursor: database.TerminalCursor}
	if end < len(ids) {
		page.IsDone = false
		page.ContinueCursor = ids[end-1].String()
	}
	return page, nil
}

func (a *UserActor) handleGetInteractions(context actor.Context, msg *GetInteractionsMsg) {
	ctx := stdctx.Background()

	if msg.UserID == uuid.Nil {
		context.Respond(utils.NewUnauthenticatedError("login required"))
		return
	}

	page, err := a.store.GetInteractionsPage(ctx, msg.UserID, msg.Cursor, msg.PageSize)
	if err != nil {
		context.Respond(wrapStoreError(err, "Failed to load interactions"))
		return
	}
	context.Respond(page)
}

// wrapStoreError passes AppErrors through untouched and wraps anything
// else as a database failure.
func wrapStoreError(err error, message string) *utils.AppError {
	if appErr, ok := err.(*utils.AppError); ok {
		return appErr
	}
	return utils.NewAppError(utils.ErrDatabase, message, err)
}
