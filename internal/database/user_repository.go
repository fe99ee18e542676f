// internal/database/user_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"blogswamp/internal/models"
	"blogswamp/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string `bson:"_id"`
	Name           string `bson:"name"`
	Email          string `bson:"email"`
	HashedPassword string `bson:"hashedPassword"`
	Role           string `bson:"role"`

	Bio       string `bson:"bio,omitempty"`
	Location  string `bson:"location,omitempty"`
	Website   string `bson:"website,omitempty"`
	Instagram string `bson:"instagram,omitempty"`

	ImagePreference string `bson:"imagePreference"`
	CustomImageURL  string `bson:"customImageUrl,omitempty"`
	UploadedImageID string `bson:"uploadedImageId,omitempty"`

	ShowEmail      bool `bson:"showEmail"`
	ShowBio        bool `bson:"showBio"`
	ShowLocation   bool `bson:"showLocation"`
	ShowFollowers  bool `bson:"showFollowers"`
	ShowFollowing  bool `bson:"showFollowing"`
	ShowPosts      bool `bson:"showPosts"`
	ShowSavedPosts bool `bson:"showSavedPosts"`
	ShowLikedPosts bool `bson:"showLikedPosts"`
	ShowJoinedAt   bool `bson:"showJoinedAt"`
	ShowLastActive bool `bson:"showLastActive"`

	MessagePrivacy string `bson:"messagePrivacy"`

	FollowersCount  int `bson:"followersCount"`
	FollowingCount  int `bson:"followingCount"`
	BlogsCount      int `bson:"blogsCount"`
	LikedBlogsCount int `bson:"likedBlogsCount"`
	SavedBlogsCount int `bson:"savedBlogsCount"`

	FollowingUsers []string `bson:"followingUsers"`
	FollowedUser   []string `bson:"followedUser"`

	CreatedAt  time.Time `bson:"createdAt"`
	LastActive time.Time `bson:"lastActive"`
}

func userToDocument(user *models.User) *UserDocument {
	doc := &UserDocument{
		ID:              user.ID.String(),
		Name:            user.Name,
		Email:           user.Email,
		HashedPassword:  user.HashedPassword,
		Role:            string(user.Role),
		Bio:             user.Bio,
		Location:        user.Location,
		Website:         user.Website,
		Instagram:       user.Instagram,
		ImagePreference: string(user.ImagePreference),
		CustomImageURL:  user.CustomImageURL,
		UploadedImageID: user.UploadedImageID,
		ShowEmail:       user.ShowEmail,
		ShowBio:         user.ShowBio,
		ShowLocation:    user.ShowLocation,
		ShowFollowers:   user.ShowFollowers,
		ShowFollowing:   user.ShowFollowing,
		ShowPosts:       user.ShowPosts,
		ShowSavedPosts:  user.ShowSavedPosts,
		ShowLikedPosts:  user.ShowLikedPosts,
		ShowJoinedAt:    user.ShowJoinedAt,
		ShowLastActive:  user.ShowLastActive,
		MessagePrivacy:  string(user.MessagePrivacy),
		FollowersCount:  user.FollowersCount,
		FollowingCount:  user.FollowingCount,
		BlogsCount:      user.BlogsCount,
		LikedBlogsCount: user.LikedBlogsCount,
		SavedBlogsCount: user.SavedBlogsCount,
		FollowingUsers:  uuidsToStrings(user.FollowingUsers),
		FollowedUser:    uuidsToStrings(user.FollowedUser),
		CreatedAt:       user.CreatedAt,
		LastActive:      user.LastActive,
	}
	return doc
}

func documentToUser(doc *UserDocument) (*models.User, error) {
	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	following, err := stringsToUUIDs(doc.FollowingUsers)
	if err != nil {
		return nil, fmt.Errorf("invalid following entry in database: %v", err)
	}

	followers, err := stringsToUUIDs(doc.FollowedUser)
	if err != nil {
		return nil, fmt.Errorf("invalid follower entry in database: %v", err)
	}

	return &models.User{
		ID:              userID,
		Name:            doc.Name,
		Email:           doc.Email,
		HashedPassword:  doc.HashedPassword,
		Role:            models.Role(doc.Role),
		Bio:             doc.Bio,
		Location:        doc.Location,
		Website:         doc.Website,
		Instagram:       doc.Instagram,
		ImagePreference: models.ImagePreference(doc.ImagePreference),
		CustomImageURL:  doc.CustomImageURL,
		UploadedImageID: doc.UploadedImageID,
		ShowEmail:       doc.ShowEmail,
		ShowBio:         doc.ShowBio,
		ShowLocation:    doc.ShowLocation,
		ShowFollowers:   doc.ShowFollowers,
		ShowFollowing:   doc.ShowFollowing,
		ShowPosts:       doc.ShowPosts,
		ShowSavedPosts:  doc.ShowSavedPosts,
		ShowLikedPosts:  doc.ShowLikedPosts,
		ShowJoinedAt:    doc.ShowJoinedAt,
		ShowLastActive:  doc.ShowLastActive,
		MessagePrivacy:  models.MessagePrivacy(doc.MessagePrivacy),
		FollowersCount:  doc.FollowersCount,
		FollowingCount:  doc.FollowingCount,
		BlogsCount:      doc.BlogsCount,
		LikedBlogsCount: doc.LikedBlogsCount,
		SavedBlogsCount: doc.SavedBlogsCount,
		FollowingUsers:  following,
		FollowedUser:    followers,
		CreatedAt:       doc.CreatedAt,
		LastActive:      doc.LastActive,
	}, nil
}

func uuidsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func stringsToUUIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ids))
	for i, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := userToDocument(user)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", err)
	}
	return err
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}

	return documentToUser(&doc)
}

// GetUserByEmail retrieves a user from MongoDB by their email address
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrUserNotFound, "User not found", err)
	}
	if err != nil {
		return nil, err
	}

	return documentToUser(&doc)
}

// EmailExists reports whether a user with the given email is registered
func (m *MongoDB) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := m.Users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateUserProfile applies a partial profile update to the user's own record
func (m *MongoDB) UpdateUserProfile(ctx context.Context, userID uuid.UUID, patch *models.ProfilePatch) error {
	set := bson.M{"lastActive": time.Now()}

	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Website != nil {
		set["website"] = *patch.Website
	}
	if patch.Instagram != nil {
		set["instagram"] = *patch.Instagram
	}
	if patch.ImagePreference != nil {
		set["imagePreference"] = string(*patch.ImagePreference)
	}
	if patch.CustomImageURL != nil {
		set["customImageUrl"] = *patch.CustomImageURL
	}
	if patch.UploadedImageID != nil {
		set["uploadedImageId"] = *patch.UploadedImageID
	}
	if patch.ShowEmail != nil {
		set["showEmail"] = *patch.ShowEmail
	}
	if patch.ShowBio != nil {
		set["showBio"] = *patch.ShowBio
	}
	if patch.ShowLocation != nil {
		set["showLocation"] = *patch.ShowLocation
	}
	if patch.ShowFollowers != nil {
		set["showFollowers"] = *patch.ShowFollowers
	}
	if patch.ShowFollowing != nil {
		set["showFollowing"] = *patch.ShowFollowing
	}
	if patch.ShowPosts != nil {
		set["showPosts"] = *patch.ShowPosts
	}
	if patch.ShowSavedPosts != nil {
		set["showSavedPosts"] = *patch.ShowSavedPosts
	}
	if patch.ShowLikedPosts != nil {
		set["showLikedPosts"] = *patch.ShowLikedPosts
	}
	if patch.ShowJoinedAt != nil {
		set["showJoinedAt"] = *patch.ShowJoinedAt
	}
	if patch.ShowLastActive != nil {
		set["showLastActive"] = *patch.ShowLastActive
	}
	if patch.MessagePrivacy != nil {
		set["messagePrivacy"] = string(*patch.MessagePrivacy)
	}

	result, err := m.Users.UpdateOne(ctx, bson.M{"_id": userID.String()}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewUserNotFoundError(userID.String())
	}
	return nil
}

// UpdateUserRole sets a user's role. The admin gate lives with the caller.
func (m *MongoDB) UpdateUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{"$set": bson.M{"role": string(role)}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewUserNotFoundError(userID.String())
	}
	return nil
}

// UpdateUserActivity bumps a user's last active time
func (m *MongoDB) UpdateUserActivity(ctx context.Context, userID uuid.UUID) error {
	result, err := m.Users.UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{"$set": bson.M{"lastActive": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewUserNotFoundError(userID.String())
	}
	return nil
}

// GetUserRefs resolves a bounded set of user IDs to display projections,
// preserving input order. Missing users are skipped, matching the read
// behavior for listings that may reference stale members.
func (m *MongoDB) GetUserRefs(ctx context.Context, ids []uuid.UUID) ([]models.UserRef, error) {
	if len(ids) == 0 {
		return []models.UserRef{}, nil
	}

	cursor, err := m.Users.Find(ctx,
		bson.M{"_id": bson.M{"$in": uuidsToStrings(ids)}},
		options.Find().SetProjection(bson.M{
			"_id": 1, "name": 1,
			"imagePreference": 1, "customImageUrl": 1, "uploadedImageId": 1,
		}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	found := make(map[uuid.UUID]models.UserRef, len(ids))
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		user, err := documentToUser(&doc)
		if err != nil {
			continue
		}
		found[user.ID] = user.Ref()
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	refs := make([]models.UserRef, 0, len(found))
	for _, id := range ids {
		if ref, ok := found[id]; ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// AddFollow records a follow edge: the target joins the follower's
// followingUsers set and the follower joins the target's followedUser
// set, each paired with its counter in the same guarded update. Both
// documents commit in one transaction.
func (m *MongoDB) AddFollow(ctx context.Context, followerID, targetID uuid.UUID) error {
	follower := followerID.String()
	target := targetID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		// Follower side: the membership guard in the filter makes the
		// increment impossible to apply twice.
		result, err := m.Users.UpdateOne(sc,
			bson.M{"_id": follower, "followingUsers": bson.M{"$ne": target}},
			bson.M{
				"$addToSet": bson.M{"followingUsers": target},
				"$inc":      bson.M{"followingCount": 1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Users.FindOne(sc, bson.M{"_id": follower}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewUserNotFoundError(follower)
			}
			return utils.NewAppError(utils.ErrAlreadyFollowing, "Already following this user", nil)
		}

		// Target side.
		result, err = m.Users.UpdateOne(sc,
			bson.M{"_id": target, "followedUser": bson.M{"$ne": follower}},
			bson.M{
				"$addToSet": bson.M{"followedUser": follower},
				"$inc":      bson.M{"followersCount": 1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Users.FindOne(sc, bson.M{"_id": target}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewUserNotFoundError(target)
			}
			// Follower already present on the target's side while absent
			// on our own: the guard kept the count honest, continue.
		}

		return m.insertInteraction(sc, followerID, targetID, models.InteractionFollow)
	})
}

// RemoveFollow is the symmetric inverse of AddFollow. Decrements only
// apply together with a successful membership removal, so counts can
// never go negative.
func (m *MongoDB) RemoveFollow(ctx context.Context, followerID, targetID uuid.UUID) error {
	follower := followerID.String()
	target := targetID.String()

	return m.withTxn(ctx, func(sc mongo.SessionContext) error {
		result, err := m.Users.UpdateOne(sc,
			bson.M{"_id": follower, "followingUsers": target},
			bson.M{
				"$pull": bson.M{"followingUsers": target},
				"$inc":  bson.M{"followingCount": -1},
			},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			if err := m.Users.FindOne(sc, bson.M{"_id": follower}).Err(); err == mongo.ErrNoDocuments {
				return utils.NewUserNotFoundError(follower)
			}
			return utils.NewAppError(utils.ErrNotFollowing, "Not following this user", nil)
		}

		if err := m.pullFollowerClamped(sc, target, follower); err != nil {
			return err
		}

		return m.removeInteraction(sc, followerID, targetID, models.InteractionFollow)
	})
}

// pullFollowerClamped removes the follower from the target's membership
// array, decrementing followersCount only while it is above zero.
func (m *MongoDB) pullFollowerClamped(sc mongo.SessionContext, target, follower string) error {
	result, err := m.Users.UpdateOne(sc,
		bson.M{"_id": target, "followedUser": follower, "followersCount": bson.M{"$gt": 0}},
		bson.M{
			"$pull": bson.M{"followedUser": follower},
			"$inc":  bson.M{"followersCount": -1},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	if err := m.Users.FindOne(sc, bson.M{"_id": target}).Err(); err == mongo.ErrNoDocuments {
		return utils.NewUserNotFoundError(target)
	}

	// Either the membership is already gone or the count already sits
	// at the floor; drop the membership without touching the count.
	_, err = m.Users.UpdateOne(sc,
		bson.M{"_id": target},
		bson.M{"$pull": bson.M{"followedUser": follower}},
	)
	return err
}
