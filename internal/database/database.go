// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"blogswamp/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client       *mongo.Client
	Users        *mongo.Collection
	Blogs        *mongo.Collection
	Comments     *mongo.Collection
	Interactions *mongo.Collection
	Images       *gridfs.Bucket
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB!")

	db := client.Database(dbName)

	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("images"))
	if err != nil {
		return nil, fmt.Errorf("failed to open GridFS bucket: %v", err)
	}

	m := &MongoDB{
		Client:       client,
		Users:        db.Collection("users"),
		Blogs:        db.Collection("blogs"),
		Comments:     db.Collection("comments"),
		Interactions: db.Collection("interactions"),
		Images:       bucket,
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	if _, err := m.Users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	blogIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "likedBy", Value: 1}}},
		{Keys: bson.D{{Key: "savedBy", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	if _, err := m.Blogs.Indexes().CreateMany(ctx, blogIndexes); err != nil {
		return fmt.Errorf("failed to create blog indexes: %v", err)
	}

	commentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "blogId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "authorId", Value: 1}}},
	}
	if _, err := m.Comments.Indexes().CreateMany(ctx, commentIndexes); err != nil {
		return fmt.Errorf("failed to create comment indexes: %v", err)
	}

	interactionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "actorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "targetId", Value: 1}, {Key: "kind", Value: 1}}},
	}
	if _, err := m.Interactions.Indexes().CreateMany(ctx, interactionIndexes); err != nil {
		return fmt.Errorf("failed to create interaction indexes: %v", err)
	}

	return nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// Ping verifies the store is reachable, used by the health endpoint.
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

// withTxn runs fn inside a multi-document transaction. Social actions
// that touch more than one document (both sides of a follow, a blog
// pair-write plus the actor's mirror counter, the interaction journal)
// go through here so a partial failure never leaves a torn state.
func (m *MongoDB) withTxn(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := m.Client.StartSession()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
