package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/anonto42/memory-lane/backend/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const postsCollection = "posts"

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	// DeletePost reports how many posts were removed; an unknown or
	// malformed id removes nothing and is not an error.
	DeletePost(ctx context.Context, id string) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
	log        *observability.RepoLogger
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database, logger *slog.Logger) *MongoPostRepository {
	return &MongoPostRepository{
		collection: db.Collection(postsCollection),
		log:        observability.NewRepoLogger(postsCollection, logger),
	}
}

// EnsureIndexes creates the index backing the newest-first listing
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

// CreatePost assigns an id and creation time and inserts the post
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", postsCollection)()

	post.ID = primitive.NewObjectID()
	post.CreatedAt = now()
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		r.log.LogError(ctx, err, "insert")
		return err
	}
	r.log.LogOperation(ctx, "insert", slog.String("id", post.ID.Hex()))
	return nil
}

// GetAllPosts retrieves every post, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	defer observability.TrackQuery("find", postsCollection)()

	findOptions := options.Find().SetSort(newestFirst)
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		r.log.LogError(ctx, err, "find")
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := make([]models.Post, 0)
	if err = cursor.All(ctx, &posts); err != nil {
		r.log.LogError(ctx, err, "find")
		return nil, err
	}
	return posts, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// no stored post can carry this id
		return 0, nil
	}

	defer observability.TrackQuery("delete", postsCollection)()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return 0, err
	}
	r.log.LogOperation(ctx, "delete", slog.String("id", id), slog.Int64("deleted", res.DeletedCount))
	return res.DeletedCount, nil
}

// newestFirst orders by creation time, breaking ties on the ObjectID which
// grows monotonically within a process.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// now truncates to milliseconds, the resolution of a BSON datetime, so the
// returned record matches what a later read yields.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
