package repositories

import (
	"context"
	"log/slog"

	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/anonto42/memory-lane/backend/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const commentsCollection = "comments"

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteCommentsByPostID(ctx context.Context, postID string) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
	log        *observability.RepoLogger
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database, logger *slog.Logger) *MongoCommentRepository {
	return &MongoCommentRepository{
		collection: db.Collection(commentsCollection),
		log:        observability.NewRepoLogger(commentsCollection, logger),
	}
}

// EnsureIndexes creates the index used by the per-post listing and cascade delete
func (r *MongoCommentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// CreateComment inserts a comment without checking that its post exists
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", commentsCollection)()

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now()
	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		r.log.LogError(ctx, err, "insert")
		return err
	}
	r.log.LogOperation(ctx, "insert", slog.String("id", comment.ID.Hex()), slog.String("post_id", comment.PostID))
	return nil
}

// GetCommentsByPostID retrieves the comments of one post, newest first
func (r *MongoCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	defer observability.TrackQuery("find", commentsCollection)()

	findOptions := options.Find().SetSort(newestFirst)
	cursor, err := r.collection.Find(ctx, bson.M{"postId": postID}, findOptions)
	if err != nil {
		r.log.LogError(ctx, err, "find")
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := make([]models.Comment, 0)
	if err = cursor.All(ctx, &comments); err != nil {
		r.log.LogError(ctx, err, "find")
		return nil, err
	}
	return comments, nil
}

// DeleteCommentsByPostID removes every comment referencing postID
func (r *MongoCommentRepository) DeleteCommentsByPostID(ctx context.Context, postID string) (int64, error) {
	defer observability.TrackQuery("delete_many", commentsCollection)()

	res, err := r.collection.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		r.log.LogError(ctx, err, "delete_many")
		return 0, err
	}
	r.log.LogOperation(ctx, "delete_many", slog.String("post_id", postID), slog.Int64("deleted", res.DeletedCount))
	return res.DeletedCount, nil
}

var _ CommentRepository = (*MongoCommentRepository)(nil)
var _ PostRepository = (*MongoPostRepository)(nil)
