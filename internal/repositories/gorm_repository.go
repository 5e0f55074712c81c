package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/anonto42/memory-lane/backend/internal/observability"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// postRow is the relational layout of models.Post. IDs stay ObjectID hex
// strings so clients see the same identifiers on either backend.
type postRow struct {
	ID        string `gorm:"primaryKey;size:24"`
	URL       string `gorm:"not null"`
	Caption   string
	Year      string
	Type      string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"index"`
}

func (postRow) TableName() string { return postsCollection }

// commentRow is the relational layout of models.Comment
type commentRow struct {
	ID        string `gorm:"primaryKey;size:24"`
	PostID    string `gorm:"index"`
	Text      string
	CreatedAt time.Time
}

func (commentRow) TableName() string { return commentsCollection }

// AutoMigrate creates the posts and comments tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&postRow{}, &commentRow{})
}

// GormPostRepository implements PostRepository on a relational database
type GormPostRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB, logger *slog.Logger) *GormPostRepository {
	return &GormPostRepository{db: db, log: observability.NewRepoLogger(postsCollection, logger)}
}

func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", postsCollection)()

	post.ID = primitive.NewObjectID()
	post.CreatedAt = now()
	row := postRow{
		ID:        post.ID.Hex(),
		URL:       post.URL,
		Caption:   post.Caption,
		Year:      post.Year,
		Type:      post.Type,
		CreatedAt: post.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.log.LogError(ctx, err, "insert")
		return err
	}
	r.log.LogOperation(ctx, "insert", slog.String("id", row.ID))
	return nil
}

func (r *GormPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	defer observability.TrackQuery("find", postsCollection)()

	var rows []postRow
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		r.log.LogError(ctx, err, "find")
		return nil, err
	}

	posts := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		id, err := primitive.ObjectIDFromHex(row.ID)
		if err != nil {
			return nil, err
		}
		posts = append(posts, models.Post{
			ID:        id,
			URL:       row.URL,
			Caption:   row.Caption,
			Year:      row.Year,
			Type:      row.Type,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return posts, nil
}

func (r *GormPostRepository) DeletePost(ctx context.Context, id string) (int64, error) {
	defer observability.TrackQuery("delete", postsCollection)()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&postRow{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return 0, res.Error
	}
	r.log.LogOperation(ctx, "delete", slog.String("id", id), slog.Int64("deleted", res.RowsAffected))
	return res.RowsAffected, nil
}

// GormCommentRepository implements CommentRepository on a relational database
type GormCommentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB, logger *slog.Logger) *GormCommentRepository {
	return &GormCommentRepository{db: db, log: observability.NewRepoLogger(commentsCollection, logger)}
}

func (r *GormCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", commentsCollection)()

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now()
	row := commentRow{
		ID:        comment.ID.Hex(),
		PostID:    comment.PostID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.log.LogError(ctx, err, "insert")
		return err
	}
	r.log.LogOperation(ctx, "insert", slog.String("id", row.ID), slog.String("post_id", row.PostID))
	return nil
}

func (r *GormCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	defer observability.TrackQuery("find", commentsCollection)()

	var rows []commentRow
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		r.log.LogError(ctx, err, "find")
		return nil, err
	}

	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		id, err := primitive.ObjectIDFromHex(row.ID)
		if err != nil {
			return nil, err
		}
		comments = append(comments, models.Comment{
			ID:        id,
			PostID:    row.PostID,
			Text:      row.Text,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return comments, nil
}

func (r *GormCommentRepository) DeleteCommentsByPostID(ctx context.Context, postID string) (int64, error) {
	defer observability.TrackQuery("delete_many", commentsCollection)()

	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&commentRow{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete_many")
		return 0, res.Error
	}
	r.log.LogOperation(ctx, "delete_many", slog.String("post_id", postID), slog.Int64("deleted", res.RowsAffected))
	return res.RowsAffected, nil
}

var _ PostRepository = (*GormPostRepository)(nil)
var _ CommentRepository = (*GormCommentRepository)(nil)
