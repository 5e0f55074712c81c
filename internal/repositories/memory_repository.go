package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/anonto42/memory-lane/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryPostRepository keeps posts in process memory. Used with
// DB_DRIVER=memory for local runs and by handler tests.
type MemoryPostRepository struct {
	mutex sync.RWMutex
	posts map[primitive.ObjectID]models.Post
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[primitive.ObjectID]models.Post)}
}

func (m *MemoryPostRepository) CreatePost(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = primitive.NewObjectID()
	post.CreatedAt = now()
	m.posts[post.ID] = *post
	return nil
}

func (m *MemoryPostRepository) GetAllPosts(_ context.Context) ([]models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := make([]models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return newer(posts[i].CreatedAt.UnixNano(), posts[i].ID, posts[j].CreatedAt.UnixNano(), posts[j].ID)
	})
	return posts, nil
}

func (m *MemoryPostRepository) DeletePost(_ context.Context, id string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[objID]; !exists {
		return 0, nil
	}
	delete(m.posts, objID)
	return 1, nil
}

// MemoryCommentRepository keeps comments in process memory
type MemoryCommentRepository struct {
	mutex    sync.RWMutex
	comments map[primitive.ObjectID]models.Comment
}

func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[primitive.ObjectID]models.Comment)}
}

func (m *MemoryCommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now()
	m.comments[comment.ID] = *comment
	return nil
}

func (m *MemoryCommentRepository) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := make([]models.Comment, 0)
	for _, c := range m.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return newer(comments[i].CreatedAt.UnixNano(), comments[i].ID, comments[j].CreatedAt.UnixNano(), comments[j].ID)
	})
	return comments, nil
}

func (m *MemoryCommentRepository) DeleteCommentsByPostID(_ context.Context, postID string) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var deleted int64
	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

// newer mirrors the {createdAt: -1, _id: -1} sort used against MongoDB
func newer(aTime int64, aID primitive.ObjectID, bTime int64, bID primitive.ObjectID) bool {
	if aTime != bTime {
		return aTime > bTime
	}
	return aID.Hex() > bID.Hex()
}

var _ PostRepository = (*MemoryPostRepository)(nil)
var _ CommentRepository = (*MemoryCommentRepository)(nil)
