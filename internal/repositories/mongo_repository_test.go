package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoPostRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id and time", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		post := models.NewPost("https://host/x.jpg", "image", "Beach", "2019")
		require.NoError(mt, repo.CreatePost(ctx, post))

		assert.False(mt, post.ID.IsZero())
		assert.Equal(mt, time.UTC, post.CreatedAt.Location())
		assert.Equal(mt, post.CreatedAt, post.CreatedAt.Truncate(time.Millisecond))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
	})

	mt.Run("create surfaces write errors", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.CreatePost(ctx, models.NewPost("https://host/x.jpg", "image", "", ""))
		assert.Error(mt, err)
	})

	mt.Run("list sorts newest first", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB, nil)
		newer := primitive.NewObjectID()
		older := primitive.NewObjectID()
		ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: newer},
				{Key: "url", Value: "https://host/b.jpg"},
				{Key: "type", Value: "image"},
				{Key: "createdAt", Value: primitive.NewDateTimeFromTime(ts.Add(time.Minute))},
			},
			bson.D{
				{Key: "_id", Value: older},
				{Key: "url", Value: "https://host/a.mp4"},
				{Key: "caption", Value: "Clip"},
				{Key: "type", Value: "video"},
				{Key: "createdAt", Value: primitive.NewDateTimeFromTime(ts)},
			},
		))

		posts, err := repo.GetAllPosts(ctx)
		require.NoError(mt, err)
		require.Len(mt, posts, 2)
		assert.Equal(mt, newer, posts[0].ID)
		assert.Equal(mt, "https://host/b.jpg", posts[0].URL)
		assert.Equal(mt, "Clip", posts[1].Caption)
		assert.Equal(mt, "video", posts[1].Type)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		sortDoc, ok := evt.Command.Lookup("sort").DocumentOK()
		require.True(mt, ok)
		elems, err := sortDoc.Elements()
		require.NoError(mt, err)
		require.Len(mt, elems, 2)
		assert.Equal(mt, "createdAt", elems[0].Key())
		assert.Equal(mt, int32(-1), elems[0].Value().Int32())
		assert.Equal(mt, "_id", elems[1].Key())
	})

	mt.Run("list of empty collection is an empty slice", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.posts", mtest.FirstBatch))

		posts, err := repo.GetAllPosts(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, posts)
		assert.Empty(mt, posts)
	})

	mt.Run("list surfaces command errors", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
			Name:    "BadValue",
		}))

		_, err := repo.GetAllPosts(ctx)
		assert.Error(mt, err)
	})

	mt.Run("delete by id", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		deleted, err := repo.DeletePost(ctx, primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), deleted)
	})

	mt.Run("delete of malformed id skips the database", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB, nil)

		deleted, err := repo.DeletePost(ctx, "not-an-object-id")
		require.NoError(mt, err)
		assert.Zero(mt, deleted)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestMongoCommentRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		comment := models.NewComment(models.CreateCommentRequest{PostID: "p1", Text: "Lovely"})
		require.NoError(mt, repo.CreateComment(ctx, comment))
		assert.False(mt, comment.ID.IsZero())
		assert.False(mt, comment.CreatedAt.IsZero())
	})

	mt.Run("list filters by post", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(mt.DB, nil)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.comments", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: id},
				{Key: "postId", Value: "p1"},
				{Key: "text", Value: "Lovely"},
				{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Now())},
			},
		))

		comments, err := repo.GetCommentsByPostID(ctx, "p1")
		require.NoError(mt, err)
		require.Len(mt, comments, 1)
		assert.Equal(mt, id, comments[0].ID)
		assert.Equal(mt, "Lovely", comments[0].Text)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		filter, ok := evt.Command.Lookup("filter").DocumentOK()
		require.True(mt, ok)
		assert.Equal(mt, "p1", filter.Lookup("postId").StringValue())
	})

	mt.Run("delete many reports count", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		deleted, err := repo.DeleteCommentsByPostID(ctx, "p1")
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), deleted)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "delete", evt.CommandName)
	})

	mt.Run("delete many surfaces errors", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))

		_, err := repo.DeleteCommentsByPostID(ctx, "p1")
		assert.Error(mt, err)
	})
}
