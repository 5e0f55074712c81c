package validators

import (
	"testing"

	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&models.CreateCommentRequest{PostID: "p1", Text: "hi"}))

	err := v.Validate(&models.CreateCommentRequest{})
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindValidation, appErr.Kind)
	assert.Equal(t, "postId is required; text is required", appErr.Message)

	err = v.Validate(&models.CreateCommentRequest{PostID: "p1"})
	assert.EqualError(t, err, "text is required")
}

func TestValidate_NotAStruct(t *testing.T) {
	err := NewValidator().Validate("comment")

	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, models.KindValidation, appErr.Kind)
}
