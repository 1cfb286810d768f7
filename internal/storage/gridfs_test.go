package storage

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogplatform/internal/apperr"
)

func TestObjectID(t *testing.T) {
	_, err := objectID("gridfs/65f1c2a9e4b0a1b2c3d4e5f6")
	assert.NoError(t, err)
	_, err = objectID("/uploads/gridfs/65f1c2a9e4b0a1b2c3d4e5f6")
	assert.NoError(t, err)
	_, err = objectID("gridfs/not-hex")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = objectID("videos/a.mp4")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

// Нужен живой MongoDB: TEST_MONGO_URI=mongodb://localhost:27017
func TestGridFSStorageIntegration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI is not set")
	}
	ctx := context.Background()
	st, err := NewGridFSStorage(ctx, uri, "blogplatform_test", "uploads", Limits{})
	require.NoError(t, err)
	defer st.Close(ctx)

	stored, err := st.Save(ctx, Upload{
		Kind: KindImage, Filename: "cover.png", MimeType: "image/png", Size: 4,
		Body: strings.NewReader("png!"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "gridfs/"))

	rc, err := st.Open(ctx, stored.Path)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "png!", string(body))

	require.NoError(t, st.Delete(ctx, stored.Path))
	_, err = st.Open(ctx, stored.Path)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, st.Delete(ctx, stored.Path))
}
