package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogplatform/internal/apperr"
)

func TestValidate(t *testing.T) {
	limits := Limits{MaxImageSize: 10, MaxVideoSize: 20}
	cases := []struct {
		name string
		up   Upload
		ok   bool
	}{
		{"jpeg", Upload{Kind: KindImage, MimeType: "image/jpeg", Size: 10}, true},
		{"webp thumb", Upload{Kind: KindThumbnail, MimeType: "image/webp", Size: 1}, true},
		{"mp4", Upload{Kind: KindVideo, MimeType: "video/mp4", Size: 20}, true},
		{"image too big", Upload{Kind: KindImage, MimeType: "image/png", Size: 11}, false},
		{"pdf as image", Upload{Kind: KindImage, MimeType: "application/pdf", Size: 1}, false},
		{"image as video", Upload{Kind: KindVideo, MimeType: "image/png", Size: 1}, false},
		{"unknown kind", Upload{Kind: "doc", MimeType: "image/png"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.up, limits)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			}
		})
	}
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	st, err := NewLocalStorage(root, Limits{})
	require.NoError(t, err)

	stored, err := st.Save(ctx, Upload{
		Kind: KindVideo, Filename: "Clip.MP4", MimeType: "video/mp4", Size: 5,
		Body: strings.NewReader("video"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Path, "videos/video-"))
	assert.True(t, strings.HasSuffix(stored.Path, ".mp4"))
	assert.Equal(t, "/uploads/"+stored.Path, stored.URL)
	assert.Equal(t, int64(5), stored.Size)
	assert.Equal(t, "Clip.MP4", stored.OriginalName)

	rc, err := st.Open(ctx, stored.URL)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "video", string(body))

	require.NoError(t, st.Delete(ctx, stored.Path))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(stored.Path)))
	assert.True(t, os.IsNotExist(err))

	// повторное удаление и внешние ссылки, не ошибка
	assert.NoError(t, st.Delete(ctx, stored.Path))
	assert.NoError(t, st.Delete(ctx, "https://cdn.example.com/a.mp4"))
	assert.NoError(t, st.Delete(ctx, ""))
}

func TestLocalStorageRejectsOversizedBody(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	st, err := NewLocalStorage(root, Limits{MaxImageSize: 4})
	require.NoError(t, err)

	// заявленный размер меньше реального
	_, err = st.Save(ctx, Upload{
		Kind: KindImage, Filename: "a.png", MimeType: "image/png", Size: 1,
		Body: bytes.NewReader([]byte("123456")),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	entries, err := os.ReadDir(filepath.Join(root, "images"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStoragePathTraversal(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), Limits{})
	require.NoError(t, err)

	_, err = st.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = st.Open(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
