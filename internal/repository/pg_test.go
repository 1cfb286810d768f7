package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"blogplatform/internal/apperr"
	"blogplatform/internal/db"
	"blogplatform/internal/models"
	"blogplatform/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPool поднимает схему в базе из TEST_DATABASE_URL и чистит таблицы.
func newPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE likes, comments, user_content, posts, categories, admin_settings`)
	require.NoError(t, err)
	return pool
}

func newPost(slug string, at time.Time) *models.Post {
	return &models.Post{
		ID:              uuid.NewString(),
		Title:           slug,
		Slug:            slug,
		Content:         "body",
		AuthorID:        "u-1",
		Tags:            []string{"go"},
		Status:          models.PostPublished,
		PublishedAt:     &at,
		CommentsEnabled: true,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

func newComment(target models.Target, parent *string, at time.Time) *models.Comment {
	return &models.Comment{
		ID:              uuid.NewString(),
		Content:         "text",
		AuthorID:        "u-2",
		TargetType:      target.Type,
		TargetID:        target.ID,
		ParentCommentID: parent,
		ReplyIDs:        []string{},
		Status:          models.CommentApproved,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

func TestPgPostSlugConflictAndViews(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	store := repository.NewPgStore(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := newPost("hello", now)
	require.NoError(t, store.Posts().Create(ctx, p))

	err := store.Posts().Create(ctx, newPost("hello", now))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, []string{repository.FieldSlug}, apperr.DetailsOf(err))

	for i := 1; i <= 3; i++ {
		views, err := store.Posts().IncrementViews(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, i, views)
	}

	_, err = store.Posts().GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPgReplyGraphCascade(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	store := repository.NewPgStore(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := newPost("thread", now)
	require.NoError(t, store.Posts().Create(ctx, p))
	target := p.CommentTarget()

	top := newComment(target, nil, now)
	require.NoError(t, store.Comments().Create(ctx, top))
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Comments().Create(ctx, newComment(target, &top.ID, now.Add(time.Duration(i+1)*time.Second))))
	}

	got, err := store.Comments().GetByID(ctx, top.ID)
	require.NoError(t, err)
	assert.Len(t, got.ReplyIDs, 3)

	replies, err := store.Comments().ListReplies(ctx, []string{top.ID}, true)
	require.NoError(t, err)
	require.Len(t, replies, 3)

	_, err = store.Likes().Toggle(ctx, models.Target{Type: models.TargetComment, ID: replies[0].ID}, "u-3", now)
	require.NoError(t, err)

	removed, err := store.Comments().Delete(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	var left int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments`).Scan(&left))
	assert.Zero(t, left)
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes`).Scan(&left))
	assert.Zero(t, left)
}

func TestPgLikeToggle(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	store := repository.NewPgStore(pool)
	now := time.Now().UTC()

	p := newPost("liked", now)
	require.NoError(t, store.Posts().Create(ctx, p))

	res, err := store.Likes().Toggle(ctx, p.CommentTarget(), "u-9", now)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Liked: true, LikeCount: 1}, res)

	res, err = store.Likes().Toggle(ctx, p.CommentTarget(), "u-9", now)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Liked: false, LikeCount: 0}, res)
}

func TestPgPostGetByIDs(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	store := repository.NewPgStore(pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	a, b := newPost("first", now), newPost("second", now)
	require.NoError(t, store.Posts().Create(ctx, a))
	require.NoError(t, store.Posts().Create(ctx, b))
	_, err := store.Likes().Toggle(ctx, a.CommentTarget(), "u-9", now)
	require.NoError(t, err)

	got, err := store.Posts().GetByIDs(ctx, []string{b.ID, uuid.NewString(), a.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
	assert.Equal(t, 1, got[1].Likes.Count())
}
