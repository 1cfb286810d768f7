package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"blogplatform/internal/apperr"
	"blogplatform/internal/cache"
	"blogplatform/internal/models"
	"blogplatform/internal/repository/memory"
	"blogplatform/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = models.Actor{ID: "u-alice", Role: models.RoleUser, DisplayName: "Alice", Email: "alice@example.com"}
	bob   = models.Actor{ID: "u-bob", Role: models.RoleUser, DisplayName: "Bob", Email: "bob@example.com"}
	root  = models.Actor{ID: "u-admin", Role: models.RoleAdmin, DisplayName: "Admin"}
)

// stepClock сдвигается на секунду при каждом вызове: порядок "новые сверху" детерминирован.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fakeFiles struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeFiles) Save(context.Context, storage.Upload) (*storage.Stored, error) {
	return nil, errors.New("not supported")
}

func (f *fakeFiles) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeFiles) Delete(_ context.Context, p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, p)
	return nil
}

func (f *fakeFiles) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type featuredMock struct{ mock.Mock }

func (m *featuredMock) Get(ctx context.Context, limit int) ([]string, bool, error) {
	args := m.Called(ctx, limit)
	ids, _ := args.Get(0).([]string)
	return ids, args.Bool(1), args.Error(2)
}

func (m *featuredMock) Set(ctx context.Context, limit int, ids []string) error {
	return m.Called(ctx, limit, ids).Error(0)
}

func (m *featuredMock) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type env struct {
	store      *memory.Store
	files      *fakeFiles
	posts      PostService
	comments   CommentService
	content    UserContentService
	categories CategoryService
	settings   AdminSettingsService
}

func newEnv(t *testing.T, featured cache.Featured) *env {
	t.Helper()
	if featured == nil {
		featured = cache.Noop{}
	}
	st := memory.New()
	clock := &stepClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	files := &fakeFiles{}

	categories := NewCategoryService(st.Categories(), clock)
	comments := NewCommentService(st.Comments(), st.Likes(), st.Posts(), st.UserContent(), clock)
	return &env{
		store:      st,
		files:      files,
		categories: categories,
		comments:   comments,
		posts:      NewPostService(st.Posts(), st.Comments(), st.Likes(), categories, files, featured, clock),
		content:    NewUserContentService(st.UserContent(), st.Likes(), comments, files, clock),
		settings:   NewAdminSettingsService(st.AdminSettings(), clock),
	}
}

func sp(s string) *string { return &s }

func bp(b bool) *bool { return &b }

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}

func (e *env) publishedPost(t *testing.T, author models.Actor, title string) *models.PostView {
	t.Helper()
	p, err := e.posts.Create(context.Background(), author, models.PostInput{
		Title:   sp(title),
		Content: sp("Some body text for the post."),
		Status:  sp(string(models.PostPublished)),
	})
	require.NoError(t, err)
	return p
}

func (e *env) textContent(t *testing.T, author models.Actor, title string) *models.UserContentView {
	t.Helper()
	c, err := e.content.Create(context.Background(), author, models.UserContentInput{
		Title:       sp(title),
		Description: sp("A short description"),
		ContentType: sp(string(models.ContentText)),
		TextContent: sp("Long form text"),
		Category:    sp("technology"),
	})
	require.NoError(t, err)
	return c
}
