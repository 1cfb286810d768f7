package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPostSlugGetsSuffixOnCollision(t *testing.T) {
	e := newEnv(t, nil)

	var slugs []string
	for i := 0; i < 3; i++ {
		p := e.publishedPost(t, alice, "Hello, World!")
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"hello-world", "hello-world-1", "hello-world-2"}, slugs)
}

func TestPostCreateValidation(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	_, err := e.posts.Create(ctx, alice, models.PostInput{Title: sp(" "), Content: sp("")})
	requireKind(t, err, apperr.KindValidation)
	assert.ElementsMatch(t, []string{"Title is required", "Content is required"}, apperr.DetailsOf(err))

	_, err = e.posts.Create(ctx, alice, models.PostInput{Title: sp(strings.Repeat("x", 201)), Content: sp("body")})
	requireKind(t, err, apperr.KindValidation)

	_, err = e.posts.Create(ctx, alice, models.PostInput{Title: sp("T"), Content: sp("body"), CategoryID: sp("missing")})
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Category not found", apperr.PublicMessage(err))

	_, err = e.posts.Create(ctx, models.Anonymous, models.PostInput{Title: sp("T"), Content: sp("body")})
	requireKind(t, err, apperr.KindForbidden)
}

func TestPostDefaultsAndSanitizing(t *testing.T) {
	e := newEnv(t, nil)
	words := strings.TrimSpace(strings.Repeat("word ", 450))

	p, err := e.posts.Create(context.Background(), alice, models.PostInput{
		Title:   sp("Draft"),
		Content: sp(words + `<script>alert(1)</script>`),
		Tags:    &[]string{"go, web", "go"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	assert.True(t, p.CommentsEnabled)
	assert.Equal(t, 3, p.ReadingTime)
	assert.NotContains(t, p.Content, "<script>")
	assert.Equal(t, []string{"go", "web"}, p.Tags)
	assert.Equal(t, "/posts/draft", p.URL)
}

func TestPostPublishedAtSetOnce(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	p, err := e.posts.Create(ctx, alice, models.PostInput{Title: sp("Once"), Content: sp("body")})
	require.NoError(t, err)
	require.Nil(t, p.PublishedAt)

	p, err = e.posts.Update(ctx, alice, p.ID, models.PostInput{Status: sp("published")})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)
	first := *p.PublishedAt

	_, err = e.posts.Update(ctx, alice, p.ID, models.PostInput{Status: sp("draft")})
	require.NoError(t, err)
	p, err = e.posts.Update(ctx, alice, p.ID, models.PostInput{Status: sp("published")})
	require.NoError(t, err)
	assert.Equal(t, first, *p.PublishedAt)
}

func TestPostUpdateRegeneratesSlugAndChecksOwner(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	e.publishedPost(t, alice, "Taken")
	p := e.publishedPost(t, alice, "Original")

	_, err := e.posts.Update(ctx, bob, p.ID, models.PostInput{Title: sp("Hijack")})
	requireKind(t, err, apperr.KindForbidden)

	updated, err := e.posts.Update(ctx, root, p.ID, models.PostInput{Title: sp("Taken")})
	require.NoError(t, err)
	assert.Equal(t, "taken-1", updated.Slug)

	// тот же заголовок, slug не меняется
	again, err := e.posts.Update(ctx, alice, p.ID, models.PostInput{Title: sp("Taken"), Content: sp("new body")})
	require.NoError(t, err)
	assert.Equal(t, "taken-1", again.Slug)
}

func TestPostViewIncrement(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Viewed")

	var last *models.PostView
	for _, a := range []models.Actor{models.Anonymous, bob, root} {
		v, err := e.posts.GetBySlug(ctx, a, p.Slug)
		require.NoError(t, err)
		last = v
	}
	assert.Equal(t, 3, last.Views)

	draft, err := e.posts.Create(ctx, alice, models.PostInput{Title: sp("Hidden"), Content: sp("body")})
	require.NoError(t, err)
	_, err = e.posts.GetBySlug(ctx, alice, draft.Slug)
	requireKind(t, err, apperr.KindNotFound)
}

func TestPostToggleLikeIdempotent(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Likeable")

	res, err := e.posts.ToggleLike(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Liked: true, LikeCount: 1}, res)

	v, err := e.posts.GetBySlug(ctx, bob, p.Slug)
	require.NoError(t, err)
	assert.True(t, v.HasLiked)
	assert.Equal(t, 1, v.LikeCount)

	res, err = e.posts.ToggleLike(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Liked: false, LikeCount: 0}, res)

	_, err = e.posts.ToggleLike(ctx, models.Anonymous, p.ID)
	requireKind(t, err, apperr.KindForbidden)
	_, err = e.posts.ToggleLike(ctx, bob, "missing")
	requireKind(t, err, apperr.KindNotFound)
}

func TestPostDeleteCascadesAndRefreshesCategory(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	cat, err := e.categories.Create(ctx, root, models.CategoryInput{Name: sp("Go")})
	require.NoError(t, err)
	p, err := e.posts.Create(ctx, alice, models.PostInput{
		Title:         sp("With comments"),
		Content:       sp("body"),
		Status:        sp("published"),
		CategoryID:    sp(cat.ID),
		FeaturedImage: sp("/uploads/images/image-1.png"),
	})
	require.NoError(t, err)

	got, err := e.categories.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostCount)

	target := models.Target{Type: models.TargetPost, ID: p.ID}
	c1, err := e.comments.Create(ctx, bob, target, CommentInput{Content: "first"})
	require.NoError(t, err)
	_, err = e.comments.Create(ctx, alice, target, CommentInput{Content: "reply", ParentCommentID: &c1.ID})
	require.NoError(t, err)

	requireKind(t, e.posts.Delete(ctx, bob, p.ID), apperr.KindForbidden)
	require.NoError(t, e.posts.Delete(ctx, alice, p.ID))

	_, err = e.comments.ListForTarget(ctx, alice, target, 1, 10)
	requireKind(t, err, apperr.KindNotFound)
	all, err := e.comments.ListAll(ctx, root, CommentQuery{})
	require.NoError(t, err)
	assert.Empty(t, all.Comments)

	assert.Contains(t, e.files.Deleted(), "/uploads/images/image-1.png")
	got, err = e.categories.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PostCount)
}

func TestPostListFiltersAndOwnDrafts(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	cat, err := e.categories.Create(ctx, root, models.CategoryInput{Name: sp("Golang")})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := e.posts.Create(ctx, alice, models.PostInput{
			Title:      sp(fmt.Sprintf("Go post %d", i)),
			Content:    sp("gophers everywhere"),
			Status:     sp("published"),
			CategoryID: sp(cat.ID),
			Tags:       &[]string{"go"},
		})
		require.NoError(t, err)
	}
	e.publishedPost(t, bob, "Rust post")
	_, err = e.posts.Create(ctx, alice, models.PostInput{Title: sp("Alice draft"), Content: sp("wip")})
	require.NoError(t, err)

	list, err := e.posts.List(ctx, models.Anonymous, PostQuery{Category: cat.Slug, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Pagination.TotalItems)
	assert.Equal(t, 2, list.Pagination.Total)
	assert.True(t, list.Pagination.HasNext)
	require.Len(t, list.Posts, 2)
	assert.Equal(t, "Go post 2", list.Posts[0].Title)
	assert.Empty(t, list.Posts[0].Content)

	list, err = e.posts.List(ctx, models.Anonymous, PostQuery{Sort: "oldest", Tag: "go"})
	require.NoError(t, err)
	require.Len(t, list.Posts, 3)
	assert.Equal(t, "Go post 0", list.Posts[0].Title)

	list, err = e.posts.List(ctx, alice, PostQuery{Author: alice.ID, Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, 4, list.Pagination.TotalItems)

	list, err = e.posts.List(ctx, bob, PostQuery{Author: alice.ID, Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Pagination.TotalItems)

	list, err = e.posts.List(ctx, models.Anonymous, PostQuery{Search: "RUST"})
	require.NoError(t, err)
	require.Len(t, list.Posts, 1)
	assert.Equal(t, bob.ID, list.Posts[0].AuthorID)
}

func TestFeaturedPostsUseCache(t *testing.T) {
	fm := new(featuredMock)
	fm.On("Invalidate", mock.Anything).Return(nil)
	e := newEnv(t, fm)
	ctx := context.Background()

	star, err := e.posts.Create(ctx, alice, models.PostInput{
		Title:    sp("Star"),
		Content:  sp("shiny"),
		Status:   sp("published"),
		Featured: bp(true),
	})
	require.NoError(t, err)
	plain := e.publishedPost(t, alice, "Plain")

	fm.On("Get", mock.Anything, defaultFeaturedLimit).Return(nil, false, nil).Once()
	fm.On("Set", mock.Anything, defaultFeaturedLimit, []string{star.ID}).Return(nil).Once()

	views, err := e.posts.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Star", views[0].Title)
	assert.Empty(t, views[0].Content)
	assert.Zero(t, views[0].LikeCount)

	// лайк не сбрасывает кэш, но счётчик в ответе свежий
	_, err = e.posts.ToggleLike(ctx, bob, star.ID)
	require.NoError(t, err)

	// неизбранный и пропавший id из кэша в ответ не попадают
	fm.On("Get", mock.Anything, defaultFeaturedLimit).Return([]string{"missing", star.ID, plain.ID}, true, nil).Once()

	views, err = e.posts.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, star.ID, views[0].ID)
	assert.Equal(t, 1, views[0].LikeCount)
	assert.Empty(t, views[0].Content)

	fm.AssertExpectations(t)
	fm.AssertNumberOfCalls(t, "Invalidate", 2)
	fm.AssertNumberOfCalls(t, "Set", 1)
}
