package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectThenResubmit(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	c := e.textContent(t, alice, "My article")
	assert.Equal(t, models.StatusPending, c.Status)
	assert.Equal(t, "my-article", c.Slug)
	assert.Equal(t, "/content/my-article", c.URL)

	_, err := e.content.Reject(ctx, root, c.ID, "  ")
	requireKind(t, err, apperr.KindValidation)

	rejected, err := e.content.Reject(ctx, root, c.ID, "needs sources")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.Equal(t, "needs sources", rejected.ModerationNotes)
	assert.Nil(t, rejected.PublishedAt)

	edited, err := e.content.Update(ctx, alice, c.ID, models.UserContentInput{TextContent: sp("Long form text with sources")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, edited.Status)
	assert.Empty(t, edited.ModerationNotes)

	approved, err := e.content.Approve(ctx, root, c.ID, "", false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	require.NotNil(t, approved.PublishedAt)
}

func TestModerationGate(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	c := e.textContent(t, alice, "Gate")

	_, err := e.content.Approve(ctx, alice, c.ID, "", false)
	requireKind(t, err, apperr.KindForbidden)
	_, err = e.content.Publish(ctx, root, c.ID)
	requireKind(t, err, apperr.KindInvalidState)

	first, err := e.content.Approve(ctx, root, c.ID, "fine", true)
	require.NoError(t, err)
	require.NotNil(t, first.PublishedAt)
	publishedAt := *first.PublishedAt
	assert.True(t, first.Featured)
	assert.Equal(t, root.ID, *first.ModeratedBy)

	_, err = e.content.Approve(ctx, root, c.ID, "", false)
	requireKind(t, err, apperr.KindInvalidState)
	_, err = e.content.Reject(ctx, root, c.ID, "too late")
	requireKind(t, err, apperr.KindInvalidState)

	published, err := e.content.Publish(ctx, root, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, published.Status)
	assert.Equal(t, publishedAt, *published.PublishedAt)
	assert.True(t, published.Featured)

	_, err = e.content.Publish(ctx, root, c.ID)
	requireKind(t, err, apperr.KindInvalidState)
}

func TestEditRulesByStatus(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	c := e.textContent(t, alice, "Rules")

	_, err := e.content.Update(ctx, bob, c.ID, models.UserContentInput{Title: sp("Mine now")})
	requireKind(t, err, apperr.KindForbidden)

	// featured автор себе не ставит
	upd, err := e.content.Update(ctx, alice, c.ID, models.UserContentInput{Featured: bp(true)})
	require.NoError(t, err)
	assert.False(t, upd.Featured)

	_, err = e.content.Approve(ctx, root, c.ID, "", false)
	require.NoError(t, err)

	_, err = e.content.Update(ctx, alice, c.ID, models.UserContentInput{Title: sp("Sneaky")})
	requireKind(t, err, apperr.KindInvalidState)

	byAdmin, err := e.content.Update(ctx, root, c.ID, models.UserContentInput{Title: sp("Edited by admin"), Featured: bp(true)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, byAdmin.Status)
	assert.Equal(t, "edited-by-admin", byAdmin.Slug)
	assert.True(t, byAdmin.Featured)
	assert.Equal(t, alice.ID, byAdmin.AuthorID)
}

func TestAdminEditOfRejectedKeepsStatus(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	c := e.textContent(t, alice, "Spam")
	_, err := e.content.Reject(ctx, root, c.ID, "spam")
	require.NoError(t, err)

	v, err := e.content.Update(ctx, root, c.ID, models.UserContentInput{Description: sp("cleaned up")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, v.Status)
	assert.Equal(t, "spam", v.ModerationNotes)
}

func TestModerationNotesProjection(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	c := e.textContent(t, alice, "Notes")
	_, err := e.content.Reject(ctx, root, c.ID, "off topic")
	require.NoError(t, err)

	mine, err := e.content.ListMine(ctx, alice, "rejected", 1, 10)
	require.NoError(t, err)
	require.Len(t, mine.Content, 1)
	assert.Empty(t, mine.Content[0].ModerationNotes)
	assert.Nil(t, mine.Content[0].ModeratedBy)

	// в хранилище заметки остаются
	stored, err := e.store.UserContent().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "off topic", stored.ModerationNotes)

	other := e.textContent(t, alice, "Other")
	queue, err := e.content.PendingQueue(ctx, root, 1, 0)
	require.NoError(t, err)
	require.Len(t, queue.Content, 1)
	assert.Equal(t, other.ID, queue.Content[0].ID)

	_, err = e.content.PendingQueue(ctx, alice, 1, 0)
	requireKind(t, err, apperr.KindForbidden)

	_, err = e.content.ListMine(ctx, alice, "bogus", 1, 10)
	requireKind(t, err, apperr.KindValidation)
}

func TestUserContentPayloadRules(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	base := func() models.UserContentInput {
		return models.UserContentInput{
			Title:       sp("Video"),
			Description: sp("desc"),
			ContentType: sp("video"),
			Category:    sp("music"),
		}
	}

	in := base()
	in.Thumbnail = sp("thumbs/a.png")
	_, err := e.content.Create(ctx, alice, in)
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Video file or video URL is required for video content", apperr.PublicMessage(err))
	assert.Equal(t, []string{"thumbs/a.png"}, e.files.Deleted())

	in = base()
	in.VideoURL = sp("https://video.example.com/v.mp4")
	in.TextContent = sp("ignored")
	v, err := e.content.Create(ctx, alice, in)
	require.NoError(t, err)
	require.NotNil(t, v.VideoFile)
	assert.Equal(t, "https://video.example.com/v.mp4", v.VideoFile.URL)
	assert.Empty(t, v.TextContent)
	assert.Zero(t, v.ReadingTime)

	in = base()
	in.ContentType = sp("text")
	_, err = e.content.Create(ctx, alice, in)
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Text content is required for text articles", apperr.PublicMessage(err))

	in = base()
	in.Category = sp("cooking")
	in.MetaTitle = sp(strings.Repeat("m", 61))
	_, err = e.content.Create(ctx, alice, in)
	requireKind(t, err, apperr.KindValidation)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Len(t, ae.Details, 2)

	_, err = e.content.Create(ctx, models.Anonymous, base())
	requireKind(t, err, apperr.KindForbidden)
}

func TestUserContentTagsAndReadingTime(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	v, err := e.content.Create(ctx, alice, models.UserContentInput{
		Title:       sp("Tags"),
		Description: sp("desc"),
		ContentType: sp("text"),
		TextContent: sp(strings.Repeat("word ", 401)),
		Category:    sp("science"),
		Tags:        &[]string{"Go, WEB", "go"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, v.Tags)
	assert.Equal(t, 3, v.ReadingTime)
}

func TestUserContentVisibility(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	pending := e.textContent(t, alice, "Pending")
	approved := e.textContent(t, alice, "Approved")
	published := e.textContent(t, bob, "Published")
	rejected := e.textContent(t, bob, "Rejected")
	for _, id := range []string{approved.ID, published.ID} {
		_, err := e.content.Approve(ctx, root, id, "", false)
		require.NoError(t, err)
	}
	_, err := e.content.Publish(ctx, root, published.ID)
	require.NoError(t, err)
	_, err = e.content.Reject(ctx, root, rejected.ID, "no")
	require.NoError(t, err)

	_, err = e.content.GetBySlug(ctx, alice, pending.Slug)
	requireKind(t, err, apperr.KindNotFound)
	_, err = e.content.GetBySlug(ctx, root, rejected.Slug)
	requireKind(t, err, apperr.KindNotFound)

	got, err := e.content.GetBySlug(ctx, models.Anonymous, approved.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)
	got, err = e.content.GetBySlug(ctx, models.Anonymous, approved.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	list, err := e.content.ListPublic(ctx, models.Anonymous, UserContentQuery{Category: "all", ContentType: "all"})
	require.NoError(t, err)
	require.Len(t, list.Content, 2)
	seen := map[string]bool{}
	for _, c := range list.Content {
		seen[c.ID] = true
	}
	assert.True(t, seen[approved.ID])
	assert.True(t, seen[published.ID])

	byBob, err := e.content.ListPublic(ctx, models.Anonymous, UserContentQuery{Author: bob.ID})
	require.NoError(t, err)
	require.Len(t, byBob.Content, 1)
	assert.Equal(t, published.ID, byBob.Content[0].ID)

	none, err := e.content.ListPublic(ctx, models.Anonymous, UserContentQuery{Featured: true})
	require.NoError(t, err)
	assert.Empty(t, none.Content)

	st, err := e.content.Stats(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationStats{
		Pending: 1, Approved: 1, Rejected: 1, Published: 1,
		TextContent: 2, Total: 3,
	}, st)
	_, err = e.content.Stats(ctx, bob)
	requireKind(t, err, apperr.KindForbidden)
}

func TestUserContentComments(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	c := e.textContent(t, alice, "Discuss")

	cv, count, err := e.content.AddComment(ctx, bob, c.ID, "first!")
	require.NoError(t, err)
	assert.False(t, cv.Approved)
	assert.Equal(t, models.CommentPending, cv.Status)
	assert.Zero(t, count)

	list, err := e.content.ListComments(ctx, models.Anonymous, c.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list.Comments)

	_, err = e.comments.SetApproval(ctx, root, cv.ID, true)
	require.NoError(t, err)
	_, count, err = e.content.AddComment(ctx, alice, c.ID, "thanks")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	list, err = e.content.ListComments(ctx, models.Anonymous, c.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Comments, 1)
	assert.Equal(t, cv.ID, list.Comments[0].ID)

	_, _, err = e.content.AddComment(ctx, bob, "missing", "hello")
	requireKind(t, err, apperr.KindNotFound)
}

func TestUserContentLikeAndDelete(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	in := models.UserContentInput{
		Title:         sp("Clip"),
		Description:   sp("desc"),
		ContentType:   sp("video"),
		Category:      sp("art"),
		VideoFile:     &models.VideoFile{Filename: "v.mp4", Path: "videos/v.mp4", MimeType: "video/mp4"},
		Thumbnail:     sp("thumbs/v.png"),
		FeaturedImage: sp("images/v.jpg"),
	}
	c, err := e.content.Create(ctx, alice, in)
	require.NoError(t, err)
	assert.Equal(t, "thumbs/v.png", c.VideoFile.Thumbnail)

	dup, err := e.content.Create(ctx, bob, models.UserContentInput{
		Title: sp("Clip"), Description: sp("desc"), ContentType: sp("text"), TextContent: sp("t"), Category: sp("art"),
	})
	require.NoError(t, err)
	assert.Equal(t, "clip-1", dup.Slug)

	r, err := e.content.ToggleLike(ctx, bob, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Liked: true, LikeCount: 1}, r)
	_, err = e.content.ToggleLike(ctx, models.Anonymous, c.ID)
	requireKind(t, err, apperr.KindForbidden)

	// замена видео удаляет старый файл
	_, err = e.content.Update(ctx, alice, c.ID, models.UserContentInput{
		VideoFile: &models.VideoFile{Filename: "w.mp4", Path: "videos/w.mp4"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"videos/v.mp4"}, e.files.Deleted())

	require.ErrorIs(t, e.content.Delete(ctx, bob, c.ID), apperr.ErrForbidden)
	require.NoError(t, e.content.Delete(ctx, alice, c.ID))
	assert.ElementsMatch(t, []string{"videos/v.mp4", "videos/w.mp4", "thumbs/v.png", "images/v.jpg"}, e.files.Deleted())

	_, err = e.store.UserContent().GetByID(ctx, c.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestPendingQueueReturnsWholeQueue(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	created := make([]string, 0, 60)
	for i := 1; i <= 60; i++ {
		c := e.textContent(t, alice, fmt.Sprintf("Queued %d", i))
		created = append(created, c.ID)
	}

	queue, err := e.content.PendingQueue(ctx, root, 0, 0)
	require.NoError(t, err)
	require.Len(t, queue.Content, 60)
	assert.Equal(t, 60, queue.Pagination.TotalItems)
	assert.Equal(t, 1, queue.Pagination.Total)
	assert.False(t, queue.Pagination.HasNext)
	assert.Equal(t, created[59], queue.Content[0].ID)
	assert.Equal(t, created[0], queue.Content[59].ID)

	// явный limit включает постраничный вывод
	paged, err := e.content.PendingQueue(ctx, root, 2, 25)
	require.NoError(t, err)
	require.Len(t, paged.Content, 25)
	assert.Equal(t, created[34], paged.Content[0].ID)
	assert.Equal(t, 3, paged.Pagination.Total)
	assert.True(t, paged.Pagination.HasNext)
}
