package services

import (
	"context"
	"math"
	"strings"
	"testing"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postTarget(p *models.PostView) models.Target {
	return models.Target{Type: models.TargetPost, ID: p.ID}
}

func TestThreadedReplyScenario(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Thread")

	c1, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "top"})
	require.NoError(t, err)
	assert.Empty(t, c1.ReplyIDs)
	assert.True(t, c1.Approved)
	assert.False(t, c1.IsEdited)

	c2, err := e.comments.Create(ctx, alice, postTarget(p), CommentInput{Content: "reply", ParentCommentID: &c1.ID})
	require.NoError(t, err)

	parent, err := e.store.Comments().GetByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{c2.ID}, parent.ReplyIDs)

	n, err := e.comments.Delete(ctx, bob, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = e.store.Comments().GetByID(ctx, c1.ID)
	requireKind(t, err, apperr.KindNotFound)
	_, err = e.store.Comments().GetByID(ctx, c2.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestCascadeDeleteRemovesNPlusOne(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Cascade")

	top, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "top"})
	require.NoError(t, err)
	other, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "other"})
	require.NoError(t, err)
	const n = 4
	for i := 0; i < n; i++ {
		_, err := e.comments.Create(ctx, alice, postTarget(p), CommentInput{Content: "r", ParentCommentID: &top.ID})
		require.NoError(t, err)
	}

	removed, err := e.comments.Delete(ctx, root, top.ID)
	require.NoError(t, err)
	assert.Equal(t, n+1, removed)

	all, err := e.comments.ListAll(ctx, root, CommentQuery{})
	require.NoError(t, err)
	require.Len(t, all.Comments, 1)
	assert.Equal(t, other.ID, all.Comments[0].ID)
	assert.Empty(t, all.Comments[0].ReplyIDs)
}

func TestDeleteReplyUnlinksFromParent(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Unlink")

	top, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "top"})
	require.NoError(t, err)
	r1, err := e.comments.Create(ctx, alice, postTarget(p), CommentInput{Content: "r1", ParentCommentID: &top.ID})
	require.NoError(t, err)
	r2, err := e.comments.Create(ctx, alice, postTarget(p), CommentInput{Content: "r2", ParentCommentID: &top.ID})
	require.NoError(t, err)

	_, err = e.comments.Delete(ctx, bob, r1.ID)
	requireKind(t, err, apperr.KindForbidden)
	n, err := e.comments.Delete(ctx, alice, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	parent, err := e.store.Comments().GetByID(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{r2.ID}, parent.ReplyIDs)
}

func TestReplyValidation(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p1 := e.publishedPost(t, alice, "One")
	p2 := e.publishedPost(t, alice, "Two")

	top, err := e.comments.Create(ctx, bob, postTarget(p1), CommentInput{Content: "top"})
	require.NoError(t, err)

	_, err = e.comments.Create(ctx, bob, postTarget(p2), CommentInput{Content: "x", ParentCommentID: &top.ID})
	requireKind(t, err, apperr.KindValidation)

	_, err = e.comments.Create(ctx, bob, postTarget(p1), CommentInput{Content: "x", ParentCommentID: sp("missing")})
	requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "Parent comment not found", apperr.PublicMessage(err))

	reply, err := e.comments.Create(ctx, alice, postTarget(p1), CommentInput{Content: "reply", ParentCommentID: &top.ID})
	require.NoError(t, err)
	_, err = e.comments.Create(ctx, bob, postTarget(p1), CommentInput{Content: "x", ParentCommentID: &reply.ID})
	requireKind(t, err, apperr.KindValidation)

	_, err = e.comments.Create(ctx, bob, models.Target{Type: models.TargetPost, ID: "missing"}, CommentInput{Content: "x"})
	requireKind(t, err, apperr.KindNotFound)

	_, err = e.comments.Create(ctx, bob, postTarget(p1), CommentInput{Content: strings.Repeat("a", 1001)})
	requireKind(t, err, apperr.KindValidation)
	_, err = e.comments.Create(ctx, bob, postTarget(p1), CommentInput{Content: "<b></b>"})
	requireKind(t, err, apperr.KindValidation)
}

func TestCommentsDisabled(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p, err := e.posts.Create(ctx, alice, models.PostInput{
		Title:           sp("Quiet"),
		Content:         sp("body"),
		Status:          sp("published"),
		CommentsEnabled: bp(false),
	})
	require.NoError(t, err)

	_, err = e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "hello"})
	requireKind(t, err, apperr.KindForbidden)
}

func TestCommentEditMarksEdited(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Edit")

	c, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "<i>first</i>"})
	require.NoError(t, err)
	assert.Equal(t, "first", c.Content)
	assert.Nil(t, c.EditedAt)

	_, err = e.comments.Update(ctx, alice, c.ID, "stolen")
	requireKind(t, err, apperr.KindForbidden)

	same, err := e.comments.Update(ctx, bob, c.ID, "first")
	require.NoError(t, err)
	assert.False(t, same.IsEdited)

	edited, err := e.comments.Update(ctx, bob, c.ID, "second")
	require.NoError(t, err)
	assert.True(t, edited.IsEdited)
	require.NotNil(t, edited.EditedAt)

	stored, err := e.store.Comments().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", stored.Content)
	assert.True(t, stored.IsEdited)
}

func TestCommentToggleLike(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Likes")
	c, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "nice"})
	require.NoError(t, err)

	r1, err := e.comments.ToggleLike(ctx, alice, c.ID)
	require.NoError(t, err)
	r2, err := e.comments.ToggleLike(ctx, root, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, r2.LikeCount)
	assert.True(t, r1.Liked)

	list, err := e.comments.ListForTarget(ctx, alice, postTarget(p), 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Comments, 1)
	assert.True(t, list.Comments[0].HasLiked)
	assert.Equal(t, 2, list.Comments[0].LikeCount)

	r3, err := e.comments.ToggleLike(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Liked: false, LikeCount: 1}, r3)
}

func TestSetApprovalAndListing(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Listing")

	top1, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "older"})
	require.NoError(t, err)
	top2, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "newer"})
	require.NoError(t, err)
	good, err := e.comments.Create(ctx, alice, postTarget(p), CommentInput{Content: "good", ParentCommentID: &top1.ID})
	require.NoError(t, err)
	bad, err := e.comments.Create(ctx, alice, postTarget(p), CommentInput{Content: "bad", ParentCommentID: &top1.ID})
	require.NoError(t, err)

	_, err = e.comments.SetApproval(ctx, bob, bad.ID, false)
	requireKind(t, err, apperr.KindForbidden)
	hidden, err := e.comments.SetApproval(ctx, root, bad.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.CommentRejected, hidden.Status)
	assert.False(t, hidden.Approved)

	list, err := e.comments.ListForTarget(ctx, models.Anonymous, postTarget(p), 1, 10)
	require.NoError(t, err)
	require.Len(t, list.Comments, 2)
	assert.Equal(t, top2.ID, list.Comments[0].ID)
	assert.Equal(t, top1.ID, list.Comments[1].ID)
	require.Len(t, list.Comments[1].Replies, 1)
	assert.Equal(t, good.ID, list.Comments[1].Replies[0].ID)
	assert.Equal(t, 2, list.Comments[1].ReplyCount)

	adminList, err := e.comments.ListForTarget(ctx, root, postTarget(p), 1, 10)
	require.NoError(t, err)
	assert.Len(t, adminList.Comments[1].Replies, 2)

	// скрытый родитель не прячет одобренные ответы
	_, err = e.comments.SetApproval(ctx, root, top1.ID, false)
	require.NoError(t, err)
	list, err = e.comments.ListForTarget(ctx, models.Anonymous, postTarget(p), 1, 10)
	require.NoError(t, err)
	assert.Len(t, list.Comments, 1)
	stored, err := e.store.Comments().GetByID(ctx, good.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsApproved())

	notApproved := false
	rejected, err := e.comments.ListAll(ctx, root, CommentQuery{Approved: &notApproved})
	require.NoError(t, err)
	assert.Len(t, rejected.Comments, 2)

	_, err = e.comments.ListAll(ctx, alice, CommentQuery{})
	requireKind(t, err, apperr.KindForbidden)
}

func TestCommentPagination(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Paged")
	for i := 0; i < 5; i++ {
		_, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "c"})
		require.NoError(t, err)
	}

	page, err := e.comments.ListForTarget(ctx, alice, postTarget(p), 3, 2)
	require.NoError(t, err)
	assert.Len(t, page.Comments, 1)
	assert.Equal(t, models.Pagination{Current: 3, Total: 3, TotalItems: 5, HasNext: false, HasPrev: true}, page.Pagination)
}

func TestListForTargetHugePage(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	p := e.publishedPost(t, alice, "Deep pages")
	_, err := e.comments.Create(ctx, bob, postTarget(p), CommentInput{Content: "first"})
	require.NoError(t, err)

	list, err := e.comments.ListForTarget(ctx, bob, postTarget(p), math.MaxInt64/50, 100)
	require.NoError(t, err)
	assert.Empty(t, list.Comments)
	assert.Equal(t, 1, list.Pagination.TotalItems)
	assert.False(t, list.Pagination.HasNext)
}
