package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
)

type commentRepo struct{ s *Store }

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	out.ParentCommentID = clonePtr(c.ParentCommentID)
	out.ReplyIDs = cloneStrings(c.ReplyIDs)
	out.EditedAt = clonePtr(c.EditedAt)
	out.Likes = nil
	return &out
}

func (r *commentRepo) out(c *models.Comment) *models.Comment {
	o := cloneComment(c)
	if o.ReplyIDs == nil {
		o.ReplyIDs = []string{}
	}
	o.Likes = r.s.likesOf(models.Target{Type: models.TargetComment, ID: c.ID})
	return o
}

func (r *commentRepo) Create(_ context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.ParentCommentID != nil {
		parent, ok := r.s.comments[*c.ParentCommentID]
		if !ok || parent.Target() != c.Target() {
			return apperr.NotFound("Parent comment not found")
		}
		parent.ReplyIDs = append(parent.ReplyIDs, c.ID)
	}
	stored := cloneComment(c)
	if stored.ReplyIDs == nil {
		stored.ReplyIDs = []string{}
	}
	r.s.comments[c.ID] = stored
	return nil
}

func (r *commentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment not found")
	}
	return r.out(c), nil
}

func (r *commentRepo) Update(_ context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.comments[c.ID]
	if !ok {
		return apperr.NotFound("Comment not found")
	}
	cur.Content = c.Content
	cur.IsEdited = c.IsEdited
	cur.EditedAt = clonePtr(c.EditedAt)
	cur.UpdatedAt = c.UpdatedAt
	return nil
}

func (r *commentRepo) SetStatus(_ context.Context, id string, status models.CommentStatus, at time.Time) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment not found")
	}
	cur.Status = status
	cur.UpdatedAt = at
	return r.out(cur), nil
}

func (r *commentRepo) Delete(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return 0, apperr.NotFound("Comment not found")
	}

	removed := 0
	for _, rid := range c.ReplyIDs {
		if _, ok := r.s.comments[rid]; ok {
			r.s.dropComment(rid)
			removed++
		}
	}
	// ответы, на которые почему-то нет ссылки у родителя
	for cid, other := range r.s.comments {
		if other.ParentCommentID != nil && *other.ParentCommentID == id {
			r.s.dropComment(cid)
			removed++
		}
	}

	if c.ParentCommentID != nil {
		if parent, ok := r.s.comments[*c.ParentCommentID]; ok {
			parent.ReplyIDs = removeString(parent.ReplyIDs, id)
		}
	}
	r.s.dropComment(id)
	return removed + 1, nil
}

func (s *Store) dropComment(id string) {
	delete(s.comments, id)
	delete(s.likes, models.Target{Type: models.TargetComment, ID: id})
}

func (s *Store) deleteTargetComments(t models.Target) {
	for id, c := range s.comments {
		if c.Target() == t {
			s.dropComment(id)
		}
	}
}

func (r *commentRepo) ListTopLevel(_ context.Context, target models.Target, status models.CommentStatus, p models.Page) ([]*models.Comment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var list []*models.Comment
	for _, c := range r.s.comments {
		if c.Target() == target && c.IsTopLevel() && c.Status == status {
			list = append(list, r.out(c))
		}
	}
	sortNewest(list)
	return page(list, p), len(list), nil
}

func (r *commentRepo) ListReplies(_ context.Context, parentIDs []string, onlyApproved bool) ([]*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	parents := make(map[string]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = struct{}{}
	}
	var list []*models.Comment
	for _, c := range r.s.comments {
		if c.ParentCommentID == nil {
			continue
		}
		if _, ok := parents[*c.ParentCommentID]; !ok {
			continue
		}
		if onlyApproved && !c.IsApproved() {
			continue
		}
		list = append(list, r.out(c))
	}
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *commentRepo) ListAll(_ context.Context, f models.CommentFilter) ([]*models.Comment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var list []*models.Comment
	for _, c := range r.s.comments {
		if f.Approved != nil && c.IsApproved() != *f.Approved {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Content), search) {
			continue
		}
		list = append(list, r.out(c))
	}
	sortNewest(list)
	return page(list, f.Page), len(list), nil
}

func (r *commentRepo) CountApproved(_ context.Context, targetType models.TargetType, ids []string) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make(map[string]int, len(ids))
	for _, c := range r.s.comments {
		if c.TargetType != targetType || !c.IsApproved() {
			continue
		}
		if _, ok := want[c.TargetID]; ok {
			out[c.TargetID]++
		}
	}
	return out, nil
}

func sortNewest(list []*models.Comment) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
