package memory

import (
	"context"
	"sort"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
	"blogplatform/internal/repository"
)

type userContentRepo struct{ s *Store }

func cloneUserContent(c *models.UserContent) *models.UserContent {
	out := *c
	out.Tags = cloneStrings(c.Tags)
	out.VideoFile = clonePtr(c.VideoFile)
	out.ModeratedBy = clonePtr(c.ModeratedBy)
	out.ModeratedAt = clonePtr(c.ModeratedAt)
	out.PublishedAt = clonePtr(c.PublishedAt)
	if c.ExternalLinks != nil {
		out.ExternalLinks = append([]models.ExternalLink(nil), c.ExternalLinks...)
	}
	out.Likes = nil
	return &out
}

func (r *userContentRepo) out(c *models.UserContent) *models.UserContent {
	o := cloneUserContent(c)
	o.Likes = r.s.likesOf(c.CommentTarget())
	return o
}

func (r *userContentRepo) slugTaken(slug, exceptID string) bool {
	for id, c := range r.s.contents {
		if c.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (r *userContentRepo) Create(_ context.Context, c *models.UserContent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.slugTaken(c.Slug, "") {
		return apperr.Conflict("Content with this slug already exists", repository.FieldSlug)
	}
	r.s.contents[c.ID] = cloneUserContent(c)
	return nil
}

func (r *userContentRepo) GetByID(_ context.Context, id string) (*models.UserContent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.contents[id]
	if !ok {
		return nil, apperr.NotFound("Content not found")
	}
	return r.out(c), nil
}

func (r *userContentRepo) GetBySlug(_ context.Context, slug string) (*models.UserContent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.contents {
		if c.Slug == slug {
			return r.out(c), nil
		}
	}
	return nil, apperr.NotFound("Content not found")
}

func (r *userContentRepo) Save(_ context.Context, c *models.UserContent, expected models.ContentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.contents[c.ID]
	if !ok {
		return apperr.NotFound("Content not found")
	}
	if cur.Status != expected {
		return apperr.InvalidState("Content status was changed concurrently")
	}
	if r.slugTaken(c.Slug, c.ID) {
		return apperr.Conflict("Content with this slug already exists", repository.FieldSlug)
	}
	next := cloneUserContent(c)
	next.Views = cur.Views
	next.CreatedAt = cur.CreatedAt
	next.AuthorID = cur.AuthorID
	next.AuthorName = cur.AuthorName
	next.AuthorEmail = cur.AuthorEmail
	r.s.contents[c.ID] = next
	return nil
}

func (r *userContentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contents[id]
	if !ok {
		return apperr.NotFound("Content not found")
	}
	r.s.deleteTargetComments(c.CommentTarget())
	delete(r.s.likes, c.CommentTarget())
	delete(r.s.contents, id)
	return nil
}

func (r *userContentRepo) List(_ context.Context, f models.UserContentFilter) ([]*models.UserContent, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var list []*models.UserContent
	for _, c := range r.s.contents {
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, c.Status) {
			continue
		}
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.ContentType != "" && string(c.ContentType) != f.ContentType {
			continue
		}
		if f.AuthorID != "" && c.AuthorID != f.AuthorID {
			continue
		}
		if f.Featured && !c.Featured {
			continue
		}
		if search != "" && !contentMatches(c, search) {
			continue
		}
		list = append(list, r.out(c))
	}

	stamp := func(c *models.UserContent) int64 {
		if c.PublishedAt != nil {
			return c.PublishedAt.UnixNano()
		}
		return c.CreatedAt.UnixNano()
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if stamp(a) != stamp(b) {
			return stamp(a) > stamp(b)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return page(list, f.Page), len(list), nil
}

func (r *userContentRepo) IncrementViews(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contents[id]
	if !ok {
		return 0, apperr.NotFound("Content not found")
	}
	c.Views++
	return c.Views, nil
}

func (r *userContentRepo) Stats(_ context.Context) (models.ModerationStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var st models.ModerationStats
	for _, c := range r.s.contents {
		switch c.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusApproved:
			st.Approved++
		case models.StatusRejected:
			st.Rejected++
		case models.StatusPublished:
			st.Published++
		}
		// типы и featured считаются только по видимому контенту
		if c.Status == models.StatusApproved || c.Status == models.StatusPublished {
			switch c.ContentType {
			case models.ContentText:
				st.TextContent++
			case models.ContentVideo:
				st.VideoContent++
			}
			if c.Featured {
				st.Featured++
			}
		}
	}
	// total без очереди модерации
	st.Total = st.Approved + st.Rejected + st.Published
	return st, nil
}

func hasStatus(list []models.ContentStatus, s models.ContentStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func contentMatches(c *models.UserContent, search string) bool {
	for _, field := range []string{c.Title, c.Description, c.TextContent, strings.Join(c.Tags, " ")} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
