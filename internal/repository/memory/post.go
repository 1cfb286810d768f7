package memory

import (
	"context"
	"sort"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
	"blogplatform/internal/repository"
)

type postRepo struct{ s *Store }

func clonePost(p *models.Post) *models.Post {
	out := *p
	out.Tags = cloneStrings(p.Tags)
	out.CategoryID = clonePtr(p.CategoryID)
	out.PublishedAt = clonePtr(p.PublishedAt)
	out.Likes = nil
	return &out
}

func (r *postRepo) out(p *models.Post) *models.Post {
	c := clonePost(p)
	c.Likes = r.s.likesOf(p.CommentTarget())
	return c
}

func (r *postRepo) slugTaken(slug, exceptID string) bool {
	for id, p := range r.s.posts {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (r *postRepo) Create(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.slugTaken(p.Slug, "") {
		return apperr.Conflict("Post with this slug already exists", repository.FieldSlug)
	}
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *postRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post not found")
	}
	return r.out(p), nil
}

func (r *postRepo) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.posts {
		if p.Slug == slug {
			return r.out(p), nil
		}
	}
	return nil, apperr.NotFound("Post not found")
}

func (r *postRepo) GetByIDs(_ context.Context, ids []string) ([]*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.posts[id]; ok {
			out = append(out, r.out(p))
		}
	}
	return out, nil
}

func (r *postRepo) Update(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.posts[p.ID]
	if !ok {
		return apperr.NotFound("Post not found")
	}
	if r.slugTaken(p.Slug, p.ID) {
		return apperr.Conflict("Post with this slug already exists", repository.FieldSlug)
	}
	next := clonePost(p)
	next.Views = cur.Views
	next.CreatedAt = cur.CreatedAt
	r.s.posts[p.ID] = next
	return nil
}

func (r *postRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return apperr.NotFound("Post not found")
	}
	r.s.deleteTargetComments(p.CommentTarget())
	delete(r.s.likes, p.CommentTarget())
	delete(r.s.posts, id)
	return nil
}

func (r *postRepo) List(_ context.Context, f models.PostFilter) ([]*models.Post, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	var matched []*models.Post
	for _, p := range r.s.posts {
		if !f.AnyStatus && p.Status != models.PostPublished {
			continue
		}
		if f.FeaturedOnly && !p.Featured {
			continue
		}
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		if f.Tag != "" && !containsString(p.Tags, f.Tag) {
			continue
		}
		if search != "" && !postMatches(p, search) {
			continue
		}
		matched = append(matched, r.out(p))
	}

	sortPosts(matched, f.Sort)
	total := len(matched)
	return page(matched, f.Page), total, nil
}

func (r *postRepo) IncrementViews(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return 0, apperr.NotFound("Post not found")
	}
	p.Views++
	return p.Views, nil
}

func postMatches(p *models.Post, search string) bool {
	if strings.Contains(strings.ToLower(p.Title), search) || strings.Contains(strings.ToLower(p.Content), search) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(p.Tags, " ")), search)
}

func sortPosts(list []*models.Post, by models.PostSort) {
	stamp := func(p *models.Post) int64 {
		if p.PublishedAt != nil {
			return p.PublishedAt.UnixNano()
		}
		return p.CreatedAt.UnixNano()
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch by {
		case models.SortOldest:
			if stamp(a) != stamp(b) {
				return stamp(a) < stamp(b)
			}
			return a.ID < b.ID
		case models.SortViews:
			if a.Views != b.Views {
				return a.Views > b.Views
			}
		case models.SortLikes:
			if a.Likes.Count() != b.Likes.Count() {
				return a.Likes.Count() > b.Likes.Count()
			}
		}
		if stamp(a) != stamp(b) {
			return stamp(a) > stamp(b)
		}
		return a.ID > b.ID
	})
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
