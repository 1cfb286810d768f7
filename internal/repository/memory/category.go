package memory

import (
	"context"
	"sort"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
	"blogplatform/internal/repository"
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) conflict(c *models.Category) error {
	for id, other := range r.s.categories {
		if id == c.ID {
			continue
		}
		if other.Name == c.Name {
			return apperr.Conflict("Category with this name already exists", repository.FieldName)
		}
		if other.Slug == c.Slug {
			return apperr.Conflict("Category with this slug already exists", repository.FieldSlug)
		}
	}
	return nil
}

func (r *categoryRepo) Create(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.conflict(c); err != nil {
		return err
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, apperr.NotFound("Category not found")
	}
	cp := *c
	return &cp, nil
}

func (r *categoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("Category not found")
}

func (r *categoryRepo) List(_ context.Context) ([]*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]*models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *categoryRepo) Update(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.categories[c.ID]
	if !ok {
		return apperr.NotFound("Category not found")
	}
	if err := r.conflict(c); err != nil {
		return err
	}
	cp := *c
	cp.PostCount = cur.PostCount
	cp.CreatedAt = cur.CreatedAt
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return apperr.NotFound("Category not found")
	}
	delete(r.s.categories, id)
	// ON DELETE SET NULL
	for _, p := range r.s.posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
		}
	}
	return nil
}

func (r *categoryRepo) RefreshPostCount(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return 0, apperr.NotFound("Category not found")
	}
	n := 0
	for _, p := range r.s.posts {
		if p.CategoryID != nil && *p.CategoryID == id && p.Status == models.PostPublished {
			n++
		}
	}
	c.PostCount = n
	return n, nil
}
