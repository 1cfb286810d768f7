// Package memory: хранилище в памяти для тестов и STORAGE=memory.
// Один мьютекс на всё хранилище: каждая операция репозитория атомарна целиком.
package memory

import (
	"sync"

	"blogplatform/internal/models"
	"blogplatform/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	mu         sync.RWMutex
	posts      map[string]*models.Post
	contents   map[string]*models.UserContent
	comments   map[string]*models.Comment
	categories map[string]*models.Category
	likes      map[models.Target]models.LikeSet
	settings   *models.AdminSettings
}

func New() *Store {
	return &Store{
		posts:      make(map[string]*models.Post),
		contents:   make(map[string]*models.UserContent),
		comments:   make(map[string]*models.Comment),
		categories: make(map[string]*models.Category),
		likes:      make(map[models.Target]models.LikeSet),
	}
}

func (s *Store) Posts() repository.PostRepo { return &postRepo{s} }
func (s *Store) Comments() repository.CommentRepo { return &commentRepo{s} }
func (s *Store) UserContent() repository.UserContentRepo { return &userContentRepo{s} }
func (s *Store) Likes() repository.LikeRepo { return &likeRepo{s} }
func (s *Store) Categories() repository.CategoryRepo { return &categoryRepo{s} }
func (s *Store) AdminSettings() repository.AdminSettingsRepo { return &adminSettingsRepo{s} }

func (s *Store) likesOf(t models.Target) models.LikeSet {
	return append(models.LikeSet(nil), s.likes[t]...)
}

// page режет уже отсортированный срез.
func page[T any](items []T, p models.Page) []T {
	start := p.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	if p.Unbounded() || p.Limit > len(items)-start {
		return items[start:]
	}
	return items[start : start+p.Limit]
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
