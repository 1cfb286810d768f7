// Package cache: кэш списка избранных постов.
package cache

import "context"

// Featured хранит только id постов: лайки и просмотры читаются из хранилища.
type Featured interface {
	// Get возвращает ok=false при промахе.
	Get(ctx context.Context, limit int) (ids []string, ok bool, err error)
	Set(ctx context.Context, limit int, ids []string) error
	Invalidate(ctx context.Context) error
}

// Noop: кэш выключен (REDIS_ADDR не задан).
type Noop struct{}

func (Noop) Get(context.Context, int) ([]string, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, int, []string) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }
