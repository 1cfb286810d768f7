package reqctx

import (
	"context"

	"blogplatform/internal/models"
)

type key int

const (
	keyRequestID key = iota
	keyActor
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

func WithActor(ctx context.Context, a models.Actor) context.Context {
	return context.WithValue(ctx, keyActor, a)
}

// Actor возвращает вызывающего; без токена, models.Anonymous.
func Actor(ctx context.Context) models.Actor {
	if v, ok := ctx.Value(keyActor).(models.Actor); ok {
		return v
	}
	return models.Anonymous
}
