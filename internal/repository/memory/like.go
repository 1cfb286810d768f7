package memory

import (
	"context"
	"time"

	"blogplatform/internal/models"
)

type likeRepo struct{ s *Store }

func (r *likeRepo) Toggle(_ context.Context, target models.Target, userID string, at time.Time) (models.LikeResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	next, liked := r.s.likes[target].Toggle(userID, at)
	if len(next) == 0 {
		delete(r.s.likes, target)
	} else {
		r.s.likes[target] = next
	}
	return models.LikeResult{Liked: liked, LikeCount: next.Count()}, nil
}

func (r *likeRepo) ListFor(_ context.Context, targetType models.TargetType, ids []string) (map[string]models.LikeSet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]models.LikeSet, len(ids))
	for _, id := range ids {
		if l := r.s.likes[models.Target{Type: targetType, ID: id}]; len(l) > 0 {
			out[id] = append(models.LikeSet(nil), l...)
		}
	}
	return out, nil
}
