package memory

import (
	"context"

	"blogplatform/internal/models"
)

type adminSettingsRepo struct{ s *Store }

func cloneSettings(s *models.AdminSettings) *models.AdminSettings {
	out := *s
	out.Skills = cloneStrings(s.Skills)
	return &out
}

func (r *adminSettingsRepo) GetOrCreate(_ context.Context, defaults *models.AdminSettings) (*models.AdminSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.settings == nil {
		r.s.settings = cloneSettings(defaults)
	}
	return cloneSettings(r.s.settings), nil
}

func (r *adminSettingsRepo) Save(_ context.Context, s *models.AdminSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	next := cloneSettings(s)
	if r.s.settings != nil {
		next.CreatedAt = r.s.settings.CreatedAt
		next.JoinDate = r.s.settings.JoinDate
	}
	r.s.settings = next
	return nil
}
