package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"blogplatform/internal/models"
)

const adminSettingsColumns = `id, first_name, last_name, title, bio, email, phone, location, website,
	social_media, blog_title, blog_subtitle, blog_description, avatar_url, skills, join_date, created_at, updated_at`

type adminSettingsRepo struct{ db *pgxpool.Pool }

func NewAdminSettingsRepo(db *pgxpool.Pool) AdminSettingsRepo { return &adminSettingsRepo{db: db} }

func (r *adminSettingsRepo) GetOrCreate(ctx context.Context, defaults *models.AdminSettings) (*models.AdminSettings, error) {
	if err := r.upsert(ctx, defaults, false); err != nil {
		return nil, err
	}

	var s models.AdminSettings
	var social []byte
	err := r.db.QueryRow(ctx, `SELECT `+adminSettingsColumns+` FROM admin_settings WHERE id=$1`, defaults.ID).Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Title, &s.Bio, &s.Email, &s.Phone, &s.Location, &s.Website,
		&social, &s.BlogTitle, &s.BlogSubtitle, &s.BlogDescription, &s.AvatarURL, &s.Skills,
		&s.JoinDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err, "Settings")
	}
	_ = json.Unmarshal(social, &s.SocialMedia)
	return &s, nil
}

func (r *adminSettingsRepo) Save(ctx context.Context, s *models.AdminSettings) error {
	return r.upsert(ctx, s, true)
}

// upsert при overwrite=false вставляет, только если записи ещё нет.
func (r *adminSettingsRepo) upsert(ctx context.Context, s *models.AdminSettings, overwrite bool) error {
	social, _ := json.Marshal(s.SocialMedia)
	q := `INSERT INTO admin_settings (` + adminSettingsColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::jsonb,$11,$12,$13,$14,$15,$16,$17,$18)`
	if overwrite {
		q += ` ON CONFLICT (id) DO UPDATE SET
			first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name, title=EXCLUDED.title,
			bio=EXCLUDED.bio, email=EXCLUDED.email, phone=EXCLUDED.phone, location=EXCLUDED.location,
			website=EXCLUDED.website, social_media=EXCLUDED.social_media, blog_title=EXCLUDED.blog_title,
			blog_subtitle=EXCLUDED.blog_subtitle, blog_description=EXCLUDED.blog_description,
			avatar_url=EXCLUDED.avatar_url, skills=EXCLUDED.skills, updated_at=EXCLUDED.updated_at`
	} else {
		q += ` ON CONFLICT (id) DO NOTHING`
	}
	_, err := r.db.Exec(ctx, q,
		s.ID, s.FirstName, s.LastName, s.Title, s.Bio, s.Email, s.Phone, s.Location, s.Website,
		social, s.BlogTitle, s.BlogSubtitle, s.BlogDescription, s.AvatarURL, nonNil(s.Skills),
		s.JoinDate, s.CreatedAt, s.UpdatedAt,
	)
	return mapErr(err, "Settings")
}
