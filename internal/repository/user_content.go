package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
)

const userContentColumns = `id, title, slug, description, content_type, text_content, video_file, author_id,
	author_name, author_email, category, tags, featured_image, status, moderation_notes, moderated_by,
	moderated_at, published_at, featured, views, meta_title, meta_description, reading_time,
	external_links, created_at, updated_at`

type userContentRepo struct{ db *pgxpool.Pool }

func NewUserContentRepo(db *pgxpool.Pool) UserContentRepo { return &userContentRepo{db: db} }

func scanUserContent(row pgx.Row) (*models.UserContent, error) {
	var c models.UserContent
	var contentType, status string
	var videoRaw, linksRaw []byte
	if err := row.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &contentType, &c.TextContent, &videoRaw, &c.AuthorID,
		&c.AuthorName, &c.AuthorEmail, &c.Category, &c.Tags, &c.FeaturedImage, &status,
		&c.ModerationNotes, &c.ModeratedBy, &c.ModeratedAt, &c.PublishedAt, &c.Featured, &c.Views,
		&c.MetaTitle, &c.MetaDescription, &c.ReadingTime, &linksRaw, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.ContentType = models.ContentType(contentType)
	c.Status = models.ContentStatus(status)
	if len(videoRaw) > 0 && string(videoRaw) != "null" {
		c.VideoFile = &models.VideoFile{}
		_ = json.Unmarshal(videoRaw, c.VideoFile)
	}
	_ = json.Unmarshal(linksRaw, &c.ExternalLinks)
	return &c, nil
}

func encodeUserContent(c *models.UserContent) (video []byte, links []byte) {
	if c.VideoFile != nil {
		video, _ = json.Marshal(c.VideoFile)
	}
	if c.ExternalLinks == nil {
		links = []byte("[]")
	} else {
		links, _ = json.Marshal(c.ExternalLinks)
	}
	return video, links
}

func (r *userContentRepo) Create(ctx context.Context, c *models.UserContent) error {
	video, links := encodeUserContent(c)
	const q = `
		INSERT INTO user_content (` + userContentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24::jsonb,$25,$26)
	`
	_, err := r.db.Exec(ctx, q,
		c.ID, c.Title, c.Slug, c.Description, string(c.ContentType), c.TextContent, video, c.AuthorID,
		c.AuthorName, c.AuthorEmail, c.Category, nonNil(c.Tags), c.FeaturedImage, string(c.Status),
		c.ModerationNotes, c.ModeratedBy, c.ModeratedAt, c.PublishedAt, c.Featured, c.Views,
		c.MetaTitle, c.MetaDescription, c.ReadingTime, links, c.CreatedAt, c.UpdatedAt,
	)
	return mapErr(err, "Content")
}

func (r *userContentRepo) GetByID(ctx context.Context, id string) (*models.UserContent, error) {
	return r.getOne(ctx, `SELECT `+userContentColumns+` FROM user_content WHERE id=$1`, id)
}

func (r *userContentRepo) GetBySlug(ctx context.Context, slug string) (*models.UserContent, error) {
	return r.getOne(ctx, `SELECT `+userContentColumns+` FROM user_content WHERE slug=$1`, slug)
}

func (r *userContentRepo) getOne(ctx context.Context, q, arg string) (*models.UserContent, error) {
	c, err := scanUserContent(r.db.QueryRow(ctx, q, arg))
	if err != nil {
		return nil, mapErr(err, "Content")
	}
	likes, err := loadLikes(ctx, r.db, models.TargetUserContent, []string{c.ID})
	if err != nil {
		return nil, mapErr(err, "Content")
	}
	c.Likes = likes[c.ID]
	return c, nil
}

func (r *userContentRepo) Save(ctx context.Context, c *models.UserContent, expected models.ContentStatus) error {
	video, links := encodeUserContent(c)
	const q = `
		UPDATE user_content
		SET title=$3, slug=$4, description=$5, content_type=$6, text_content=$7, video_file=$8::jsonb,
		    category=$9, tags=$10, featured_image=$11, status=$12, moderation_notes=$13, moderated_by=$14,
		    moderated_at=$15, published_at=$16, featured=$17, meta_title=$18, meta_description=$19,
		    reading_time=$20, external_links=$21::jsonb, updated_at=$22
		WHERE id=$1 AND status=$2
	`
	tag, err := r.db.Exec(ctx, q,
		c.ID, string(expected), c.Title, c.Slug, c.Description, string(c.ContentType), c.TextContent,
		video, c.Category, nonNil(c.Tags), c.FeaturedImage, string(c.Status), c.ModerationNotes,
		c.ModeratedBy, c.ModeratedAt, c.PublishedAt, c.Featured, c.MetaTitle, c.MetaDescription,
		c.ReadingTime, links, c.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "Content")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM user_content WHERE id=$1)`, c.ID).Scan(&exists); err != nil {
			return mapErr(err, "Content")
		}
		if !exists {
			return mapErr(pgx.ErrNoRows, "Content")
		}
		return apperr.InvalidState("Content status was changed concurrently")
	}
	return nil
}

func (r *userContentRepo) Delete(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := deleteTargetComments(ctx, tx, models.Target{Type: models.TargetUserContent, ID: id}); err != nil {
			return err
		}
		if err := deleteLikes(ctx, tx, models.TargetUserContent, []string{id}); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM user_content WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr(err, "Content")
}

func (r *userContentRepo) List(ctx context.Context, f models.UserContentFilter) ([]*models.UserContent, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if len(f.Statuses) > 0 {
		st := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			st = append(st, string(s))
		}
		where = append(where, fmt.Sprintf("status = ANY($%d)", i))
		args = append(args, st)
		i++
	}
	if f.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", i))
		args = append(args, f.Category)
		i++
	}
	if f.ContentType != "" {
		where = append(where, fmt.Sprintf("content_type = $%d", i))
		args = append(args, f.ContentType)
		i++
	}
	if f.AuthorID != "" {
		where = append(where, fmt.Sprintf("author_id = $%d", i))
		args = append(args, f.AuthorID)
		i++
	}
	if f.Featured {
		where = append(where, "featured = TRUE")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR text_content ILIKE $%d OR array_to_string(tags, ' ') ILIKE $%d)",
			i, i, i, i))
		args = append(args, "%"+s+"%")
		i++
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_content`+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "Content")
	}

	sql := `SELECT ` + userContentColumns + ` FROM user_content` + cond +
		fmt.Sprintf(` ORDER BY COALESCE(published_at, created_at) DESC, created_at DESC, id DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, f.Page.LimitArg(), f.Page.Offset())

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, mapErr(err, "Content")
	}
	defer rows.Close()

	var list []*models.UserContent
	ids := []string{}
	for rows.Next() {
		c, err := scanUserContent(rows)
		if err != nil {
			return nil, 0, mapErr(err, "Content")
		}
		list = append(list, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err, "Content")
	}
	rows.Close()

	likes, err := loadLikes(ctx, r.db, models.TargetUserContent, ids)
	if err != nil {
		return nil, 0, mapErr(err, "Content")
	}
	for _, c := range list {
		c.Likes = likes[c.ID]
	}
	return list, total, nil
}

func (r *userContentRepo) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	err := r.db.QueryRow(ctx, `UPDATE user_content SET views = views + 1 WHERE id=$1 RETURNING views`, id).Scan(&views)
	return views, mapErr(err, "Content")
}

func (r *userContentRepo) Stats(ctx context.Context) (models.ModerationStats, error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE status='pending'),
			COUNT(*) FILTER (WHERE status='approved'),
			COUNT(*) FILTER (WHERE status='rejected'),
			COUNT(*) FILTER (WHERE status='published'),
			COUNT(*) FILTER (WHERE content_type='text' AND status IN ('approved','published')),
			COUNT(*) FILTER (WHERE content_type='video' AND status IN ('approved','published')),
			COUNT(*) FILTER (WHERE featured AND status IN ('approved','published')),
			COUNT(*) FILTER (WHERE status IN ('approved','rejected','published'))
		FROM user_content
	`
	var s models.ModerationStats
	err := r.db.QueryRow(ctx, q).Scan(
		&s.Pending, &s.Approved, &s.Rejected, &s.Published,
		&s.TextContent, &s.VideoContent, &s.Featured, &s.Total,
	)
	return s, mapErr(err, "Content")
}
