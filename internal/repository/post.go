package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blogplatform/internal/models"
)

const postColumns = `id, title, slug, content, excerpt, featured_image, author_id, category_id, tags,
	status, published_at, views, comments_enabled, featured, reading_time, created_at, updated_at`

type postRepo struct{ db *pgxpool.Pool }

func NewPostRepo(db *pgxpool.Pool) PostRepo { return &postRepo{db: db} }

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	var status string
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage, &p.AuthorID,
		&p.CategoryID, &p.Tags, &status, &p.PublishedAt, &p.Views, &p.CommentsEnabled,
		&p.Featured, &p.ReadingTime, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Status = models.PostStatus(status)
	return &p, nil
}

func (r *postRepo) Create(ctx context.Context, p *models.Post) error {
	const q = `
		INSERT INTO posts (id, title, slug, content, excerpt, featured_image, author_id, category_id, tags,
			status, published_at, views, comments_enabled, featured, reading_time, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err := r.db.Exec(ctx, q,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.AuthorID, p.CategoryID,
		nonNil(p.Tags), string(p.Status), p.PublishedAt, p.Views, p.CommentsEnabled, p.Featured,
		p.ReadingTime, p.CreatedAt, p.UpdatedAt,
	)
	return mapErr(err, "Post")
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return r.getOne(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id)
}

func (r *postRepo) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.getOne(ctx, `SELECT `+postColumns+` FROM posts WHERE slug=$1`, slug)
}

func (r *postRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, mapErr(err, "Post")
	}
	defer rows.Close()

	byID := make(map[string]*models.Post, len(ids))
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, mapErr(err, "Post")
		}
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "Post")
	}
	rows.Close()

	likes, err := loadLikes(ctx, r.db, models.TargetPost, ids)
	if err != nil {
		return nil, mapErr(err, "Post")
	}
	out := make([]*models.Post, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			p.Likes = likes[id]
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *postRepo) getOne(ctx context.Context, q string, arg string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, q, arg))
	if err != nil {
		return nil, mapErr(err, "Post")
	}
	likes, err := loadLikes(ctx, r.db, models.TargetPost, []string{p.ID})
	if err != nil {
		return nil, mapErr(err, "Post")
	}
	p.Likes = likes[p.ID]
	return p, nil
}

func (r *postRepo) Update(ctx context.Context, p *models.Post) error {
	const q = `
		UPDATE posts
		SET title=$2, slug=$3, content=$4, excerpt=$5, featured_image=$6, category_id=$7, tags=$8,
		    status=$9, published_at=$10, comments_enabled=$11, featured=$12, reading_time=$13, updated_at=$14
		WHERE id=$1
	`
	tag, err := r.db.Exec(ctx, q,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.CategoryID, nonNil(p.Tags),
		string(p.Status), p.PublishedAt, p.CommentsEnabled, p.Featured, p.ReadingTime, p.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "Post")
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "Post")
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		target := models.Target{Type: models.TargetPost, ID: id}
		if err := deleteTargetComments(ctx, tx, target); err != nil {
			return err
		}
		if err := deleteLikes(ctx, tx, models.TargetPost, []string{id}); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr(err, "Post")
}

func (r *postRepo) List(ctx context.Context, f models.PostFilter) ([]*models.Post, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1

	if !f.AnyStatus {
		where = append(where, fmt.Sprintf("status = $%d", i))
		args = append(args, string(models.PostPublished))
		i++
	}
	if f.FeaturedOnly {
		where = append(where, "featured = TRUE")
	}
	if f.CategoryID != "" {
		where = append(where, fmt.Sprintf("category_id = $%d", i))
		args = append(args, f.CategoryID)
		i++
	}
	if f.AuthorID != "" {
		where = append(where, fmt.Sprintf("author_id = $%d", i))
		args = append(args, f.AuthorID)
		i++
	}
	if f.Tag != "" {
		where = append(where, fmt.Sprintf("$%d = ANY(tags)", i))
		args = append(args, f.Tag)
		i++
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, fmt.Sprintf(
			"(title ILIKE $%d OR content ILIKE $%d OR array_to_string(tags, ' ') ILIKE $%d)", i, i, i))
		args = append(args, "%"+s+"%")
		i++
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "Post")
	}

	sql := `SELECT ` + postColumns + ` FROM posts` + cond + ` ORDER BY ` + postOrder(f.Sort)
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Page.LimitArg(), f.Page.Offset())

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, mapErr(err, "Post")
	}
	defer rows.Close()

	var list []*models.Post
	ids := []string{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, mapErr(err, "Post")
		}
		list = append(list, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err, "Post")
	}
	rows.Close()

	likes, err := loadLikes(ctx, r.db, models.TargetPost, ids)
	if err != nil {
		return nil, 0, mapErr(err, "Post")
	}
	for _, p := range list {
		p.Likes = likes[p.ID]
	}
	return list, total, nil
}

func postOrder(s models.PostSort) string {
	switch s {
	case models.SortOldest:
		return "COALESCE(published_at, created_at) ASC, id ASC"
	case models.SortViews:
		return "views DESC, COALESCE(published_at, created_at) DESC"
	case models.SortLikes:
		return "(SELECT COUNT(*) FROM likes l WHERE l.target_type='post' AND l.target_id=posts.id) DESC, " +
			"COALESCE(published_at, created_at) DESC"
	default:
		return "COALESCE(published_at, created_at) DESC, id DESC"
	}
}

func (r *postRepo) IncrementViews(ctx context.Context, id string) (int, error) {
	var views int
	err := r.db.QueryRow(ctx, `UPDATE posts SET views = views + 1 WHERE id=$1 RETURNING views`, id).Scan(&views)
	return views, mapErr(err, "Post")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
