package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blogplatform/internal/models"
)

const categoryColumns = `id, name, slug, description, color, post_count, created_at, updated_at`

type categoryRepo struct{ db *pgxpool.Pool }

func NewCategoryRepo(db *pgxpool.Pool) CategoryRepo { return &categoryRepo{db: db} }

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.PostCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.PostCount, c.CreatedAt, c.UpdatedAt,
	)
	return mapErr(err, "Category")
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id=$1`, id))
	return c, mapErr(err, "Category")
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug=$1`, slug))
	return c, mapErr(err, "Category")
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, mapErr(err, "Category")
	}
	defer rows.Close()

	var list []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, mapErr(err, "Category")
		}
		list = append(list, c)
	}
	return list, mapErr(rows.Err(), "Category")
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name=$2, slug=$3, description=$4, color=$5, updated_at=$6 WHERE id=$1`,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "Category")
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "Category")
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return mapErr(err, "Category")
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "Category")
	}
	return nil
}

func (r *categoryRepo) RefreshPostCount(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		UPDATE categories
		SET post_count = (SELECT COUNT(*) FROM posts WHERE category_id=$1 AND status='published')
		WHERE id=$1
		RETURNING post_count`, id,
	).Scan(&n)
	return n, mapErr(err, "Category")
}
