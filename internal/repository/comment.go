package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
)

const commentColumns = `id, content, author_id, author_name, target_type, target_id, parent_comment_id,
	reply_ids, status, is_edited, edited_at, created_at, updated_at`

type commentRepo struct{ db *pgxpool.Pool }

func NewCommentRepo(db *pgxpool.Pool) CommentRepo { return &commentRepo{db: db} }

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	var targetType, status string
	if err := row.Scan(
		&c.ID, &c.Content, &c.AuthorID, &c.AuthorName, &targetType, &c.TargetID, &c.ParentCommentID,
		&c.ReplyIDs, &status, &c.IsEdited, &c.EditedAt, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.TargetType = models.TargetType(targetType)
	c.Status = models.CommentStatus(status)
	return &c, nil
}

func (r *commentRepo) Create(ctx context.Context, c *models.Comment) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if c.ParentCommentID != nil {
			// родитель должен существовать и принадлежать той же сущности
			tag, err := tx.Exec(ctx, `
				UPDATE comments SET reply_ids = array_append(reply_ids, $2)
				WHERE id=$1 AND target_type=$3 AND target_id=$4`,
				*c.ParentCommentID, c.ID, string(c.TargetType), c.TargetID,
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return apperr.NotFound("Parent comment not found")
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO comments (id, content, author_id, author_name, target_type, target_id,
				parent_comment_id, reply_ids, status, is_edited, edited_at, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			c.ID, c.Content, c.AuthorID, c.AuthorName, string(c.TargetType), c.TargetID,
			c.ParentCommentID, nonNil(c.ReplyIDs), string(c.Status), c.IsEdited, c.EditedAt,
			c.CreatedAt, c.UpdatedAt,
		)
		return err
	})
	return mapErr(err, "Comment")
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id=$1`, id))
	if err != nil {
		return nil, mapErr(err, "Comment")
	}
	if err := r.attachLikes(ctx, []*models.Comment{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commentRepo) Update(ctx context.Context, c *models.Comment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE comments SET content=$2, is_edited=$3, edited_at=$4, updated_at=$5 WHERE id=$1`,
		c.ID, c.Content, c.IsEdited, c.EditedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapErr(err, "Comment")
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "Comment")
	}
	return nil
}

func (r *commentRepo) SetStatus(ctx context.Context, id string, status models.CommentStatus, at time.Time) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx,
		`UPDATE comments SET status=$2, updated_at=$3 WHERE id=$1 RETURNING `+commentColumns,
		id, string(status), at,
	))
	if err != nil {
		return nil, mapErr(err, "Comment")
	}
	if err := r.attachLikes(ctx, []*models.Comment{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) (int, error) {
	removed := 0
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var parentID *string
		var replyIDs []string
		if err := tx.QueryRow(ctx,
			`SELECT parent_comment_id, reply_ids FROM comments WHERE id=$1 FOR UPDATE`, id,
		).Scan(&parentID, &replyIDs); err != nil {
			return err
		}

		ids, err := collectIDs(tx.Query(ctx,
			`DELETE FROM comments WHERE id = ANY($1) OR parent_comment_id = $2 RETURNING id`,
			nonNil(replyIDs), id,
		))
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id); err != nil {
			return err
		}
		ids = append(ids, id)

		if parentID != nil {
			if _, err := tx.Exec(ctx,
				`UPDATE comments SET reply_ids = array_remove(reply_ids, $2) WHERE id=$1`,
				*parentID, id,
			); err != nil {
				return err
			}
		}
		if err := deleteLikes(ctx, tx, models.TargetComment, ids); err != nil {
			return err
		}
		removed = len(ids)
		return nil
	})
	if err != nil {
		return 0, mapErr(err, "Comment")
	}
	return removed, nil
}

// deleteTargetComments удаляет все комментарии сущности и их лайки внутри tx.
func deleteTargetComments(ctx context.Context, tx pgx.Tx, target models.Target) error {
	ids, err := collectIDs(tx.Query(ctx,
		`DELETE FROM comments WHERE target_type=$1 AND target_id=$2 RETURNING id`,
		string(target.Type), target.ID,
	))
	if err != nil {
		return err
	}
	return deleteLikes(ctx, tx, models.TargetComment, ids)
}

func collectIDs(rows pgx.Rows, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *commentRepo) ListTopLevel(ctx context.Context, target models.Target, status models.CommentStatus, page models.Page) ([]*models.Comment, int, error) {
	const cond = ` WHERE target_type=$1 AND target_id=$2 AND parent_comment_id IS NULL AND status=$3`
	args := []interface{}{string(target.Type), target.ID, string(status)}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments`+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "Comment")
	}

	list, err := r.query(ctx,
		`SELECT `+commentColumns+` FROM comments`+cond+` ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`,
		append(args, page.LimitArg(), page.Offset())...,
	)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *commentRepo) ListReplies(ctx context.Context, parentIDs []string, onlyApproved bool) ([]*models.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	sql := `SELECT ` + commentColumns + ` FROM comments WHERE parent_comment_id = ANY($1)`
	args := []interface{}{parentIDs}
	if onlyApproved {
		sql += ` AND status=$2`
		args = append(args, string(models.CommentApproved))
	}
	return r.query(ctx, sql+` ORDER BY created_at ASC, id ASC`, args...)
}

func (r *commentRepo) ListAll(ctx context.Context, f models.CommentFilter) ([]*models.Comment, int, error) {
	where := []string{}
	args := []interface{}{}
	i := 1
	if f.Approved != nil {
		op := "<>"
		if *f.Approved {
			op = "="
		}
		where = append(where, fmt.Sprintf("status %s $%d", op, i))
		args = append(args, string(models.CommentApproved))
		i++
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, fmt.Sprintf("content ILIKE $%d", i))
		args = append(args, "%"+s+"%")
		i++
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments`+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "Comment")
	}
	list, err := r.query(ctx,
		`SELECT `+commentColumns+` FROM comments`+cond+
			fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, i, i+1),
		append(args, f.Page.LimitArg(), f.Page.Offset())...,
	)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *commentRepo) CountApproved(ctx context.Context, targetType models.TargetType, ids []string) (map[string]int, error) {
	out := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT target_id, COUNT(*) FROM comments
		WHERE target_type=$1 AND target_id = ANY($2) AND status=$3
		GROUP BY target_id`,
		string(targetType), ids, string(models.CommentApproved),
	)
	if err != nil {
		return nil, mapErr(err, "Comment")
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, mapErr(err, "Comment")
		}
		out[id] = n
	}
	return out, mapErr(rows.Err(), "Comment")
}

func (r *commentRepo) query(ctx context.Context, sql string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err, "Comment")
	}
	defer rows.Close()

	var list []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, mapErr(err, "Comment")
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "Comment")
	}
	rows.Close()

	if err := r.attachLikes(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *commentRepo) attachLikes(ctx context.Context, list []*models.Comment) error {
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	likes, err := loadLikes(ctx, r.db, models.TargetComment, ids)
	if err != nil {
		return mapErr(err, "Comment")
	}
	for _, c := range list {
		c.Likes = likes[c.ID]
	}
	return nil
}
