package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"blogplatform/internal/models"
)

// querier: общее у пула и транзакции.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type likeRepo struct{ db *pgxpool.Pool }

func NewLikeRepo(db *pgxpool.Pool) LikeRepo { return &likeRepo{db: db} }

// Toggle: удаляем строку лайка; если удалять было нечего, вставляем.
// Первичный ключ (target_type, target_id, user_id) не даёт задвоить лайк.
func (r *likeRepo) Toggle(ctx context.Context, target models.Target, userID string, at time.Time) (models.LikeResult, error) {
	var res models.LikeResult
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM likes WHERE target_type=$1 AND target_id=$2 AND user_id=$3`,
			string(target.Type), target.ID, userID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx,
				`INSERT INTO likes (target_type, target_id, user_id, created_at)
				 VALUES ($1,$2,$3,$4) ON CONFLICT DO NOTHING`,
				string(target.Type), target.ID, userID, at,
			); err != nil {
				return err
			}
			res.Liked = true
		}
		return tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM likes WHERE target_type=$1 AND target_id=$2`,
			string(target.Type), target.ID,
		).Scan(&res.LikeCount)
	})
	if err != nil {
		return models.LikeResult{}, mapErr(err, "Like")
	}
	return res, nil
}

func (r *likeRepo) ListFor(ctx context.Context, targetType models.TargetType, ids []string) (map[string]models.LikeSet, error) {
	out, err := loadLikes(ctx, r.db, targetType, ids)
	return out, mapErr(err, "Like")
}

func loadLikes(ctx context.Context, q querier, targetType models.TargetType, ids []string) (map[string]models.LikeSet, error) {
	out := make(map[string]models.LikeSet, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx,
		`SELECT target_id, user_id, created_at FROM likes
		 WHERE target_type=$1 AND target_id = ANY($2)
		 ORDER BY created_at`,
		string(targetType), ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var l models.Like
		if err := rows.Scan(&id, &l.UserID, &l.CreatedAt); err != nil {
			return nil, err
		}
		out[id] = append(out[id], l)
	}
	return out, rows.Err()
}

// deleteLikes убирает строки леджера удаляемых сущностей.
func deleteLikes(ctx context.Context, q querier, targetType models.TargetType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx,
		`DELETE FROM likes WHERE target_type=$1 AND target_id = ANY($2)`,
		string(targetType), ids,
	)
	return err
}
