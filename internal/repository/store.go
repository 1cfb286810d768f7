package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Store: набор репозиториев одного хранилища (Postgres или память).
type Store interface {
	Posts() PostRepo
	Comments() CommentRepo
	UserContent() UserContentRepo
	Likes() LikeRepo
	Categories() CategoryRepo
	AdminSettings() AdminSettingsRepo
}

type pgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) Store { return &pgStore{db: db} }

func (s *pgStore) Posts() PostRepo { return NewPostRepo(s.db) }
func (s *pgStore) Comments() CommentRepo { return NewCommentRepo(s.db) }
func (s *pgStore) UserContent() UserContentRepo { return NewUserContentRepo(s.db) }
func (s *pgStore) Likes() LikeRepo { return NewLikeRepo(s.db) }
func (s *pgStore) Categories() CategoryRepo { return NewCategoryRepo(s.db) }
func (s *pgStore) AdminSettings() AdminSettingsRepo { return NewAdminSettingsRepo(s.db) }
