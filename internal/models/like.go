package models

import "time"

type Like struct {
	UserID    string    `db:"user_id"    json:"user"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// LikeSet: множество лайков сущности по userID.
type LikeSet []Like

func (s LikeSet) Has(userID string) bool {
	if userID == "" {
		return false
	}
	for _, l := range s {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

func (s LikeSet) Count() int { return len(s) }

// Toggle убирает лайк пользователя, если он есть, иначе добавляет ровно один.
func (s LikeSet) Toggle(userID string, at time.Time) (LikeSet, bool) {
	for i, l := range s {
		if l.UserID == userID {
			out := make(LikeSet, 0, len(s)-1)
			out = append(out, s[:i]...)
			out = append(out, s[i+1:]...)
			return out, false
		}
	}
	out := make(LikeSet, len(s), len(s)+1)
	copy(out, s)
	return append(out, Like{UserID: userID, CreatedAt: at}), true
}

// LikeResult: ответ операции toggleLike.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// TargetType: тип сущности, к которой привязаны лайки и комментарии.
type TargetType string

const (
	TargetPost        TargetType = "post"
	TargetComment     TargetType = "comment"
	TargetUserContent TargetType = "user_content"
)

// Target адресует сущность в леджере лайков и в графе комментариев.
type Target struct {
	Type TargetType `json:"type"`
	ID   string     `json:"id"`
}
