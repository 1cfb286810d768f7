package models

import "time"

type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

// Commentable: сущность, под которой можно оставлять комментарии.
// Реализуют Post и UserContent.
type Commentable interface {
	CommentTarget() Target
	OwnerID() string
	AcceptsComments() bool
	InitialCommentStatus() CommentStatus
}

type Comment struct {
	ID              string        `db:"id"                json:"id"`
	Content         string        `db:"content"           json:"content"`
	AuthorID        string        `db:"author_id"         json:"authorId"`
	AuthorName      string        `db:"author_name"       json:"authorName"`
	TargetType      TargetType    `db:"target_type"       json:"targetType"`
	TargetID        string        `db:"target_id"         json:"targetId"`
	ParentCommentID *string       `db:"parent_comment_id" json:"parentComment"`
	ReplyIDs        []string      `db:"reply_ids"         json:"replyIds"`
	Status          CommentStatus `db:"status"            json:"status"`
	IsEdited        bool          `db:"is_edited"         json:"isEdited"`
	EditedAt        *time.Time    `db:"edited_at"         json:"editedAt,omitempty"`
	Likes           LikeSet       `db:"-"                 json:"likes"`
	CreatedAt       time.Time     `db:"created_at"        json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at"        json:"updatedAt"`
}

func (c *Comment) IsApproved() bool { return c.Status == CommentApproved }

func (c *Comment) IsTopLevel() bool { return c.ParentCommentID == nil }

func (c *Comment) Target() Target { return Target{Type: c.TargetType, ID: c.TargetID} }

// CommentView: комментарий с вычисляемыми полями и вложенными ответами.
type CommentView struct {
	*Comment
	Approved   bool          `json:"isApproved"`
	LikeCount  int           `json:"likeCount"`
	ReplyCount int           `json:"replyCount"`
	HasLiked   bool          `json:"hasLiked"`
	Replies    []CommentView `json:"replies,omitempty"`
}

type CommentFilter struct {
	Approved *bool
	Search   string
	Page     Page
}

type CommentList struct {
	Comments   []CommentView `json:"comments"`
	Pagination Pagination    `json:"pagination"`
}
