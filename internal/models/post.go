package models

import "time"

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostPublished, PostArchived:
		return true
	}
	return false
}

type Post struct {
	ID              string     `db:"id"               json:"id"`
	Title           string     `db:"title"            json:"title"`
	Slug            string     `db:"slug"             json:"slug"`
	Content         string     `db:"content"          json:"content,omitempty"`
	Excerpt         string     `db:"excerpt"          json:"excerpt"`
	FeaturedImage   string     `db:"featured_image"   json:"featuredImage"`
	AuthorID        string     `db:"author_id"        json:"authorId"`
	CategoryID      *string    `db:"category_id"      json:"categoryId,omitempty"`
	Tags            []string   `db:"tags"             json:"tags"`
	Status          PostStatus `db:"status"           json:"status"`
	PublishedAt     *time.Time `db:"published_at"     json:"publishedAt,omitempty"`
	Views           int        `db:"views"            json:"views"`
	Likes           LikeSet    `db:"-"                json:"likes"`
	CommentsEnabled bool       `db:"comments_enabled" json:"commentsEnabled"`
	Featured        bool       `db:"featured"         json:"featured"`
	ReadingTime     int        `db:"reading_time"     json:"readingTime"`
	CreatedAt       time.Time  `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at"       json:"updatedAt"`
}

func (p *Post) CommentTarget() Target { return Target{Type: TargetPost, ID: p.ID} }

func (p *Post) OwnerID() string { return p.AuthorID }

func (p *Post) AcceptsComments() bool { return p.CommentsEnabled }

// Комментарии к постам публикуются сразу, модерация идёт постфактум.
func (p *Post) InitialCommentStatus() CommentStatus { return CommentApproved }

// PostView: представление поста с вычисляемыми полями.
type PostView struct {
	*Post
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
	HasLiked     bool   `json:"hasLiked"`
	URL          string `json:"url"`
}

// PostInput: поля создания/редактирования; nil означает "не менять".
type PostInput struct {
	Title           *string   `json:"title"`
	Content         *string   `json:"content"`
	Excerpt         *string   `json:"excerpt"`
	CategoryID      *string   `json:"category"`
	Tags            *[]string `json:"tags"`
	Status          *string   `json:"status"`
	Featured        *bool     `json:"featured"`
	CommentsEnabled *bool     `json:"commentsEnabled"`
	FeaturedImage   *string   `json:"-"`
}

type PostSort string

const (
	SortNewest PostSort = "newest"
	SortOldest PostSort = "oldest"
	SortViews  PostSort = "views"
	SortLikes  PostSort = "likes"
)

type PostFilter struct {
	CategoryID   string
	Tag          string
	AuthorID     string
	Search       string
	Sort         PostSort
	AnyStatus    bool
	FeaturedOnly bool
	Page         Page
}

type PostList struct {
	Posts      []PostView `json:"posts"`
	Pagination Pagination `json:"pagination"`
}
