package models

import "time"

type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPending   ContentStatus = "pending"
	StatusApproved  ContentStatus = "approved"
	StatusRejected  ContentStatus = "rejected"
	StatusPublished ContentStatus = "published"
)

func (s ContentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentVideo ContentType = "video"
)

// ContentCategories: фиксированный список категорий пользовательского контента.
var ContentCategories = []string{
	"technology", "lifestyle", "travel", "food", "business",
	"health", "education", "entertainment", "sports", "gaming",
	"music", "art", "science", "politics", "other",
}

func IsContentCategory(c string) bool {
	for _, v := range ContentCategories {
		if v == c {
			return true
		}
	}
	return false
}

type VideoFile struct {
	Filename     string `json:"filename,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
	MimeType     string `json:"mimetype,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Path         string `json:"path,omitempty"`
	URL          string `json:"url,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
}

func (v *VideoFile) HasSource() bool {
	return v != nil && (v.Path != "" || v.URL != "")
}

type ExternalLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type UserContent struct {
	ID              string         `db:"id"               json:"id"`
	Title           string         `db:"title"            json:"title"`
	Slug            string         `db:"slug"             json:"slug"`
	Description     string         `db:"description"      json:"description"`
	ContentType     ContentType    `db:"content_type"     json:"contentType"`
	TextContent     string         `db:"text_content"     json:"textContent,omitempty"`
	VideoFile       *VideoFile     `db:"video_file"       json:"videoFile,omitempty"`
	AuthorID        string         `db:"author_id"        json:"author"`
	AuthorName      string         `db:"author_name"      json:"authorName"`
	AuthorEmail     string         `db:"author_email"     json:"authorEmail"`
	Category        string         `db:"category"         json:"category"`
	Tags            []string       `db:"tags"             json:"tags"`
	FeaturedImage   string         `db:"featured_image"   json:"featuredImage"`
	Status          ContentStatus  `db:"status"           json:"status"`
	ModerationNotes string         `db:"moderation_notes" json:"moderationNotes,omitempty"`
	ModeratedBy     *string        `db:"moderated_by"     json:"moderatedBy,omitempty"`
	ModeratedAt     *time.Time     `db:"moderated_at"     json:"moderatedAt,omitempty"`
	PublishedAt     *time.Time     `db:"published_at"     json:"publishedAt,omitempty"`
	Featured        bool           `db:"featured"         json:"featured"`
	Views           int            `db:"views"            json:"views"`
	Likes           LikeSet        `db:"-"                json:"likes"`
	MetaTitle       string         `db:"meta_title"       json:"metaTitle,omitempty"`
	MetaDescription string         `db:"meta_description" json:"metaDescription,omitempty"`
	ReadingTime     int            `db:"reading_time"     json:"readingTime"`
	ExternalLinks   []ExternalLink `db:"external_links"   json:"externalLinks"`
	CreatedAt       time.Time      `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at"       json:"updatedAt"`
}

func (c *UserContent) CommentTarget() Target { return Target{Type: TargetUserContent, ID: c.ID} }

func (c *UserContent) OwnerID() string { return c.AuthorID }

func (c *UserContent) AcceptsComments() bool { return true }

// Комментарии к пользовательскому контенту требуют одобрения.
func (c *UserContent) InitialCommentStatus() CommentStatus { return CommentPending }

// StoredFiles: пути загруженных файлов, которые надо удалить вместе с записью.
func (c *UserContent) StoredFiles() []string {
	var out []string
	if c.VideoFile != nil {
		if c.VideoFile.Path != "" {
			out = append(out, c.VideoFile.Path)
		}
		if c.VideoFile.Thumbnail != "" {
			out = append(out, c.VideoFile.Thumbnail)
		}
	}
	if c.FeaturedImage != "" {
		out = append(out, c.FeaturedImage)
	}
	return out
}

// UserContentView: представление с вычисляемыми полями; moderationNotes/moderatedBy
// могут быть вырезаны слоем проекции.
type UserContentView struct {
	*UserContent
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
	HasLiked     bool   `json:"hasLiked"`
	URL          string `json:"url"`
}

type UserContentInput struct {
	Title           *string         `json:"title"`
	Description     *string         `json:"description"`
	ContentType     *string         `json:"contentType"`
	TextContent     *string         `json:"textContent"`
	Category        *string         `json:"category"`
	Tags            *[]string       `json:"tags"`
	VideoURL        *string         `json:"videoUrl"`
	MetaTitle       *string         `json:"metaTitle"`
	MetaDescription *string         `json:"metaDescription"`
	ExternalLinks   *[]ExternalLink `json:"externalLinks"`
	Featured        *bool           `json:"featured"`
	// заполняются обработчиком из multipart-формы
	VideoFile     *VideoFile `json:"-"`
	Thumbnail     *string    `json:"-"`
	FeaturedImage *string    `json:"-"`
}

type UserContentFilter struct {
	Category    string
	ContentType string
	AuthorID    string
	Search      string
	Featured    bool
	// Statuses пустой: любые статусы
	Statuses []ContentStatus
	Page     Page
}

type UserContentList struct {
	Content    []UserContentView `json:"content"`
	Pagination Pagination        `json:"pagination"`
}

type ModerationStats struct {
	Pending      int `json:"pending"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
	Published    int `json:"published"`
	TextContent  int `json:"textContent"`
	VideoContent int `json:"videoContent"`
	Featured     int `json:"featured"`
	Total        int `json:"total"`
}
