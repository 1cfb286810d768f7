package models

import (
	"strings"
	"time"
)

// AdminSettingsID: идентификатор единственной записи настроек администратора.
const AdminSettingsID = "admin"

type SocialMedia struct {
	Twitter   string `json:"twitter"`
	Linkedin  string `json:"linkedin"`
	Github    string `json:"github"`
	Instagram string `json:"instagram"`
}

type AdminSettings struct {
	ID              string      `db:"id"               json:"id"`
	FirstName       string      `db:"first_name"       json:"firstName"`
	LastName        string      `db:"last_name"        json:"lastName"`
	Title           string      `db:"title"            json:"title"`
	Bio             string      `db:"bio"              json:"bio"`
	Email           string      `db:"email"            json:"email"`
	Phone           string      `db:"phone"            json:"phone"`
	Location        string      `db:"location"         json:"location"`
	Website         string      `db:"website"          json:"website"`
	SocialMedia     SocialMedia `db:"social_media"     json:"socialMedia"`
	BlogTitle       string      `db:"blog_title"       json:"blogTitle"`
	BlogSubtitle    string      `db:"blog_subtitle"    json:"blogSubtitle"`
	BlogDescription string      `db:"blog_description" json:"blogDescription"`
	AvatarURL       string      `db:"avatar_url"       json:"avatarUrl"`
	Skills          []string    `db:"skills"           json:"skills"`
	JoinDate        time.Time   `db:"join_date"        json:"joinDate"`
	CreatedAt       time.Time   `db:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at"       json:"updatedAt"`
}

func (s *AdminSettings) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// DefaultAdminSettings: значения, с которыми запись создаётся и к которым сбрасывается.
func DefaultAdminSettings(now time.Time) *AdminSettings {
	return &AdminSettings{
		ID:              AdminSettingsID,
		FirstName:       "Admin",
		LastName:        "User",
		Title:           "Blog Admin & Content Creator",
		Bio:             "Welcome to my blog! I'm passionate about sharing knowledge and connecting with like-minded individuals.",
		Email:           "admin@example.com",
		BlogTitle:       "My Personal Blog",
		BlogSubtitle:    "Sharing knowledge and experiences",
		BlogDescription: "A place where I share my thoughts, insights, and experiences on various topics that matter to me.",
		AvatarURL:       "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=200",
		Skills:          []string{"Content Writing", "Blog Management", "Community Building", "Digital Marketing"},
		JoinDate:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AdminSettingsView добавляет вычисляемое fullName.
type AdminSettingsView struct {
	*AdminSettings
	FullName string `json:"fullName"`
}

type AdminSettingsInput struct {
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	Email           string       `json:"email"`
	Title           *string      `json:"title"`
	Bio             *string      `json:"bio"`
	Phone           *string      `json:"phone"`
	Location        *string      `json:"location"`
	Website         *string      `json:"website"`
	SocialMedia     *SocialMedia `json:"socialMedia"`
	BlogTitle       *string      `json:"blogTitle"`
	BlogSubtitle    *string      `json:"blogSubtitle"`
	BlogDescription *string      `json:"blogDescription"`
	AvatarURL       *string      `json:"avatarUrl"`
	Skills          *[]string    `json:"skills"`
}
