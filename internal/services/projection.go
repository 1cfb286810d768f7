package services

import (
	"blogplatform/internal/models"
	"blogplatform/internal/moderation"
)

// Слой проекции: вычисляемые поля считаются при выдаче и нигде не хранятся.

func postView(p *models.Post, actor models.Actor, commentCount int) models.PostView {
	return models.PostView{
		Post:         p,
		LikeCount:    p.Likes.Count(),
		CommentCount: commentCount,
		HasLiked:     p.Likes.Has(actor.ID),
		URL:          "/posts/" + p.Slug,
	}
}

func commentView(c *models.Comment, actor models.Actor) models.CommentView {
	return models.CommentView{
		Comment:    c,
		Approved:   c.IsApproved(),
		LikeCount:  c.Likes.Count(),
		ReplyCount: len(c.ReplyIDs),
		HasLiked:   c.Likes.Has(actor.ID),
	}
}

// userContentView вырезает заметки модератора для не-админов, пока запись
// в очереди или отклонена.
func userContentView(c *models.UserContent, actor models.Actor, commentCount int) models.UserContentView {
	if !actor.IsAdmin() && moderation.HidesModeration(c.Status) {
		cp := *c
		cp.ModerationNotes = ""
		cp.ModeratedBy = nil
		c = &cp
	}
	return models.UserContentView{
		UserContent:  c,
		LikeCount:    c.Likes.Count(),
		CommentCount: commentCount,
		HasLiked:     c.Likes.Has(actor.ID),
		URL:          "/content/" + c.Slug,
	}
}
