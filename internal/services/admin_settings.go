package services

import (
	"context"
	"regexp"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/logger"
	"blogplatform/internal/models"
	"blogplatform/internal/repository"

	"go.uber.org/zap"
)

var emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

type AdminSettingsService interface {
	Get(ctx context.Context) (*models.AdminSettingsView, error)
	Update(ctx context.Context, actor models.Actor, in models.AdminSettingsInput) (*models.AdminSettingsView, error)
	Reset(ctx context.Context, actor models.Actor) (*models.AdminSettingsView, error)
}

type adminSettingsService struct {
	repo  repository.AdminSettingsRepo
	clock Clock
}

func NewAdminSettingsService(repo repository.AdminSettingsRepo, clock Clock) AdminSettingsService {
	return &adminSettingsService{repo: repo, clock: clock}
}

func settingsView(s *models.AdminSettings) *models.AdminSettingsView {
	return &models.AdminSettingsView{AdminSettings: s, FullName: s.FullName()}
}

// Get работает как get-or-create, это единственный путь создания записи.
func (s *adminSettingsService) Get(ctx context.Context) (*models.AdminSettingsView, error) {
	st, err := s.repo.GetOrCreate(ctx, models.DefaultAdminSettings(s.clock.Now()))
	if err != nil {
		logFail(logger.WithCtx(ctx), "Ошибка получения настроек администратора (repo)", err)
		return nil, err
	}
	return settingsView(st), nil
}

func (s *adminSettingsService) Update(ctx context.Context, actor models.Actor, in models.AdminSettingsInput) (*models.AdminSettingsView, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление настроек администратора")

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	first, last, email := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), strings.TrimSpace(in.Email)
	if first == "" || last == "" || email == "" {
		return nil, apperr.Validation("First name, last name, and email are required")
	}
	if !emailRe.MatchString(email) {
		return nil, apperr.Validation("Please provide a valid email address")
	}

	cur, err := s.repo.GetOrCreate(ctx, models.DefaultAdminSettings(s.clock.Now()))
	if err != nil {
		logFail(log, "Ошибка получения настроек администратора (repo)", err)
		return nil, err
	}

	defaults := models.DefaultAdminSettings(cur.JoinDate)
	cur.FirstName = first
	cur.LastName = last
	cur.Email = strings.ToLower(email)
	cur.Title = trimmed(in.Title)
	cur.Bio = trimmed(in.Bio)
	cur.Phone = trimmed(in.Phone)
	cur.Location = trimmed(in.Location)
	cur.Website = trimmed(in.Website)
	cur.SocialMedia = models.SocialMedia{}
	if in.SocialMedia != nil {
		cur.SocialMedia = models.SocialMedia{
			Twitter:   strings.TrimSpace(in.SocialMedia.Twitter),
			Linkedin:  strings.TrimSpace(in.SocialMedia.Linkedin),
			Github:    strings.TrimSpace(in.SocialMedia.Github),
			Instagram: strings.TrimSpace(in.SocialMedia.Instagram),
		}
	}
	cur.BlogTitle = orDefault(trimmed(in.BlogTitle), defaults.BlogTitle)
	cur.BlogSubtitle = orDefault(trimmed(in.BlogSubtitle), defaults.BlogSubtitle)
	cur.BlogDescription = trimmed(in.BlogDescription)
	cur.AvatarURL = trimmed(in.AvatarURL)
	cur.Skills = []string{}
	if in.Skills != nil {
		for _, sk := range *in.Skills {
			if sk = strings.TrimSpace(sk); sk != "" {
				cur.Skills = append(cur.Skills, sk)
			}
		}
	}
	cur.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, cur); err != nil {
		logFail(log, "Ошибка сохранения настроек администратора (repo)", err)
		return nil, err
	}
	log.Info("Настройки администратора обновлены", zap.String("email", cur.Email))
	return settingsView(cur), nil
}

// Reset возвращает значения по умолчанию, сохраняя дату создания записи.
func (s *adminSettingsService) Reset(ctx context.Context, actor models.Actor) (*models.AdminSettingsView, error) {
	log := logger.WithCtx(ctx)
	log.Info("Сброс настроек администратора")

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, models.DefaultAdminSettings(s.clock.Now())); err != nil {
		logFail(log, "Ошибка сброса настроек администратора (repo)", err)
		return nil, err
	}
	return s.Get(ctx)
}

func orDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
