package services

import (
	"context"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/cache"
	"blogplatform/internal/logger"
	"blogplatform/internal/models"
	"blogplatform/internal/repository"
	"blogplatform/internal/storage"
	"blogplatform/internal/utils"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	defaultPostsLimit    = 10
	defaultFeaturedLimit = 5
	maxFeaturedLimit     = 50
)

// PostQuery: параметры списка постов в том виде, как пришли из запроса.
type PostQuery struct {
	Page     int
	Limit    int
	Category string // slug
	Tag      string
	Author   string
	Search   string
	Sort     string
	Status   string // "all": включая черновики, только для своих постов
}

type PostService interface {
	Create(ctx context.Context, actor models.Actor, in models.PostInput) (*models.PostView, error)
	Update(ctx context.Context, actor models.Actor, id string, in models.PostInput) (*models.PostView, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	List(ctx context.Context, actor models.Actor, q PostQuery) (*models.PostList, error)
	Featured(ctx context.Context, limit int) ([]models.PostView, error)
	GetBySlug(ctx context.Context, actor models.Actor, slug string) (*models.PostView, error)
	ToggleLike(ctx context.Context, actor models.Actor, id string) (models.LikeResult, error)
}

type postService struct {
	repo       repository.PostRepo
	comments   repository.CommentRepo
	likes      repository.LikeRepo
	categories CategoryService
	files      storage.FileStorage
	featured   cache.Featured
	clock      Clock
	policy     *bluemonday.Policy
}

func NewPostService(
	repo repository.PostRepo,
	comments repository.CommentRepo,
	likes repository.LikeRepo,
	categories CategoryService,
	files storage.FileStorage,
	featured cache.Featured,
	clock Clock,
) PostService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	if featured == nil {
		featured = cache.Noop{}
	}
	return &postService{
		repo:       repo,
		comments:   comments,
		likes:      likes,
		categories: categories,
		files:      files,
		featured:   featured,
		clock:      clock,
		policy:     p,
	}
}

func validatePost(in models.PostInput, creating bool) error {
	var errs fieldErrors
	if creating || in.Title != nil {
		errs.check(trimmed(in.Title) != "", "Title is required")
	}
	errs.maxLen(in.Title, 200, "Title cannot exceed 200 characters")
	if creating || in.Content != nil {
		errs.check(trimmed(in.Content) != "", "Content is required")
	}
	errs.maxLen(in.Excerpt, 300, "Excerpt cannot exceed 300 characters")
	if in.Status != nil && *in.Status != "" {
		errs.check(models.PostStatus(*in.Status).Valid(), "Status must be draft, published or archived")
	}
	return errs.err()
}

// checkCategory: несуществующая категория, ошибка валидации, не 404.
func (s *postService) checkCategory(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Validation("Category not found")
		}
		return err
	}
	return nil
}

func (s *postService) Create(ctx context.Context, actor models.Actor, in models.PostInput) (*models.PostView, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание поста", zap.String("title", trimmed(in.Title)))

	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if err := validatePost(in, true); err != nil {
		log.Warn("Валидация поста не пройдена", zap.Error(err))
		return nil, err
	}
	categoryID := trimmed(in.CategoryID)
	if err := s.checkCategory(ctx, categoryID); err != nil {
		logFail(log, "Категория поста не прошла проверку", err)
		return nil, err
	}

	now := s.clock.Now()
	content := s.policy.Sanitize(*in.Content)
	p := &models.Post{
		ID:              newID(),
		Title:           trimmed(in.Title),
		Content:         content,
		Excerpt:         trimmed(in.Excerpt),
		FeaturedImage:   trimmed(in.FeaturedImage),
		AuthorID:        actor.ID,
		Tags:            []string{},
		Status:          models.PostDraft,
		CommentsEnabled: true,
		ReadingTime:     utils.ReadingTime(content),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if categoryID != "" {
		p.CategoryID = &categoryID
	}
	if in.Tags != nil {
		p.Tags = utils.SplitTags(*in.Tags)
	}
	if st := trimmed(in.Status); st != "" {
		p.Status = models.PostStatus(st)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.CommentsEnabled != nil {
		p.CommentsEnabled = *in.CommentsEnabled
	}
	if p.Status == models.PostPublished {
		p.PublishedAt = &now
	}

	err := withUniqueSlug(p.Title, func(slug string) error {
		p.Slug = slug
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		logFail(log, "Ошибка создания поста (repo)", err)
		return nil, err
	}

	s.afterWrite(ctx, categoryID)
	log.Info("Пост создан", zap.String("post_id", p.ID), zap.String("slug", p.Slug), zap.String("status", string(p.Status)))
	v := postView(p, actor, 0)
	return &v, nil
}

func (s *postService) Update(ctx context.Context, actor models.Actor, id string, in models.PostInput) (*models.PostView, error) {
	log := logger.WithCtx(ctx)
	log.Info("Редактирование поста", zap.String("post_id", id))

	if err := validatePost(in, false); err != nil {
		log.Warn("Валидация поста не пройдена", zap.Error(err))
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Пост не найден", err)
		return nil, err
	}
	if !actor.CanManage(p.AuthorID) {
		log.Warn("Нет прав на редактирование поста", zap.String("author_id", p.AuthorID))
		return nil, apperr.Forbidden("Not authorized to update this post")
	}

	oldCategory := ""
	if p.CategoryID != nil {
		oldCategory = *p.CategoryID
	}
	oldStatus := p.Status
	oldImage := p.FeaturedImage

	if categoryID := trimmed(in.CategoryID); categoryID != "" {
		if err := s.checkCategory(ctx, categoryID); err != nil {
			logFail(log, "Категория поста не прошла проверку", err)
			return nil, err
		}
		p.CategoryID = &categoryID
	}
	titleChanged := false
	if title := trimmed(in.Title); title != "" && title != p.Title {
		p.Title = title
		titleChanged = true
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" {
		p.Content = s.policy.Sanitize(*in.Content)
		p.ReadingTime = utils.ReadingTime(p.Content)
	}
	if in.Excerpt != nil {
		p.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Tags != nil {
		p.Tags = utils.SplitTags(*in.Tags)
	}
	if st := trimmed(in.Status); st != "" {
		p.Status = models.PostStatus(st)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.CommentsEnabled != nil {
		p.CommentsEnabled = *in.CommentsEnabled
	}
	if img := trimmed(in.FeaturedImage); img != "" {
		p.FeaturedImage = img
	}

	now := s.clock.Now()
	// publishedAt ставится один раз, при первой публикации
	if p.Status == models.PostPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now

	if titleChanged {
		err = withUniqueSlug(p.Title, func(slug string) error {
			p.Slug = slug
			return s.repo.Update(ctx, p)
		})
	} else {
		err = s.repo.Update(ctx, p)
	}
	if err != nil {
		logFail(log, "Ошибка обновления поста (repo)", err)
		return nil, err
	}

	if oldImage != "" && oldImage != p.FeaturedImage {
		removeFiles(ctx, log, s.files, oldImage)
	}
	newCategory := ""
	if p.CategoryID != nil {
		newCategory = *p.CategoryID
	}
	if newCategory != oldCategory || p.Status != oldStatus {
		s.afterWrite(ctx, oldCategory, newCategory)
	} else {
		s.afterWrite(ctx)
	}

	counts, err := s.comments.CountApproved(ctx, models.TargetPost, []string{p.ID})
	if err != nil {
		logFail(log, "Ошибка подсчёта комментариев (repo)", err)
		return nil, err
	}
	log.Info("Пост обновлён", zap.String("post_id", p.ID), zap.String("slug", p.Slug))
	v := postView(p, actor, counts[p.ID])
	return &v, nil
}

func (s *postService) Delete(ctx context.Context, actor models.Actor, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление поста", zap.String("post_id", id))

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Пост не найден", err)
		return err
	}
	if !actor.CanManage(p.AuthorID) {
		log.Warn("Нет прав на удаление поста", zap.String("author_id", p.AuthorID))
		return apperr.Forbidden("Not authorized to delete this post")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logFail(log, "Ошибка удаления поста (repo)", err)
		return err
	}
	removeFiles(ctx, log, s.files, p.FeaturedImage)

	category := ""
	if p.CategoryID != nil {
		category = *p.CategoryID
	}
	s.afterWrite(ctx, category)
	log.Info("Пост удалён", zap.String("post_id", id))
	return nil
}

// afterWrite сбрасывает кэш избранного и пересчитывает счётчики категорий.
// Сбои здесь не отменяют уже выполненную запись.
func (s *postService) afterWrite(ctx context.Context, categoryIDs ...string) {
	log := logger.WithCtx(ctx)
	if err := s.featured.Invalidate(ctx); err != nil {
		log.Warn("Не удалось сбросить кэш избранных постов", zap.Error(err))
	}
	seen := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if err := s.categories.UpdatePostCount(ctx, id); err != nil && apperr.KindOf(err) != apperr.KindNotFound {
			log.Warn("Не удалось обновить счётчик категории", zap.String("category_id", id), zap.Error(err))
		}
	}
}

func (s *postService) List(ctx context.Context, actor models.Actor, q PostQuery) (*models.PostList, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка постов",
		zap.Int("page", q.Page),
		zap.Int("limit", q.Limit),
		zap.String("category", q.Category),
		zap.String("tag", q.Tag),
		zap.String("sort", q.Sort),
	)

	f := models.PostFilter{
		Tag:      strings.TrimSpace(q.Tag),
		AuthorID: strings.TrimSpace(q.Author),
		Search:   strings.TrimSpace(q.Search),
		Sort:     parseSort(q.Sort),
		Page:     models.NewPage(q.Page, q.Limit, defaultPostsLimit),
	}
	if q.Status == "all" && actor.IsAuthenticated() && f.AuthorID == actor.ID {
		f.AnyStatus = true
	}
	if q.Category != "" {
		// неизвестный slug категории фильтр не сужает
		cat, err := s.categories.GetBySlug(ctx, q.Category)
		switch {
		case err == nil:
			f.CategoryID = cat.ID
		case apperr.KindOf(err) != apperr.KindNotFound:
			logFail(log, "Ошибка поиска категории (repo)", err)
			return nil, err
		}
	}

	posts, total, err := s.repo.List(ctx, f)
	if err != nil {
		logFail(log, "Ошибка получения списка постов (repo)", err)
		return nil, err
	}
	views, err := s.listViews(ctx, actor, posts)
	if err != nil {
		return nil, err
	}

	log.Debug("Список постов получен", zap.Int("count", len(views)), zap.Int("total", total))
	return &models.PostList{Posts: views, Pagination: f.Page.Paginate(total)}, nil
}

// listViews строит проекцию для списков без content, с числом одобренных комментариев.
func (s *postService) listViews(ctx context.Context, actor models.Actor, posts []*models.Post) ([]models.PostView, error) {
	counts, err := s.comments.CountApproved(ctx, models.TargetPost, ids(posts, func(p *models.Post) string { return p.ID }))
	if err != nil {
		logFail(logger.WithCtx(ctx), "Ошибка подсчёта комментариев (repo)", err)
		return nil, err
	}
	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		p.Content = ""
		views = append(views, postView(p, actor, counts[p.ID]))
	}
	return views, nil
}

func parseSort(s string) models.PostSort {
	switch models.PostSort(s) {
	case models.SortOldest, models.SortViews, models.SortLikes:
		return models.PostSort(s)
	}
	return models.SortNewest
}

func (s *postService) Featured(ctx context.Context, limit int) ([]models.PostView, error) {
	log := logger.WithCtx(ctx)
	if limit < 1 {
		limit = defaultFeaturedLimit
	}
	if limit > maxFeaturedLimit {
		limit = maxFeaturedLimit
	}

	cachedIDs, hit, err := s.featured.Get(ctx, limit)
	if err != nil {
		log.Warn("Кэш избранных постов недоступен", zap.Error(err))
		hit = false
	}

	var posts []*models.Post
	if hit {
		// в кэше только id, счётчики читаются заново
		posts, err = s.repo.GetByIDs(ctx, cachedIDs)
		if err != nil {
			logFail(log, "Ошибка получения избранных постов по id (repo)", err)
			return nil, err
		}
		posts = onlyFeatured(posts)
	} else {
		posts, _, err = s.repo.List(ctx, models.PostFilter{
			FeaturedOnly: true,
			Sort:         models.SortNewest,
			Page:         models.NewPage(1, limit, defaultFeaturedLimit),
		})
		if err != nil {
			logFail(log, "Ошибка получения избранных постов (repo)", err)
			return nil, err
		}
		if err := s.featured.Set(ctx, limit, ids(posts, func(p *models.Post) string { return p.ID })); err != nil {
			log.Warn("Не удалось записать кэш избранных постов", zap.Error(err))
		}
	}
	for _, p := range posts {
		p.Content = ""
	}
	log.Debug("Избранные посты", zap.Int("count", len(posts)), zap.Bool("cache_hit", hit))

	return s.listViews(ctx, models.Anonymous, posts)
}

func onlyFeatured(posts []*models.Post) []*models.Post {
	out := posts[:0]
	for _, p := range posts {
		if p.Featured && p.Status == models.PostPublished {
			out = append(out, p)
		}
	}
	return out
}

func (s *postService) GetBySlug(ctx context.Context, actor models.Actor, slug string) (*models.PostView, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение поста по slug", zap.String("slug", slug))

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		logFail(log, "Пост не найден", err)
		return nil, err
	}
	if p.Status != models.PostPublished {
		log.Warn("Пост не опубликован", zap.String("post_id", p.ID), zap.String("status", string(p.Status)))
		return nil, apperr.NotFound("Post not found")
	}

	views, err := s.repo.IncrementViews(ctx, p.ID)
	if err != nil {
		logFail(log, "Ошибка увеличения просмотров (repo)", err)
		return nil, err
	}
	p.Views = views

	counts, err := s.comments.CountApproved(ctx, models.TargetPost, []string{p.ID})
	if err != nil {
		logFail(log, "Ошибка подсчёта комментариев (repo)", err)
		return nil, err
	}
	v := postView(p, actor, counts[p.ID])
	return &v, nil
}

func (s *postService) ToggleLike(ctx context.Context, actor models.Actor, id string) (models.LikeResult, error) {
	log := logger.WithCtx(ctx)
	if err := requireAuth(actor); err != nil {
		return models.LikeResult{}, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Пост не найден", err)
		return models.LikeResult{}, err
	}

	res, err := s.likes.Toggle(ctx, p.CommentTarget(), actor.ID, s.clock.Now())
	if err != nil {
		logFail(log, "Ошибка переключения лайка поста (repo)", err)
		return models.LikeResult{}, err
	}
	if res.Liked {
		log.Info("Пост лайкнут", zap.String("post_id", id), zap.Int("like_count", res.LikeCount))
	} else {
		log.Info("Лайк поста снят", zap.String("post_id", id), zap.Int("like_count", res.LikeCount))
	}
	return res, nil
}
