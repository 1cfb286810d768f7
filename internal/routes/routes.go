package routes

import (
	"net/http"

	"blogplatform/internal/handlers"
	"blogplatform/internal/middleware"
	"blogplatform/internal/models"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Posts       *handlers.PostHandler
	Comments    *handlers.CommentHandler
	UserContent *handlers.UserContentHandler
	Categories  *handlers.CategoryHandler
	Admin       *handlers.AdminHandler
	Uploads     *handlers.UploadHandler
}

func InitRoutes(router *mux.Router, h Handlers, jwtSecret string) {
	router.Use(middleware.RequestID, middleware.Logging, middleware.Recoverer)

	router.HandleFunc("/uploads/{path:.+}", h.Uploads.Serve).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	// --- Публичные маршруты (токен необязателен) ---
	public := api.PathPrefix("").Subrouter()
	public.Use(middleware.OptionalAuth(jwtSecret))

	public.HandleFunc("/posts", h.Posts.List).Methods(http.MethodGet)
	public.HandleFunc("/posts/featured", h.Posts.Featured).Methods(http.MethodGet)
	public.HandleFunc("/posts/{slug}", h.Posts.GetBySlug).Methods(http.MethodGet)

	public.HandleFunc("/comments/post/{postId}", h.Comments.ListForPost).Methods(http.MethodGet)

	public.HandleFunc("/user-content", h.UserContent.ListPublic).Methods(http.MethodGet)
	public.HandleFunc("/user-content/{slug}", h.UserContent.GetBySlug).Methods(http.MethodGet)
	public.HandleFunc("/user-content/{id}/comments", h.UserContent.ListComments).Methods(http.MethodGet)

	public.HandleFunc("/categories", h.Categories.List).Methods(http.MethodGet)
	public.HandleFunc("/categories/{slug}", h.Categories.GetBySlug).Methods(http.MethodGet)

	public.HandleFunc("/admin/settings", h.Admin.GetSettings).Methods(http.MethodGet)

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))

	protected.HandleFunc("/posts", h.Posts.Create).Methods(http.MethodPost)
	protected.HandleFunc("/posts/{id}", h.Posts.Update).Methods(http.MethodPut)
	protected.HandleFunc("/posts/{id}", h.Posts.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/posts/{id}/like", h.Posts.ToggleLike).Methods(http.MethodPost)

	protected.HandleFunc("/comments", h.Comments.Create).Methods(http.MethodPost)
	protected.HandleFunc("/comments/{id}", h.Comments.Update).Methods(http.MethodPut)
	protected.HandleFunc("/comments/{id}", h.Comments.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/comments/{id}/like", h.Comments.ToggleLike).Methods(http.MethodPost)

	protected.HandleFunc("/user-content/my/content", h.UserContent.ListMine).Methods(http.MethodGet)
	protected.HandleFunc("/user-content", h.UserContent.Create).Methods(http.MethodPost)
	protected.HandleFunc("/user-content/{id}", h.UserContent.Update).Methods(http.MethodPut)
	protected.HandleFunc("/user-content/{id}", h.UserContent.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/user-content/{id}/like", h.UserContent.ToggleLike).Methods(http.MethodPost)
	protected.HandleFunc("/user-content/{id}/comment", h.UserContent.AddComment).Methods(http.MethodPost)

	// --- Только админ ---
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.OnlyRole(models.RoleAdmin))

	admin.HandleFunc("/comments", h.Comments.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/comments/{id}/approve", h.Comments.SetApproval).Methods(http.MethodPut)

	admin.HandleFunc("/categories", h.Categories.Create).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id}", h.Categories.Update).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{id}", h.Categories.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/admin/settings", h.Admin.UpdateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/admin/settings/reset", h.Admin.ResetSettings).Methods(http.MethodPost)
	admin.HandleFunc("/admin/content/pending", h.Admin.PendingContent).Methods(http.MethodGet)
	admin.HandleFunc("/admin/content/stats", h.Admin.ContentStats).Methods(http.MethodGet)
	admin.HandleFunc("/admin/content/{id}/approve", h.Admin.ApproveContent).Methods(http.MethodPut)
	admin.HandleFunc("/admin/content/{id}/reject", h.Admin.RejectContent).Methods(http.MethodPut)
	admin.HandleFunc("/admin/content/{id}/publish", h.Admin.PublishContent).Methods(http.MethodPut)
}
