package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/config"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/domain"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/github"
	"github.com/sysu-ecnc-dev/staff-worksheet/internal/repository"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client
	githubClient  *github.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client, gh *github.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,
		githubClient:  gh,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		// 客户端把它当作令牌有效性探针
		r.With(h.myInfo).Get("/auth/verify", h.Verify)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/weekly", h.GetWeeklySchedule)
			r.Post("/update", h.UpdateSchedule)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/add", h.AddEmployee)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/delete/{id}", h.DeleteEmployee)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/all", h.GetAllProjects)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/change", h.ChangeProject)
		})

		r.Get("/repos", h.GetRepos)
	})
}
