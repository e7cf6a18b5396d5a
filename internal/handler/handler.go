package handler

import (
	"net/http"

	"github.com/fieldops-dev/field-dispatch/backend/internal/config"
	"github.com/fieldops-dev/field-dispatch/backend/internal/domain"
	"github.com/fieldops-dev/field-dispatch/backend/internal/repository"
	"github.com/fieldops-dev/field-dispatch/backend/internal/schedule"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	assignments *schedule.AssignmentService
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		assignments: schedule.NewAssignmentService(repo, repo, repo),
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

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
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		// 员工目录，所有人都可以读，调度员及以上才能改
		r.Route("/workers", func(r chi.Router) {
			r.With(h.requiredDispatcher()).Post("/", h.CreateWorker)
			r.Get("/", h.GetAllWorkers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workerInfo)
				r.Get("/", h.GetWorker)
				r.With(h.requiredDispatcher()).Patch("/", h.UpdateWorker)
				r.With(h.requiredDispatcher()).Delete("/", h.DeleteWorker)
				r.Route("/unavailability", func(r chi.Router) {
					r.Get("/", h.GetWorkerUnavailability)
					r.With(h.requiredDispatcher()).Post("/", h.CreateWorkerUnavailability)
					r.With(h.requiredDispatcher()).Delete("/", h.DeleteWorkerUnavailability)
				})
			})
		})

		// 外包目录
		r.Route("/contractors", func(r chi.Router) {
			r.With(h.requiredDispatcher()).Post("/", h.CreateContractor)
			r.Get("/", h.GetAllContractors)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.contractorInfo)
				r.Get("/", h.GetContractor)
				r.With(h.requiredDispatcher()).Patch("/", h.UpdateContractor)
				r.With(h.requiredDispatcher()).Delete("/", h.DeleteContractor)
				r.Route("/unavailability", func(r chi.Router) {
					r.Get("/", h.GetContractorUnavailability)
					r.With(h.requiredDispatcher()).Post("/", h.CreateContractorUnavailability)
					r.With(h.requiredDispatcher()).Delete("/", h.DeleteContractorUnavailability)
				})
			})
		})

		r.Get("/unavailability", h.GetAllUnavailability)

		// 工单
		r.Route("/jobs", func(r chi.Router) {
			r.With(h.requiredDispatcher()).Post("/", h.CreateJob)
			r.Get("/", h.GetAllJobs)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.jobInfo)
				r.Get("/", h.GetJob)
				r.With(h.requiredDispatcher()).Patch("/", h.UpdateJob)
				r.With(h.requiredDispatcher()).Delete("/", h.DeleteJob)
				// 指派的唯一写入入口，整体替换工单的指派列表
				r.With(h.requiredDispatcher()).Put("/assignments", h.SetJobAssignments)
			})
		})

		// 三个只读视图，共用同一套冲突标记规则
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/calendar", h.GetScheduleCalendar)
			r.Get("/kanban", h.GetScheduleKanban)
			r.Get("/list", h.GetScheduleList)
		})
	})
}

// requiredDispatcher 是调度员及以上权限的简写
func (h *Handler) requiredDispatcher() func(next http.Handler) http.Handler {
	return h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleDispatcher})
}
