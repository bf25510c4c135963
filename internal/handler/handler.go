package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/paiban-dev/shift-scheduler/backend/internal/config"
	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/paiban-dev/shift-scheduler/backend/internal/lifecycle"
	"github.com/paiban-dev/shift-scheduler/backend/internal/repository"
	"github.com/paiban-dev/shift-scheduler/backend/internal/settings"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	lifecycle   *lifecycle.Manager
	settings    *settings.Service
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, manager *lifecycle.Manager, svc *settings.Service, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
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
		lifecycle:   manager,
		settings:    svc,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api", func(api chi.Router) {
		// 认证相关
		api.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Route("/reset-password", func(r chi.Router) {
				r.Post("/require", h.RequireResetPassword)
				r.Post("/confirm", h.ConfirmResetPassword)
			})
		})

		// 以下 API 必须要在登录后才允许调用
		api.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Route("/my-info", func(r chi.Router) {
				r.Use(h.myInfo)
				r.Get("/", h.GetMyInfo)
				r.Patch("/password", h.UpdateMyPassword)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateEmployee)
				r.Get("/", h.ListEmployees) // 员工之间可以互相查看基本信息，便于找人换班
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.employeeInfo)
					r.Get("/", h.GetEmployee)
					r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateEmployee)
					r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteEmployee)
				})
			})

			r.Route("/time-slots", func(r chi.Router) {
				r.Get("/", h.ListTimeSlots)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateTimeSlot)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.timeSlot)
					r.Get("/", h.GetTimeSlot)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateTimeSlot)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteTimeSlot)
				})
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", h.ListSchedules)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateSchedule)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.schedule)
					r.Get("/", h.GetSchedule)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateSchedule)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteSchedule)
				})
			})

			r.Route("/shift-requests", func(r chi.Router) {
				r.Use(h.myInfo)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/", h.ListShiftRequests)
				r.Post("/", h.CreateShiftRequest)
				r.Get("/my", h.ListMyShiftRequests)
				r.Get("/my-schedules", h.ListMySwappableSchedules)
				r.Get("/stats", h.GetShiftRequestStats)
				r.Get("/available-swaps/{scheduleId}", h.ListAvailableSwaps)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetShiftRequest)
					r.Put("/", h.UpdateShiftRequest)
					r.Patch("/", h.UpdateShiftRequest)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/approve", h.ApproveShiftRequest)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/reject", h.RejectShiftRequest)
					r.Post("/cancel", h.CancelShiftRequest)
					r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteShiftRequest)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Get("/", h.ListSettings)
				r.Route("/{category}/{key}", func(r chi.Router) {
					r.Get("/", h.GetSetting)
					r.Put("/", h.UpdateSetting)
					r.Delete("/", h.DeleteSetting)
				})
			})
		})
	})
}
