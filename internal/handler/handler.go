package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/VndrewJ/AI-Shift-Scheduler/internal/config"
	"github.com/VndrewJ/AI-Shift-Scheduler/internal/domain"
	"github.com/VndrewJ/AI-Shift-Scheduler/internal/sheetstore"
	"github.com/VndrewJ/AI-Shift-Scheduler/internal/shiftservice"
)

// Extractor 把一条自由文本消息变成结构化排班请求
type Extractor interface {
	Extract(ctx context.Context, message string) *domain.ActionRequest
}

// NameResolver 把平台的发送者 ID 解析成花名册中的姓名
type NameResolver interface {
	GetUserName(ctx context.Context, senderID string) (string, error)
}

// Repository 是 handler 依赖的数据库操作集合
type Repository interface {
	GetUserByID(id int64) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	GetAllUsers() ([]*domain.User, error)
	CreateUser(user *domain.User) error
	InsertShiftChange(change *domain.ShiftChange) error
	GetRecentShiftChanges(limit int) ([]*domain.ShiftChange, error)
}

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   Repository
	translator   ut.Translator
	queueChannel *amqp.Channel
	redisClient  *redis.Client
	store        sheetstore.Store
	shifts       *shiftservice.Service
	extractor    Extractor
	names        NameResolver

	Mux *chi.Mux
}

func NewHandler(
	cfg *config.Config,
	repo Repository,
	queueCh *amqp.Channel,
	rdb *redis.Client,
	store sheetstore.Store,
	shifts *shiftservice.Service,
	extractor Extractor,
	names NameResolver,
) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		queueChannel: queueCh,
		redisClient:  rdb,
		store:        store,
		shifts:       shifts,
		extractor:    extractor,
		names:        names,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// Messenger 平台的回调入口，不走登录认证
	h.Mux.Get("/webhook", h.VerifyWebhook)
	h.Mux.Post("/webhook", h.ReceiveWebhook)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下是给值班协调员用的管理接口，必须登录
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/schedule", h.GetSchedule)

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.CreateShift)
			r.Delete("/", h.RemoveShift)
		})

		r.Get("/shift-changes", h.GetShiftChanges)

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
		})
	})
}
