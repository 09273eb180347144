package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salesflow-ai/entitlement-service/internal/api/rest/handlers"
	"github.com/salesflow-ai/entitlement-service/internal/api/rest/middleware"
	"github.com/salesflow-ai/entitlement-service/internal/config"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

// Handlers собирает обработчики API. LeadGen опционален и подключается
// только при настроенном backend-е лидогенерации.
type Handlers struct {
	Entitlement *handlers.EntitlementHandler
	Scripts     *handlers.ScriptHandler
	Objections  *handlers.ObjectionHandler
	Leads       *handlers.LeadHandler
	AI          *handlers.AIHandler
	LeadGen     *handlers.LeadGenHandler
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(log *logger.Logger, registry *prometheus.Registry, cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")

	// Аутентификация включается только при заданном секрете,
	// в локальном однопользовательском режиме API открыт.
	if cfg.Auth.JWTSecret != "" {
		jwtMiddleware := middleware.NewJWTMiddleware(log, &middleware.DefaultTokenValidator{
			Secret: []byte(cfg.Auth.JWTSecret),
		})
		v1.Use(jwtMiddleware.RequireAuth())
	}

	{
		// Подписка и квоты
		ent := v1.Group("/entitlement")
		{
			ent.GET("", h.Entitlement.GetState)
			ent.GET("/can-add-lead", h.Entitlement.CanAddLead)
			ent.GET("/can-use-ai", h.Entitlement.CanUseAI)
			ent.POST("/upgrade", h.Entitlement.Upgrade)
		}

		// Библиотека скриптов
		scripts := v1.Group("/scripts")
		{
			scripts.GET("", h.Scripts.GetScripts)
			scripts.GET("/popular", h.Scripts.GetPopular)
			scripts.GET("/history", h.Scripts.GetCopyHistory)
			scripts.GET("/:id", h.Scripts.GetScript)
			scripts.POST("/:id/render", h.Scripts.RenderScript)
			scripts.POST("/:id/copy", h.Scripts.CopyScript)
		}

		// Библиотека возражений
		objections := v1.Group("/objections")
		{
			objections.GET("", h.Objections.GetObjections)
			objections.POST("/respond", h.Objections.Respond)
		}

		// Лиды
		leads := v1.Group("/leads")
		{
			leads.GET("", h.Leads.GetLeads)
			leads.GET("/:id", h.Leads.GetLead)
			leads.GET("/:id/followup", h.Leads.GetFollowUp)
			leads.POST("", h.Leads.CreateLead)
			leads.PUT("/:id", h.Leads.UpdateLead)
			leads.DELETE("/:id", h.Leads.DeleteLead)
		}

		// AI-ассистент
		ai := v1.Group("/ai")
		{
			ai.POST("/chat", h.AI.Chat)
		}

		// Лидогенерация
		if h.LeadGen != nil {
			lg := v1.Group("/leadgen")
			{
				lg.POST("/verify", h.LeadGen.Verify)
				lg.POST("/enrich", h.LeadGen.Enrich)
				lg.POST("/intent/message", h.LeadGen.AnalyzeMessageIntent)
				lg.GET("/stats", h.LeadGen.PipelineStats)
			}
		}
	}

	return r
}
