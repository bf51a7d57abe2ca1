package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	v1 "github.com/talentflow/talentflow/internal/api/v1"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/logger"
	"github.com/talentflow/talentflow/internal/rest/middleware"
	"github.com/talentflow/talentflow/internal/types"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Slot      *v1.SlotHandler
	Model     *v1.ModelHandler
	Shift     *v1.ShiftHandler
	Lifecycle *v1.LifecycleHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.UserMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/statuses", handlers.Lifecycle.ListStatuses)
	router.GET("/lifecycle/next", handlers.Lifecycle.GetNextStatus)

	slots := router.Group("/slots")
	{
		slots.POST("", handlers.Slot.CreateSlot)
		slots.GET("", handlers.Slot.ListSlots)
		slots.GET("/:date/:id", handlers.Slot.GetSlot)
		slots.PUT("/:date/:id", handlers.Slot.UpdateSlot)
		slots.DELETE("/:date/:id", handlers.Slot.DeleteSlot)
		slots.POST("/:date/:id/register", handlers.Slot.RegisterModel)
		slots.POST("/:date/:id/link", handlers.Slot.LinkModel)
		slots.DELETE("/:date/:id/link", handlers.Slot.UnlinkModel)
	}

	models := router.Group("/models")
	{
		models.POST("", handlers.Model.CreateModel)
		models.GET("", handlers.Model.ListModels)
		models.GET("/:id", handlers.Model.GetModel)
		models.PUT("/:id", handlers.Model.UpdateModel)
		models.DELETE("/:id", handlers.Model.DeleteModel)
		models.POST("/:id/comments", handlers.Model.AddComment)
		models.GET("/:id/history", handlers.Model.GetHistory)
		models.GET("/:id/shift-eligibility", handlers.Shift.CheckEligibility)

		shifts := models.Group("/:id/shifts")
		{
			shifts.POST("", handlers.Shift.CreateShift)
			shifts.GET("", handlers.Shift.ListShifts)
			shifts.GET("/:shift_id", handlers.Shift.GetShift)
			shifts.PUT("/:shift_id", handlers.Shift.UpdateShift)
			shifts.DELETE("/:shift_id", handlers.Shift.DeleteShift)
		}
	}
}
