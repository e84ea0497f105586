package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/GreenvaleServices/lawn-portal/internal/audit"
	"github.com/GreenvaleServices/lawn-portal/internal/cache"
	"github.com/GreenvaleServices/lawn-portal/internal/config"
	"github.com/GreenvaleServices/lawn-portal/internal/handlers"
	"github.com/GreenvaleServices/lawn-portal/internal/infra/repository"
	"github.com/GreenvaleServices/lawn-portal/internal/infra/storage"
	"github.com/GreenvaleServices/lawn-portal/internal/middleware"
	ucRequest "github.com/GreenvaleServices/lawn-portal/internal/usecase/request"
	ucVisit "github.com/GreenvaleServices/lawn-portal/internal/usecase/visit"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	visitRepo := repository.NewVisitGormRepository(db)
	requestRepo := repository.NewRequestGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	feedCache := cache.New(cfg)
	photoStore := storage.NewPhotoStore(cfg)

	// ======================================================
	// USE CASES
	// ======================================================
	createVisitUC := ucVisit.NewCreateVisit(visitRepo, auditDispatcher)
	updateVisitUC := ucVisit.NewUpdateVisit(visitRepo, auditDispatcher)
	deleteVisitUC := ucVisit.NewDeleteVisit(visitRepo, auditDispatcher)

	resolveRequestUC := ucRequest.NewResolveRequest(requestRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, auditDispatcher)
	meHandler := handlers.NewMeHandler(db)

	customerHandler := handlers.NewCustomerHandler(db, auditDispatcher)
	userHandler := handlers.NewUserHandler(db, auditDispatcher)

	visitHandler := handlers.NewVisitHandler(db, createVisitUC, updateVisitUC, deleteVisitUC)
	feedbackHandler := handlers.NewFeedbackHandler(db, auditDispatcher, feedCache)
	requestHandler := handlers.NewRequestHandler(db, auditDispatcher, feedCache, resolveRequestUC)

	uploadHandler := handlers.NewUploadHandler(photoStore)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.Identity(cfg))
	{
		// ------------------------------
		// AUTH (PUBLIC)
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/activate/:token", authHandler.Activate)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		authed := api.Group("/")
		authed.Use(middleware.RequireAuth())
		{
			authed.GET("/me", meHandler.GetMe)

			authed.GET("/visits", visitHandler.ListMine)

			authed.POST("/feedback", feedbackHandler.Submit)

			authed.POST("/requests", requestHandler.Create)
			authed.GET("/requests/mine", requestHandler.ListMine)
			authed.PATCH("/requests/:id/resolve", requestHandler.Resolve)

			authed.POST("/uploads", uploadHandler.Upload)

			// ------------------------------
			// STAFF
			// ------------------------------
			staff := authed.Group("/")
			staff.Use(middleware.RequireStaff())
			{
				staff.GET("/customers", customerHandler.List)
				staff.POST("/customers", customerHandler.Create)
				staff.GET("/customers/:id", customerHandler.GetByID)
				staff.GET("/customers/:id/visits", customerHandler.ListVisits)
				staff.GET("/customers/:id/requests", customerHandler.ListRequests)

				staff.POST("/visits", visitHandler.Create)
				staff.GET("/visits/date", visitHandler.ListByDate)

				staff.GET("/feedback/recent", feedbackHandler.Recent)
				staff.GET("/requests/recent", requestHandler.Recent)
				staff.GET("/requests", requestHandler.List)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := authed.Group("/")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", userHandler.List)
				admin.PATCH("/users/:id", userHandler.Update)

				admin.GET("/visits/:id", visitHandler.GetByID)
				admin.PATCH("/visits/:id", visitHandler.Update)
				admin.DELETE("/visits/:id", visitHandler.Delete)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
