package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/caredesk/clinic-scheduler/internal/audit"
	"github.com/caredesk/clinic-scheduler/internal/cache"
	"github.com/caredesk/clinic-scheduler/internal/config"
	"github.com/caredesk/clinic-scheduler/internal/handlers"
	infraRepo "github.com/caredesk/clinic-scheduler/internal/infra/repository"
	"github.com/caredesk/clinic-scheduler/internal/middleware"
	ucBooking "github.com/caredesk/clinic-scheduler/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	r.Use(middleware.CORSMiddleware())

	// Infra singletons.
	reservationRepo := infraRepo.NewReservationGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	availabilityCache := cache.NewAvailabilityCache(cfg.RedisAddr)

	// Use cases.
	availabilityUC := ucBooking.NewGetAvailability(reservationRepo, availabilityCache)

	createUC := ucBooking.NewCreateBooking(reservationRepo, auditDispatcher, availabilityCache)
	listUC := ucBooking.NewListReservations(reservationRepo)
	updateUC := ucBooking.NewUpdateBooking(reservationRepo, auditDispatcher, availabilityCache)
	confirmUC := ucBooking.NewConfirmReservation(reservationRepo, auditDispatcher)
	cancelUC := ucBooking.NewCancelReservation(reservationRepo, auditDispatcher, availabilityCache)
	completeUC := ucBooking.NewCompleteReservation(reservationRepo, auditDispatcher, availabilityCache)
	deleteUC := ucBooking.NewDeleteReservation(reservationRepo, auditDispatcher, availabilityCache)

	// Handlers.
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	clinicHandler := handlers.NewClinicHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db, availabilityCache)
	publicHandler := handlers.NewPublicHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityUC)

	reservationHandler := handlers.NewReservationHandler(
		createUC,
		listUC,
		updateUC,
		confirmUC,
		cancelUC,
		completeUC,
		deleteUC,
	)

	api := r.Group("/api")
	{
		// Public directory and availability lookups.
		api.GET("/public/:slug", publicHandler.GetClinicBySlug)

		api.GET("/availability/:clinicID/:serviceID", availabilityHandler.GetByService)
		api.GET("/availability-by-duration/:clinicID", availabilityHandler.GetByDuration)

		// Auth.
		api.POST("/auth/register", authHandler.RegisterClinic)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/patients/register", authHandler.RegisterPatient)
		api.POST("/auth/patients/login", authHandler.Login)

		// Authenticated API.
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/clinic", clinicHandler.GetMeClinic)
			secured.PATCH("/me/clinic", clinicHandler.UpdateMeClinic)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/schedule", scheduleHandler.Get)
			secured.PUT("/me/schedule", scheduleHandler.Put)

			secured.GET("/me/audit-logs", auditLogsHandler.List)

			secured.POST("/appointments", reservationHandler.Create)
			secured.GET("/appointments", reservationHandler.List)
			secured.PATCH("/appointments/:id", reservationHandler.Update)
			secured.PATCH("/appointments/:id/confirm", reservationHandler.Confirm)
			secured.PATCH("/appointments/:id/cancel", reservationHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", reservationHandler.Complete)
			secured.DELETE("/appointments/:id", reservationHandler.Delete)
		}
	}
}
