package api

import (
	"net/http"

	"fitvibe/coach-app/internal/domain"
	"fitvibe/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes wires every endpoint onto the router. Authentication runs as
// middleware; ownership and party checks live in the services, so routes
// only gate on role where the whole group belongs to one side.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	subscriptionService service.SubscriptionService,
	planService service.PlanService,
	progressService service.ProgressService,
	chatService service.ChatService,
	profileService service.ProfileService,
	videoService service.VideoService,
	appointmentService service.AppointmentService,
	logger *zap.Logger,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(subscriptionService, planService, profileService, videoService, appointmentService, logger)
	clientHandler := NewClientHandler(subscriptionService, planService, progressService, profileService, videoService, logger)
	chatHandler := NewChatHandler(chatService, logger)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/name", authHandler.UpdateName)

		// Coach browsing is open to any authenticated user.
		protected.GET("/coaches", clientHandler.BrowseCoaches)
		protected.GET("/coaches/:coachId/profile", clientHandler.GetCoachProfile)

		// Playback works for the owning coach and subscribed clients alike.
		protected.GET("/videos/:videoId/playback-url", coachHandler.GetVideoPlaybackURL)

		// --- Chat (both parties of a relationship) ---
		chatGroup := protected.Group("/chat/:relationshipId")
		{
			chatGroup.GET("/messages", chatHandler.GetHistory)
			chatGroup.POST("/messages", chatHandler.SendMessage)
			chatGroup.POST("/messages/:messageId/seen", chatHandler.MarkSeen)
			chatGroup.GET("/live", chatHandler.Live)
		}

		// --- Coach side ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.GET("/clients", coachHandler.GetClients)

			coachGroup.POST("/relationships/:relationshipId/plans/:kind", coachHandler.CreatePlan)
			coachGroup.GET("/relationships/:relationshipId/plans/:kind", coachHandler.GetPlans)
			coachGroup.PUT("/relationships/:relationshipId/plans/:kind/:planId", coachHandler.UpdatePlan)

			coachGroup.GET("/profile", coachHandler.GetProfile)
			coachGroup.PUT("/profile", coachHandler.SaveProfile)
			coachGroup.POST("/profile/images", coachHandler.UploadImage)
			coachGroup.DELETE("/profile/images", coachHandler.RemoveImage)

			coachGroup.POST("/videos/upload-url", coachHandler.RequestVideoUpload)
			coachGroup.POST("/videos", coachHandler.ConfirmVideo)
			coachGroup.GET("/videos", coachHandler.GetVideos)
			coachGroup.DELETE("/videos/:videoId", coachHandler.DeleteVideo)

			coachGroup.POST("/appointments", coachHandler.CreateAppointment)
			coachGroup.GET("/appointments", coachHandler.GetAppointments)
			coachGroup.PUT("/appointments/:appointmentId", coachHandler.UpdateAppointment)
			coachGroup.DELETE("/appointments/:appointmentId", coachHandler.DeleteAppointment)
		}

		// --- Client side ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/coaches", clientHandler.GetMyCoaches)
			clientGroup.POST("/coaches/:coachId/subscribe", clientHandler.Subscribe)
			clientGroup.DELETE("/coaches/:coachId/subscribe", clientHandler.Unsubscribe)
			clientGroup.GET("/coaches/:coachId/videos", clientHandler.GetCoachVideos)

			clientGroup.GET("/relationships/:relationshipId/plans/:kind", clientHandler.GetPlans)

			clientGroup.POST("/progress", clientHandler.RecordProgress)
			clientGroup.POST("/progress/workouts", clientHandler.RecordWorkoutProgress)
			clientGroup.GET("/progress", clientHandler.GetProgress)
			clientGroup.GET("/progress/summary", clientHandler.GetProgressSummary)
			clientGroup.GET("/progress/:date", clientHandler.GetProgressForDate)

			clientGroup.POST("/meal-bank", clientHandler.SaveMealToBank)
			clientGroup.GET("/meal-bank", clientHandler.GetMealBank)
		}
	}
}
