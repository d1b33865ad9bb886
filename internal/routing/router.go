package routing

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mindwell-server/internal/handlers"
	"mindwell-server/internal/managers"
	"mindwell-server/internal/middleware"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
	"mindwell-server/internal/ws"
)

// InitRouter wires the middleware stack, the REST surface and the websocket
// endpoint. The hub may be nil in tests that only exercise REST routes.
func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, hub *ws.Hub) *gin.Engine {
	router := gin.New()
	setupCommonMiddleware(router)
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr, hub)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{frontendURL},
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, hub *ws.Hub) {
	router.GET("/", func(c *gin.Context) {
		version := os.Getenv("API_VERSION")
		if version == "" {
			version = "main:latest"
		}
		utils.WriteAndLogResponse(c, gin.H{"api_name": "Mindwell Server", "api_version": version}, http.StatusOK)
	})

	router.GET("/health", func(c *gin.Context) {
		if err := databaseMgr.GetPool().Ping(c.Request.Context()); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		utils.WriteAndLogResponse(c, &schemas.HealthDTO{Status: "ok"}, http.StatusOK)
	})

	requireAuth := middleware.RequireAuth(databaseMgr, jwtMgr)

	apiRouter := router.Group("/api")
	{
		authRouter := apiRouter.Group("/auth")
		authHdl := handlers.NewAuthHandler(databaseMgr, jwtMgr, mailMgr)
		authRoutes(authRouter, authHdl, requireAuth)

		moodRouter := apiRouter.Group("/mood-logs")
		moodRouter.Use(requireAuth)
		moodHdl := handlers.NewMoodHandler(databaseMgr)
		moodRoutes(moodRouter, moodHdl)

		activityRouter := apiRouter.Group("/activity-logs")
		activityRouter.Use(requireAuth)
		activityHdl := handlers.NewActivityHandler(databaseMgr)
		activityRoutes(activityRouter, activityHdl)

		exerciseRouter := apiRouter.Group("/exercises")
		exerciseHdl := handlers.NewExerciseHandler(databaseMgr)
		exerciseRoutes(exerciseRouter, exerciseHdl, requireAuth)

		quizRouter := apiRouter.Group("/quiz-results")
		quizRouter.Use(requireAuth)
		quizHdl := handlers.NewQuizHandler(databaseMgr)
		quizRoutes(quizRouter, quizHdl)

		reminderRouter := apiRouter.Group("/reminders")
		reminderRouter.Use(requireAuth)
		reminderHdl := handlers.NewReminderHandler(databaseMgr)
		reminderRoutes(reminderRouter, reminderHdl)

		chatRouter := apiRouter.Group("/chat-messages")
		chatRouter.Use(requireAuth)
		var notifier handlers.ChatNotifier
		if hub != nil {
			notifier = hub
		}
		chatHdl := handlers.NewChatHandler(databaseMgr, notifier)
		chatRoutes(chatRouter, chatHdl)

		infoHdl := handlers.NewInfoHandler(databaseMgr)
		infoRoutes(apiRouter, infoHdl)
	}

	if hub != nil {
		router.GET("/ws/chat", func(c *gin.Context) {
			hub.ServeWS(c.Writer, c.Request)
		})
	}
}

func authRoutes(authRouter *gin.RouterGroup, authHdl handlers.AuthHdl, requireAuth gin.HandlerFunc) {
	authRouter.POST("/signup", middleware.ValidateAndSanitizeStruct(&schemas.SignupRequest{}), authHdl.Signup)
	authRouter.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), authHdl.Login)
	// The following routes require the user to be authenticated
	authRouter.Use(requireAuth)
	authRouter.GET("/users/:userId", authHdl.GetProfile)
	authRouter.PUT("/users/:userId", middleware.ValidateAndSanitizeStruct(&schemas.UpdateProfileRequest{}), authHdl.UpdateProfile)
}

func moodRoutes(moodRouter *gin.RouterGroup, moodHdl handlers.MoodHdl) {
	moodRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.CreateMoodLogRequest{}), moodHdl.CreateMoodLog)
	moodRouter.GET("", moodHdl.GetMoodLogs)
	moodRouter.GET("/stats", moodHdl.GetMoodStats)
}

func activityRoutes(activityRouter *gin.RouterGroup, activityHdl handlers.ActivityHdl) {
	activityRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.CreateActivityLogRequest{}), activityHdl.CreateActivityLog)
	activityRouter.GET("", activityHdl.GetActivityLogs)
}

func exerciseRoutes(exerciseRouter *gin.RouterGroup, exerciseHdl handlers.ExerciseHdl, requireAuth gin.HandlerFunc) {
	// The reference list stays public, logging requires an account.
	exerciseRouter.GET("", exerciseHdl.ListExercises)
	exerciseRouter.Use(requireAuth)
	exerciseRouter.POST("/log", middleware.ValidateAndSanitizeStruct(&schemas.CreateExerciseLogRequest{}), exerciseHdl.LogExercises)
	exerciseRouter.GET("/history", exerciseHdl.GetExerciseHistory)
}

func quizRoutes(quizRouter *gin.RouterGroup, quizHdl handlers.QuizHdl) {
	quizRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.CreateQuizResultRequest{}), quizHdl.CreateQuizResult)
	quizRouter.GET("", quizHdl.GetQuizHistory)
	quizRouter.GET("/statistics", quizHdl.GetQuizStatistics)
	quizRouter.GET("/progress", quizHdl.GetQuizProgress)
	quizRouter.PATCH("/:resultId/notes", middleware.ValidateAndSanitizeStruct(&schemas.UpdateQuizNotesRequest{}), quizHdl.UpdateQuizNotes)
}

func reminderRoutes(reminderRouter *gin.RouterGroup, reminderHdl handlers.ReminderHdl) {
	reminderRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.CreateReminderRequest{}), reminderHdl.CreateReminder)
	reminderRouter.GET("", reminderHdl.GetReminders)
	reminderRouter.PUT("/:reminderId", middleware.ValidateAndSanitizeStruct(&schemas.UpdateReminderRequest{}), reminderHdl.UpdateReminder)
	reminderRouter.DELETE("/:reminderId", reminderHdl.DeleteReminder)
}

func chatRoutes(chatRouter *gin.RouterGroup, chatHdl handlers.ChatHdl) {
	chatRouter.GET("", chatHdl.GetChatMessages)
	chatRouter.POST("", middleware.ValidateAndSanitizeStruct(&schemas.CreateChatMessageRequest{}), chatHdl.CreateChatMessage)
}

func infoRoutes(apiRouter *gin.RouterGroup, infoHdl handlers.InfoHdl) {
	apiRouter.GET("/emergency-resources", infoHdl.GetEmergencyResources)
	apiRouter.GET("/emergency-resources/professional-links", infoHdl.GetProfessionalLinks)
	apiRouter.GET("/info/information", infoHdl.GetInformationLinks)
	apiRouter.GET("/info/footer", infoHdl.GetFooter)
}
