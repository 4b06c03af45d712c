package app

import (
	"quiz_backend/docs"
	"quiz_backend/internal/config"
	"quiz_backend/internal/middleware"
	"quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerAPIRoutes(router, c)
	a.registerQuizRoutes(router, c, cfg)
}

func (a *App) registerAPIRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

// registerQuizRoutes mounts the browsing and answering pages. Subject listing
// and entry stay public; answering and results follow quiz.require_login.
func (a *App) registerQuizRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/", middleware.TryAuthMiddleware(cfg), c.quiz.ListSubjects)

	subject := router.Group("/subject/:subject_id")
	{
		subject.GET("/", middleware.TryAuthMiddleware(cfg), c.quiz.StartSubject)

		answering := subject.Group("/")
		answering.Use(middleware.QuizAuth(cfg))
		{
			answering.GET("/question/:question_id/", c.quiz.QuestionDetail)
			answering.POST("/question/:question_id/", c.quiz.QuestionDetail)
			answering.GET("/results/", c.quiz.Results)
		}
	}
}
