package app

import (
	"quizhub_backend/docs"
	"quizhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerRoutes 注册全部路由，接口无需登录。
func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		// 测验管理
		api.POST("/quizzes", c.quiz.CreateQuiz)
		api.GET("/quizzes", c.quiz.ListQuizzes)
		api.GET("/quizzes/:id", c.quiz.GetQuiz)
		api.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		api.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)

		// 题目管理
		api.POST("/quizzes/:id/questions", c.question.CreateQuestion)
		api.GET("/quizzes/:id/questions", c.question.ListQuestions)
		api.GET("/quizzes/:id/questions/admin", c.question.ListQuestionsAdmin)
		api.GET("/questions/:questionId", c.question.GetQuestion)
		api.PUT("/questions/:questionId", c.question.UpdateQuestion)
		api.DELETE("/questions/:questionId", c.question.DeleteQuestion)

		// 答案提交评分
		api.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
	}
}
