package app

import (
	"sql_practice_backend/docs"
	"sql_practice_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	a.registerProblemRoutes(api, c)
	a.registerFlashcardRoutes(api, c)
	a.registerDatabaseRoutes(api, c)

	api.GET("/progress/stats", c.progress.Stats)
}

func (a *App) registerProblemRoutes(api *gin.RouterGroup, c *controllers) {
	problem := api.Group("/problem")
	{
		problem.POST("/generate", c.problem.Generate)
		problem.POST("/execute", c.problem.Execute)
		problem.POST("/check", c.problem.Check)
		problem.POST("/hint", c.problem.Hint)

		// 已保存题目
		problem.GET("/saved", c.problem.ListSaved)
		problem.GET("/saved/:id", c.problem.GetSaved)
		problem.DELETE("/saved/:id", c.problem.DeleteSaved)
	}
}

func (a *App) registerFlashcardRoutes(api *gin.RouterGroup, c *controllers) {
	flashcards := api.Group("/flashcards")
	{
		flashcards.GET("/all", c.flashcard.All)
		flashcards.POST("/options", c.flashcard.Options)
		flashcards.POST("/progress", c.flashcard.Progress)
		flashcards.POST("/explain", c.flashcard.Explain)
	}
}

func (a *App) registerDatabaseRoutes(api *gin.RouterGroup, c *controllers) {
	db := api.Group("/database")
	{
		db.GET("/schema", c.database.Schema)
		db.GET("/sample-data", c.database.SampleData)
		db.GET("/stats", c.database.Stats)
	}
}
