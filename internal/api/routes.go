package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures the full route table.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", MetricsHandler())

	api := router.Group("/api")
	{
		api.GET("/health", handler.HealthCheck)
		api.POST("/seed", handler.Seed)

		blogs := api.Group("/blogs")
		{
			blogs.GET("", handler.ListBlogs)
			blogs.POST("", handler.CreateBlog)
			blogs.GET("/stats/categories", handler.CategoryStats)
			blogs.GET("/:id", handler.GetBlog)
			blogs.PUT("/:id", handler.UpdateBlog)
			blogs.DELETE("/:id", handler.DeleteBlog)
			blogs.POST("/:id/like", handler.LikeBlog)
			blogs.GET("/:id/related", handler.RelatedBlogs)
		}

		users := api.Group("/users")
		{
			users.GET("", handler.ListUsers)
			users.POST("", handler.CreateUser)
			users.GET("/:id", handler.GetUser)
			users.PUT("/:id", handler.UpdateUser)
			users.GET("/:id/blogs", handler.UserBlogs)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/smart-search", handler.SmartSearch)
			ai.POST("/chat", handler.Chat)
			ai.POST("/generate", handler.Generate)
			ai.POST("/summarize", handler.Summarize)
			ai.POST("/analyze", handler.Analyze)
			ai.POST("/recommend", handler.Recommend)
		}

		toolRoutes := api.Group("/tools")
		{
			toolRoutes.POST("/create-blog-with-ai", handler.CreateBlogWithAI)
			toolRoutes.GET("/available-tools", handler.AvailableTools)
		}
	}
}
