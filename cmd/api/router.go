package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"membership-backend/internal/shared/middleware"
	"membership-backend/internal/shared/response"
	"membership-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	// Landing + health
	router.GET("/", indexHandler(c))
	router.GET("/health", healthHandler(c))

	// Registration workflow
	router.GET("/register", c.MemberHandler.Choices)
	router.POST("/register", c.MemberHandler.Register)

	// Photo workflow, second step of registration
	router.GET("/upload/:id", c.MemberHandler.UploadPrompt)
	router.POST("/upload/:id", c.MemberHandler.UploadPhoto)

	// Maintenance
	router.GET("/members", c.MemberHandler.List)
	router.GET("/update/:id", c.MemberHandler.EditForm)
	router.POST("/update/:id", c.MemberHandler.Update)
	router.GET("/delete/:id", c.MemberHandler.Delete)

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "page not found")
	})

	return router
}

func indexHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		response.Success(ctx, http.StatusOK, gin.H{
			"name":    c.Config.App.Name,
			"version": c.Config.App.Version,
		})
	}
}

func healthHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			response.ErrorResponse(ctx, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
			return
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			cacheStatus = "unavailable"
		}

		response.Success(ctx, http.StatusOK, gin.H{
			"database": "ok",
			"cache":    cacheStatus,
		})
	}
}
