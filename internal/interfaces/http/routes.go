package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmanzanog/ko-wizard/internal/infrastructure/metrics"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(metrics.Middleware())

	api := router.Group("/api/v1")
	{
		api.GET("/instruments", handler.ListInstruments)
		api.GET("/instruments/recent", handler.MostRecent)
		api.GET("/instruments/:id", handler.GetInstrument)
		api.DELETE("/instruments/:id", handler.DeleteInstrument)
		api.POST("/instruments/:id/favorite", handler.SetFavorite)
		api.POST("/instruments/:id/calculate", handler.Calculate)
		api.GET("/instruments/:id/live", handler.LivePrice)

		api.POST("/import/parse", handler.ParseImport)

		api.POST("/drafts", handler.CreateDraft)
		api.POST("/drafts/edit/:id", handler.EditInstrument)
		api.GET("/drafts/:id", handler.GetDraft)
		api.DELETE("/drafts/:id", handler.DiscardDraft)
		api.POST("/drafts/:id/actions", handler.ApplyAction)
		api.POST("/drafts/:id/import", handler.PressImport)
		api.POST("/drafts/:id/commit", handler.CommitDraft)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
