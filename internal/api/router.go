package api

import (
	"net/http"

	"github.com/equine-kiosk/server/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the kiosk UI endpoints.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), metrics.Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/catalog/:lang", h.ListProducts)
		api.GET("/catalog/:lang/featured", h.FeaturedProducts)
		api.POST("/catalog/:lang/refresh", h.RefreshCatalog)

		api.POST("/sessions", h.OpenSession)
		api.DELETE("/sessions/:id", h.CloseSession)

		s := api.Group("/sessions/:id")
		s.GET("/cart", h.GetCart)
		s.DELETE("/cart", h.ClearCart)
		s.POST("/photos", h.AddPhoto)
		s.DELETE("/photos/:filename", h.RemovePhoto)
		s.POST("/photos/:filename/formats", h.SetFormatQuantity)
		s.POST("/apply-to-all", h.ApplyToAll)
		s.POST("/bundles", h.AddBundle)
		s.DELETE("/bundles/:productID", h.RemoveBundle)
		s.POST("/save", h.SaveCart)
		s.POST("/restore", h.RestoreCart)
		s.POST("/order", h.SubmitOrder)

		api.GET("/assistant/tools", h.ListTools)
		api.POST("/assistant/tools/:name", h.RunTool)
	}
	return r
}
