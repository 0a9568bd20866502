package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"onlineretail/internal/shared/infrastructure"
)

// Server regroupe le routeur et ses dépendances
type Server struct {
	router *gin.Engine
}

// NewServer enregistre les routes de l'API catalogue
func NewServer(store ProductStore, metrics *infrastructure.Metrics, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(logger), instrument(metrics))

	h := NewHandlers(store, logger)

	router.GET("/", welcomeHandler)
	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:stock_code", h.GetProduct)
		products.POST("", h.CreateProduct)
		products.PUT("/:stock_code", h.UpdateProduct)
		products.DELETE("/:stock_code", h.DeleteProduct)
	}

	return &Server{router: router}
}

// Handler retourne le http.Handler à monter dans un http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func welcomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to the Online Retail API!")
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Online Retail API disponible",
	})
}
