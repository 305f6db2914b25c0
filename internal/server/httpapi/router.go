package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery())
	r.Use(s.requestLogger())
	r.Use(s.metrics.middleware())
	r.Use(cors())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("", s.sessionGuard())
	protected.GET("/profile", s.handleProfile)

	chat := protected.Group("/chat")
	chat.GET("/threads", s.handleListThreads)
	chat.GET("/threads/:threadId", s.handleGetThread)
	chat.DELETE("/threads/:threadId", s.handleDeleteThread)
	chat.POST("/text", s.handleText)
	chat.POST("/image", s.handleImage)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{
			Message: "404 Not Found",
			Details: "The requested endpoint " + c.Request.Method + " " + c.Request.URL.RequestURI() + " does not exist. Check your API route.",
		})
	})

	return r
}
