package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/example/blog-api/internal/config"
	"github.com/example/blog-api/internal/service"
	"github.com/example/blog-api/internal/transport/http/handlers"
)

// APIPrefix is the path every post route is mounted under.
const APIPrefix = "/api/v1"

type Router = *gin.Engine

func NewRouter(cfg *config.Config, svc *service.PostService, log zerolog.Logger) Router {
	gin.SetMode(cfg.GinMode())
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), corsPolicy(cfg.BaseURL))

	h := handlers.NewPostHandler(svc)

	api := r.Group(APIPrefix)
	api.GET("/all_posts", h.ListPosts)
	api.POST("/add_post", h.CreatePost)
	api.GET("/post/:id", h.GetPost)
	api.PUT("/update/:id", h.UpdatePost)
	api.DELETE("/delete/:id", h.DeletePost)
	api.GET("/search", h.Search)

	return r
}
