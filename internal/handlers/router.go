package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkraev/filmoteka/internal/middleware"
	"github.com/mkraev/filmoteka/internal/services"
	"github.com/mkraev/filmoteka/internal/storage"
)

// NewRouter wires every handler onto a gin engine with logging and metrics
// middleware attached.
func NewRouter(appEnv string, stores storage.Stores, users *services.UserService, films *services.FilmService) *gin.Engine {
	if appEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	NewUserHandler(users).Register(r)
	NewFilmHandler(films).Register(r)
	NewGenreHandler(stores.Genres).Register(r)
	NewMpaHandler(stores.Mpa).Register(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
