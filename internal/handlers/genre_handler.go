package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkraev/filmoteka/internal/storage"
)

// GenreHandler serves the read-only genre catalog straight from storage.
type GenreHandler struct {
	genres storage.GenreStorage
}

func NewGenreHandler(genres storage.GenreStorage) *GenreHandler {
	return &GenreHandler{genres: genres}
}

func (h *GenreHandler) Register(r gin.IRouter) {
	g := r.Group("/genres")
	g.GET("", h.findAll)
	g.GET("/:id", h.findByID)
}

func (h *GenreHandler) findAll(c *gin.Context) {
	genres, err := h.genres.FindAll()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

func (h *GenreHandler) findByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	genre, err := h.genres.FindByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, genre)
}
