package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkraev/filmoteka/internal/storage"
)

// MpaHandler serves the read-only MPA rating catalog.
type MpaHandler struct {
	ratings storage.MpaStorage
}

func NewMpaHandler(ratings storage.MpaStorage) *MpaHandler {
	return &MpaHandler{ratings: ratings}
}

func (h *MpaHandler) Register(r gin.IRouter) {
	g := r.Group("/mpa")
	g.GET("", h.findAll)
	g.GET("/:id", h.findByID)
}

func (h *MpaHandler) findAll(c *gin.Context) {
	ratings, err := h.ratings.FindAll()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

func (h *MpaHandler) findByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rating, err := h.ratings.FindByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
