package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkraev/filmoteka/internal/services"
)

type FilmHandler struct {
	films *services.FilmService
}

func NewFilmHandler(films *services.FilmService) *FilmHandler {
	return &FilmHandler{films: films}
}

func (h *FilmHandler) Register(r gin.IRouter) {
	g := r.Group("/films")
	g.GET("", h.findAll)
	g.POST("", h.create)
	g.PUT("", h.update)
	g.DELETE("", h.clearAll)
	// "popular" must be registered before the :id wildcard would shadow it;
	// gin keeps them apart because the segment is static.
	g.GET("/popular", h.popular)
	g.GET("/:id", h.findByID)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/like/:userId", h.addLike)
	g.DELETE("/:id/like/:userId", h.removeLike)
}

func (h *FilmHandler) findAll(c *gin.Context) {
	films, err := h.films.FindAll()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, films)
}

func (h *FilmHandler) findByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	film, err := h.films.FindByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, film)
}

func (h *FilmHandler) create(c *gin.Context) {
	var req filmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed film payload: "+err.Error())
		return
	}

	film := req.toFilm()
	if err := h.films.Create(film); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, film)
}

func (h *FilmHandler) update(c *gin.Context) {
	var req filmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed film payload: "+err.Error())
		return
	}

	film, err := h.films.Update(req.toUpdate())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, film)
}

func (h *FilmHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.films.Delete(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FilmHandler) clearAll(c *gin.Context) {
	if err := h.films.ClearAll(); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FilmHandler) addLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.films.AddLike(id, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *FilmHandler) removeLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.films.RemoveLike(id, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *FilmHandler) popular(c *gin.Context) {
	count := 0
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid count: "+raw)
			return
		}
		count = parsed
	}

	films, err := h.films.Popular(c.Request.Context(), count)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, films)
}
