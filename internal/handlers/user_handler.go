package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkraev/filmoteka/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Register(r gin.IRouter) {
	g := r.Group("/users")
	g.GET("", h.findAll)
	g.POST("", h.create)
	g.PUT("", h.update)
	g.DELETE("", h.clearAll)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/friends/:friendId", h.addFriend)
	g.DELETE("/:id/friends/:friendId", h.removeFriend)
	g.GET("/:id/friends", h.friends)
	g.GET("/:id/friends/common/:otherId", h.commonFriends)
}

func (h *UserHandler) findAll(c *gin.Context) {
	users, err := h.users.FindAll()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed user payload: "+err.Error())
		return
	}

	user := req.toUser()
	if err := h.users.Create(user); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) update(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed user payload: "+err.Error())
		return
	}

	user, err := h.users.Update(req.toUpdate())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) clearAll(c *gin.Context) {
	if err := h.users.ClearAll(); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) addFriend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}
	if err := h.users.AddFriend(id, friendID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *UserHandler) removeFriend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}
	if err := h.users.RemoveFriend(id, friendID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *UserHandler) friends(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	friends, err := h.users.Friends(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

func (h *UserHandler) commonFriends(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	otherID, ok := pathID(c, "otherId")
	if !ok {
		return
	}
	common, err := h.users.CommonFriends(id, otherID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common)
}
