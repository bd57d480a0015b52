package handlers

import (
	"errors"
	"net/http"

	"alumni/internal/middleware"
	"alumni/internal/services"
	"alumni/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgProfileUpdated = "Profile updated successfully."
	msgInvalidProfile = "Some fields are too long."
)

type UserHandler struct {
	users *services.UserService
	posts *services.PostService
	log   logrus.FieldLogger
}

func NewUserHandler(users *services.UserService, posts *services.PostService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{users: users, posts: posts, log: log}
}

// Profile - 当前用户资料页 /profile
func (h *UserHandler) Profile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	Render(c, http.StatusOK, "user/profile.html", gin.H{
		"Title": "My Profile",
		"User":  user,
	})
}

// UpdateProfile 保存资料，四个字段全部覆盖
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in services.ProfileInput
	if err := c.ShouldBind(&in); err != nil {
		Render(c, http.StatusBadRequest, "user/profile.html", gin.H{
			"Title": "My Profile",
			"User":  user,
			"Error": msgInvalidProfile,
		})
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), user, in); err != nil {
		serverError(c, h.log, err)
		return
	}

	redirectWithFlash(c, "/profile", msgProfileUpdated)
}

// Public - 校友公开主页 /u/:id
func (h *UserHandler) Public(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "Alumni not found.")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			RenderError(c, http.StatusNotFound, "Alumni not found.")
			return
		}
		serverError(c, h.log, err)
		return
	}

	posts, err := h.posts.ByUser(c.Request.Context(), user.ID)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "user/public.html", gin.H{
		"Title": user.Name,
		"User":  user,
		"Posts": posts,
	})
}

func (h *UserHandler) ShowSearch(c *gin.Context) {
	Render(c, http.StatusOK, "search.html", gin.H{"Title": "Search Alumni"})
}

// Search 组合条件检索校友，所有条件均可为空
func (h *UserHandler) Search(c *gin.Context) {
	var in services.SearchInput
	_ = c.ShouldBind(&in)

	users, err := h.users.Search(c.Request.Context(), in)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "search.html", gin.H{
		"Title":    "Search Alumni",
		"Query":    in,
		"Results":  users,
		"Searched": true,
	})
}
