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
	msgPostCreated  = "Post created successfully."
	msgCommentAdded = "Comment added."
	msgPostTooLong  = "Post is too long."
	msgPostNotFound = "Post not found."
)

type PostHandler struct {
	posts *services.PostService
	log   logrus.FieldLogger
}

func NewPostHandler(posts *services.PostService, log logrus.FieldLogger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

// Feed 首页：最新的帖子
func (h *PostHandler) Feed(c *gin.Context) {
	posts, err := h.posts.Feed(c.Request.Context())
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	Render(c, http.StatusOK, "feed.html", gin.H{
		"Title": "Alumni Feed",
		"Posts": posts,
	})
}

// Create 发帖，空内容直接忽略
func (h *PostHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in services.PostInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, "/", msgPostTooLong)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), user, in.Content)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	msg := ""
	if post != nil {
		msg = msgPostCreated
	}
	redirectWithFlash(c, "/", msg)
}

// Detail 帖子详情 /p/:id
func (h *PostHandler) Detail(c *gin.Context) {
	postID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, msgPostNotFound)
		return
	}

	var viewerID uint
	if user, ok := middleware.CurrentUser(c); ok {
		viewerID = user.ID
	}

	detail, err := h.posts.Detail(c.Request.Context(), postID, viewerID)
	if err != nil {
		h.fail(c, err)
		return
	}

	Render(c, http.StatusOK, "post/detail.html", gin.H{
		"Title":    "Post by " + detail.Post.User.Name,
		"Post":     detail.Post,
		"Comments": detail.Comments,
		"Liked":    detail.Liked,
	})
}

func (h *PostHandler) Like(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	postID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, msgPostNotFound)
		return
	}

	if _, err := h.posts.Like(c.Request.Context(), user, postID); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(postID))
}

func (h *PostHandler) Comment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	postID, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, msgPostNotFound)
		return
	}

	var in services.CommentInput
	if err := c.ShouldBind(&in); err != nil {
		redirectWithFlash(c, postPath(postID), "Comment is too long.")
		return
	}

	comment, err := h.posts.Comment(c.Request.Context(), user, postID, in.CommentText)
	if err != nil {
		h.fail(c, err)
		return
	}

	msg := ""
	if comment != nil {
		msg = msgCommentAdded
	}
	redirectWithFlash(c, postPath(postID), msg)
}

func (h *PostHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrPostNotFound) {
		RenderError(c, http.StatusNotFound, msgPostNotFound)
		return
	}
	serverError(c, h.log, err)
}

func postPath(id uint) string {
	return "/p/" + utils.FormatID(id)
}
