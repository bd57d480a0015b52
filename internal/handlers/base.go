package handlers

import (
	"net/http"

	"alumni/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, ok := middleware.CurrentUser(c); ok {
		obj["CurrentUser"] = user
	}

	// flashes must be drained before the body is written so the session cookie is sent
	obj["Flashes"] = middleware.Flashes(c)
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Title": http.StatusText(code), "Error": message})
}

// serverError logs err and fails only the current request.
func serverError(c *gin.Context, log logrus.FieldLogger, err error) {
	_ = c.Error(err)
	log.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error("handler failed")
	RenderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// redirectWithFlash queues msg and sends the browser to path.
func redirectWithFlash(c *gin.Context, path, msg string) {
	if msg != "" {
		middleware.AddFlash(c, msg)
	}
	c.Redirect(http.StatusFound, path)
}
