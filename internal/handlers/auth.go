package handlers

import (
	"errors"
	"net/http"

	"alumni/internal/middleware"
	"alumni/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgEmailTaken         = "Email already registered. Please login or use another email."
	msgInvalidRegister    = "Please provide your name, a valid email and a password."
	msgRegistered         = "Registration successful! Please login."
	msgInvalidCredentials = "Invalid credentials. Please try again."
	msgLoggedIn           = "Logged in successfully."
	msgLoggedOut          = "Logged out successfully."
)

type AuthHandler struct {
	users       *services.UserService
	sessionOpts sessions.Options
	log         logrus.FieldLogger
}

func NewAuthHandler(users *services.UserService, sessionOpts sessions.Options, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{users: users, sessionOpts: sessionOpts, log: log}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", gin.H{"Title": "Register"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
			"Title": "Register",
			"Error": msgInvalidRegister,
			"Form":  in,
		})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), in); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			Render(c, http.StatusConflict, "auth/register.html", gin.H{
				"Title": "Register",
				"Error": msgEmailTaken,
				"Form":  in,
			})
			return
		}
		serverError(c, h.log, err)
		return
	}

	redirectWithFlash(c, "/login", msgRegistered)
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", gin.H{"Title": "Login"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in services.LoginInput
	_ = c.ShouldBind(&in)

	user, err := h.users.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{
				"Title": "Login",
				"Error": msgInvalidCredentials,
				"Email": in.Email,
			})
			return
		}
		serverError(c, h.log, err)
		return
	}

	// 登录后换发新的会话，旧的会话标识不再可用
	if err := middleware.RenewSession(c, h.sessionOpts); err != nil {
		serverError(c, h.log, err)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	session.AddFlash(msgLoggedIn)
	if err := session.Save(); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout drops the identity; it is a no-op when there is none.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(middleware.SessionUserKey)
	session.AddFlash(msgLoggedOut)
	if err := session.Save(); err != nil {
		h.log.WithError(err).Warn("save session on logout")
	}
	c.Redirect(http.StatusFound, "/")
}
