package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/c-victorino/dishcord-web-app/internal/middleware"
	"github.com/c-victorino/dishcord-web-app/internal/service"
	"github.com/c-victorino/dishcord-web-app/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the login/register pages and forms and projects a
// successful authentication into the session cookie.
type AuthHandler struct {
	Auth      *service.AuthService
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

func NewAuthHandler(auth *service.AuthService, jwtSecret, issuer string, ttlMinutes int) *AuthHandler {
	if ttlMinutes <= 0 {
		ttlMinutes = 15
	}
	return &AuthHandler{
		Auth:      auth,
		JWTSecret: jwtSecret,
		Issuer:    issuer,
		TokenTTL:  time.Duration(ttlMinutes) * time.Minute,
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Login",
		"state": middleware.State(c),
	})
}

// Login verifies the submitted credentials and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	creds := service.Credentials{
		UserName:  c.PostForm("userName"),
		Password:  c.PostForm("password"),
		UserAgent: c.Request.UserAgent(),
	}

	user, err := h.Auth.Authenticate(c.Request.Context(), creds)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"title":        "Login",
			"state":        middleware.State(c),
			"errorMessage": loginErrorMessage(err),
			"userName":     creds.UserName,
		})
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, user.ID.Hex(), h.TokenTTL)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"title":        "Login",
			"state":        middleware.State(c),
			"errorMessage": "unable to start a session, please try again",
			"userName":     creds.UserName,
		})
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(h.TokenTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/posts")
}

// Logout drops the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"title": "Register",
		"state": middleware.State(c),
	})
}

// Register creates a new account. Success re-renders the form with a
// confirmation; no session is created.
func (h *AuthHandler) Register(c *gin.Context) {
	data := service.RegisterData{
		UserName:  c.PostForm("userName"),
		Password:  c.PostForm("password"),
		Password2: c.PostForm("password2"),
		Email:     c.PostForm("email"),
	}

	if err := h.Auth.Register(c.Request.Context(), data); err != nil {
		c.HTML(http.StatusOK, "register.html", gin.H{
			"title":        "Register",
			"state":        middleware.State(c),
			"errorMessage": registerErrorMessage(err),
			"userName":     data.UserName,
		})
		return
	}

	c.HTML(http.StatusOK, "register.html", gin.H{
		"title":          "Register",
		"state":          middleware.State(c),
		"successMessage": "User created",
	})
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return "unable to find that user"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "incorrect password"
	default:
		return "unable to log in, please try again"
	}
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return err.Error()
	case errors.Is(err, service.ErrDuplicateUser):
		return "that user name is already taken"
	default:
		return "there was an error creating the user"
	}
}
