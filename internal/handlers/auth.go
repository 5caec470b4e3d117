package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"metarelay/api/internal/apperr"
	"metarelay/api/internal/middleware"
	"metarelay/api/internal/response"
	"metarelay/api/internal/service"
)

const refreshTokenCookie = "refresh_token"

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperr.Wrap(apperr.KindValidation, "Missing required fields.", err))
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	response.JSON(c, http.StatusCreated, "User signed up successfully.", gin.H{
		"user": result.User,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.log, apperr.Wrap(apperr.KindValidation, "Missing email or password.", err))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	response.JSON(c, http.StatusOK, "User logged in successfully.", gin.H{
		"user": result.User,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, h.log, apperr.New(apperr.KindAuthRequired, "Authentication token required."))
		return
	}

	if _, err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		response.Error(c, h.log, err)
		return
	}

	h.clearAuthCookies(c)
	response.JSON(c, http.StatusOK, "User logged out successfully.", nil)
}

func (h HandlerSet) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		response.JSON(c, http.StatusNotFound, "Refresh token not found.", nil)
		return
	}

	accessToken, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	h.setAccessCookie(c, accessToken)
	response.JSON(c, http.StatusOK, "Access token refreshed successfully.", nil)
}

// Cookies are httpOnly and Lax; Secure everywhere except development so
// local clients without TLS still work.
func (h HandlerSet) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	h.setAccessCookie(c, accessToken)
	c.SetCookie(refreshTokenCookie, refreshToken, int(h.cfg.Auth.RefreshTokenTTL.Seconds()), "/", "", !h.cfg.IsDevelopment(), true)
}

func (h HandlerSet) setAccessCookie(c *gin.Context, accessToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken, int(h.cfg.Auth.AccessTokenTTL.Seconds()), "/", "", !h.cfg.IsDevelopment(), true)
}

func (h HandlerSet) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", !h.cfg.IsDevelopment(), true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", !h.cfg.IsDevelopment(), true)
}
