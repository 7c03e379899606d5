package handlers

import (
	"net/http"

	"sairaklin-backend/internal/middleware"
	"sairaklin-backend/internal/models"
	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	useJSONFieldNames()
	return &AuthHandler{auth: auth}
}

// REGISTER
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput

	// 1. Validasi Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	// 2. Simpan (validasi bisnis + hash password di service)
	user, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Registrasi Berhasil! Silakan Login.", user.Profile())
}

// LOGIN
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Login Berhasil", result)
}

// LOGOUT: token dibaca sendiri supaya token kedaluwarsa tetap bisa di-revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := middleware.BearerToken(c)
	if err != nil {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Token tidak ditemukan", nil)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Logout Berhasil", nil)
}
