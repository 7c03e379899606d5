package handlers

import (
	"net/http"

	"sairaklin-backend/internal/models"
	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	auth *services.AuthService
}

func NewUserHandler(auth *services.AuthService) *UserHandler {
	useJSONFieldNames()
	return &UserHandler{auth: auth}
}

// GetProfile mengambil data user yang sedang login
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.auth.Me(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Data profil berhasil diambil", profile)
}

// UpdateProfile: field yang tidak dikirim tidak diubah.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input models.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.auth.UpdateProfile(c.Request.Context(), currentSession(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Profil berhasil diperbarui", profile)
}
