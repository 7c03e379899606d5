package handlers

import (
	"net/http"

	"sairaklin-backend/internal/models"
	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const defaultUsersPerPage = 20

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	useJSONFieldNames()
	return &AdminHandler{admin: admin}
}

// GetAllOrders semua order + data pemesan. Filter ?status=
func (h *AdminHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.admin.ListAllOrders(c.Request.Context(), currentSession(c), models.OrderFilter{Status: c.Query("status")})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Semua order berhasil diambil", orders)
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var input models.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.admin.UpdateOrderStatus(c.Request.Context(), currentSession(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Status order diperbarui menjadi "+order.Status, order)
}

func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	if err := h.admin.DeleteOrder(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Order berhasil dihapus", nil)
}

// GetUsers daftar customer, paginasi ?page=&limit=
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page := utils.StringToIntDefault(c.Query("page"), 1)
	limit := utils.StringToIntDefault(c.Query("limit"), defaultUsersPerPage)

	result, err := h.admin.ListUsers(c.Request.Context(), currentSession(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Data user berhasil diambil", result)
}

// GetDashboard statistik ringkas untuk panel admin
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Statistik dashboard", stats)
}
