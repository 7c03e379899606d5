package handlers

import (
	"net/http"

	"sairaklin-backend/internal/models"
	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	useJSONFieldNames()
	return &OrderHandler{orders: orders}
}

// 1. BUAT ORDER
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	session := currentSession(c)

	var input models.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), session.User.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Order berhasil dibuat", order)
}

// 2. LIST ORDER (user: milik sendiri, admin: semua). Filter opsional ?status=
func (h *OrderHandler) GetOrders(c *gin.Context) {
	filter := models.OrderFilter{Status: c.Query("status")}

	orders, err := h.orders.ListOrders(c.Request.Context(), currentSession(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "List order berhasil diambil", orders)
}

// 3. DETAIL ORDER
func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Detail order berhasil diambil", order)
}

// 4. UPDATE STATUS (khusus admin, dicek di service)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	// role dicek sebelum body: non-admin selalu 403 apa pun isi request-nya
	if !currentSession(c).IsAdmin() {
		utils.APIResponse(c, http.StatusForbidden, false, "Akses ditolak: khusus admin", nil)
		return
	}

	var input models.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), currentSession(c), c.Param("id"), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Status order diperbarui menjadi "+order.Status, order)
}

// 5. HAPUS ORDER (khusus admin)
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Order berhasil dihapus", nil)
}
