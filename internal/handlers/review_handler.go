package handlers

import (
	"net/http"

	"sairaklin-backend/internal/models"
	"sairaklin-backend/internal/services"
	"sairaklin-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	useJSONFieldNames()
	return &ReviewHandler{reviews: reviews}
}

// SubmitReview: POST /reviews (order_id di body) dan POST /orders/:id/review.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var input models.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	orderID := input.OrderID
	if id := c.Param("id"); id != "" {
		orderID = id
	}

	review, err := h.reviews.SubmitReview(c.Request.Context(), currentSession(c), orderID, *input.Rating, input.Text())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Terima kasih atas ulasannya!", review)
}

// GetStats publik, tanpa token.
func (h *ReviewHandler) GetStats(c *gin.Context) {
	stats, err := h.reviews.PublicStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Statistik ulasan", stats)
}
