package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"sairaklin-backend/internal/cache"
	"sairaklin-backend/internal/metrics"
	"sairaklin-backend/internal/models"
	"sairaklin-backend/pkg/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const recentReviewLimit = 5

type ReviewService struct {
	db    *gorm.DB
	cache cache.StatsCache // boleh nil
}

func NewReviewService(db *gorm.DB, statsCache cache.StatsCache) *ReviewService {
	return &ReviewService{db: db, cache: statsCache}
}

// msgReviewNotDone: ulasan hanya untuk order yang sudah Selesai.
const msgReviewNotDone = "Ulasan hanya bisa diberikan setelah order " + models.StatusDone

// SubmitReview: satu review per order, hanya oleh pemilik order, hanya untuk order Selesai.
func (s *ReviewService) SubmitReview(ctx context.Context, requester *Session, orderID string, rating int, comment string) (*models.Review, error) {
	if requester == nil || requester.User == nil {
		return nil, AuthenticationError("Unauthorized")
	}

	orderID = strings.TrimSpace(orderID)
	comment = strings.TrimSpace(comment)

	fe := fieldErrors{}
	if orderID == "" {
		fe.add("order_id", "Order wajib diisi")
	}
	if rating < models.MinRating || rating > models.MaxRating {
		fe.add("rating", "Rating harus antara 1 sampai 5")
	}
	if runeLen(comment) > models.MaxCommentLength {
		fe.add("review", "Ulasan maksimal 500 karakter")
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, storeError(err, "get order", "", msgOrderNotFound)
	}

	if order.UserID != requester.User.ID {
		return nil, AuthorizationError("Anda tidak berhak mengulas order ini")
	}

	if order.Status != models.StatusDone {
		return nil, ValidationError(msgReviewNotDone, map[string]string{
			"order_id": "Status order saat ini " + order.Status + ", harus " + models.StatusDone,
		})
	}

	var count int64
	if err := db.Model(&models.Review{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check review: %w", err)
	}
	if count > 0 {
		return nil, ConflictError("Order sudah diulas")
	}

	review := models.Review{
		OrderID: orderID,
		UserID:  requester.User.ID,
		Rating:  rating,
	}
	if comment != "" {
		review.Comment = &comment
	}

	// submit ganda yang lolos pre-check tetap ditolak unique index order_id
	if err := db.Create(&review).Error; err != nil {
		return nil, storeError(err, "create review", "Order sudah diulas", "")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	metrics.RecordReviewSubmitted(rating)
	utils.InfoLogger.WithFields(logrus.Fields{
		"review_id": review.ID,
		"order_id":  orderID,
		"user_id":   requester.User.ID,
		"rating":    rating,
	}).Info("review submitted")

	return &review, nil
}

// PublicStats rata-rata rating, jumlah review, dan 5 review bintang 5 terbaru yang ada komentarnya.
func (s *ReviewService) PublicStats(ctx context.Context) (*models.ReviewStats, error) {
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx); ok {
			return stats, nil
		}
	}

	avg, total, err := ratingAggregate(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var reviews []models.Review
	err = s.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			// cukup nama, data lain tidak perlu keluar ke publik
			return db.Select("id", "name")
		}).
		Where("rating = ? AND comment IS NOT NULL AND comment <> ''", models.MaxRating).
		Order("created_at desc, id desc").
		Limit(recentReviewLimit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}

	stats := &models.ReviewStats{
		AverageRating: avg,
		TotalReviews:  total,
		RecentReviews: make([]models.RecentReview, 0, len(reviews)),
	}
	for _, r := range reviews {
		item := models.RecentReview{
			ID:        r.ID,
			Rating:    r.Rating,
			CreatedAt: r.CreatedAt,
		}
		if r.Comment != nil {
			item.Comment = *r.Comment
		}
		if r.User != nil {
			item.UserName = r.User.Name
		}
		stats.RecentReviews = append(stats.RecentReviews, item)
	}

	if s.cache != nil {
		s.cache.Set(ctx, stats)
	}
	return stats, nil
}

// ratingAggregate rata-rata (dibulatkan 1 desimal, 0 kalau kosong) dan jumlah review.
func ratingAggregate(db *gorm.DB) (float64, int64, error) {
	type Result struct {
		Average float64
		Total   int64
	}
	var res Result
	err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total"). // COALESCE biar kalau null jadi 0
		Scan(&res).Error
	if err != nil {
		return 0, 0, fmt.Errorf("rating aggregate: %w", err)
	}
	return math.Round(res.Average*10) / 10, res.Total, nil
}
