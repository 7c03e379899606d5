package services

import (
	"context"
	"fmt"

	"sairaklin-backend/internal/models"

	"gorm.io/gorm"
)

const maxPageSize = 100

// AdminService tidak punya state sendiri: listing & dashboard di atas tabel yang sama,
// mutasi order didelegasikan ke OrderService.
type AdminService struct {
	db     *gorm.DB
	orders *OrderService
}

func NewAdminService(db *gorm.DB, orders *OrderService) *AdminService {
	return &AdminService{db: db, orders: orders}
}

type UserPage struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Pages int           `json:"pages"`
}

func requireAdmin(requester *Session) error {
	if requester == nil || requester.User == nil {
		return AuthenticationError("Unauthorized")
	}
	if !requester.IsAdmin() {
		return AuthorizationError("Akses ditolak: khusus admin")
	}
	return nil
}

func (s *AdminService) ListAllOrders(ctx context.Context, requester *Session, filter models.OrderFilter) ([]models.Order, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	return s.orders.ListOrders(ctx, requester, filter)
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, requester *Session, orderID, status string) (*models.Order, error) {
	return s.orders.UpdateOrderStatus(ctx, requester, orderID, status)
}

func (s *AdminService) DeleteOrder(ctx context.Context, requester *Session, orderID string) error {
	return s.orders.DeleteOrder(ctx, requester, orderID)
}

// ListUsers daftar customer (role user), terbaru dulu.
func (s *AdminService) ListUsers(ctx context.Context, requester *Session, page, limit int) (*UserPage, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	// Session baru biar chain bisa dipakai dua kali (Count lalu Find)
	db := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleUser).Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	users := []models.User{}
	if err := db.Order("created_at desc, id desc").Limit(limit).Offset((page - 1) * limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &UserPage{
		Users: users,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Dashboard ringkasan performa bisnis untuk admin.
func (s *AdminService) Dashboard(ctx context.Context, requester *Session) (*models.DashboardStats, error) {
	if err := requireAdmin(requester); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	stats := &models.DashboardStats{OrdersByStatus: map[string]int64{}}
	for _, st := range models.Statuses {
		stats.OrdersByStatus[st] = 0
	}

	type statusCount struct {
		Status string
		Total  int64
	}
	var counts []statusCount
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS total").Group("status").Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	for _, c := range counts {
		stats.OrdersByStatus[c.Status] = c.Total
		stats.TotalOrders += c.Total
	}

	// pendapatan kotor = order yang sudah Selesai
	type revenue struct {
		Total float64
	}
	var rev revenue
	if err := db.Model(&models.Order{}).
		Where("status = ?", models.StatusDone).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Scan(&rev).Error; err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	stats.GrossRevenue = rev.Total

	if err := db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	avg, total, err := ratingAggregate(db)
	if err != nil {
		return nil, err
	}
	stats.AverageRating = avg
	stats.TotalReviews = total

	return stats, nil
}
