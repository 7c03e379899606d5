package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sairaklin-backend/internal/metrics"
	"sairaklin-backend/internal/models"
	"sairaklin-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgOrderNotFound = "Order tidak ditemukan"

type OrderOptions struct {
	// StrictTransitions menolak perpindahan status di luar graph
	// Menunggu -> Diproses -> Selesai / -> Dibatalkan.
	StrictTransitions bool
}

type OrderService struct {
	db   *gorm.DB
	opts OrderOptions
}

func NewOrderService(db *gorm.DB, opts OrderOptions) *OrderService {
	return &OrderService{db: db, opts: opts}
}

// CreateOrder menyimpan order baru milik ownerID dengan status Menunggu.
func (s *OrderService) CreateOrder(ctx context.Context, ownerID uint64, in models.CreateOrderInput) (*models.Order, error) {
	order, err := buildOrder(ownerID, in)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	if in.ID != "" {
		var count int64
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check order id: %w", err)
		}
		if count > 0 {
			return nil, ConflictError("ID order sudah digunakan")
		}
	}

	if err := db.Create(order).Error; err != nil {
		return nil, storeError(err, "create order", "ID order sudah digunakan", "")
	}

	metrics.RecordOrderCreated(order.ServiceType)
	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"user_id":      ownerID,
		"service_type": order.ServiceType,
		"total_price":  order.TotalPrice,
	}).Info("order created")

	return order, nil
}

func buildOrder(ownerID uint64, in models.CreateOrderInput) (*models.Order, error) {
	fe := fieldErrors{}

	id := strings.TrimSpace(in.ID)
	if id != "" && !orderIDPattern.MatchString(id) {
		fe.add("id", "ID order hanya boleh huruf, angka, '-' dan '_' (maks 64)")
	}

	serviceType := strings.ToLower(strings.TrimSpace(in.ServiceType))
	switch {
	case serviceType == "":
		fe.add("service_type", "Jenis layanan wajib diisi")
	case !isValidServiceType(serviceType):
		fe.add("service_type", "Jenis layanan harus room, bathroom, atau both")
	}

	date := strings.TrimSpace(in.Date)
	switch {
	case date == "":
		fe.add("date", "Tanggal wajib diisi")
	case !isValidDate(date):
		fe.add("date", "Format tanggal harus YYYY-MM-DD")
	}

	clock := strings.TrimSpace(in.Time)
	switch {
	case clock == "":
		fe.add("time", "Jam wajib diisi")
	case !isValidTime(clock):
		fe.add("time", "Format jam harus HH:MM")
	}

	address := strings.TrimSpace(in.Address)
	switch {
	case address == "":
		fe.add("address", "Alamat wajib diisi")
	case runeLen(address) > maxAddressLength:
		fe.add("address", "Alamat maksimal 500 karakter")
	}

	var notes *string
	if in.SpecialNotes != nil {
		n := strings.TrimSpace(*in.SpecialNotes)
		if runeLen(n) > maxNotesLength {
			fe.add("special_notes", "Catatan maksimal 1000 karakter")
		}
		if n != "" {
			notes = &n
		}
	}

	gender := strings.ToLower(strings.TrimSpace(in.WorkerGender))
	switch gender {
	case "":
		gender = models.GenderUnspecified
	case models.GenderUnspecified, models.GenderMale, models.GenderFemale:
	default:
		fe.add("worker_gender", "Preferensi petugas harus unspecified, male, atau female")
	}

	if err := fe.err(); err != nil {
		return nil, err
	}

	if id == "" {
		id = "ORD-" + strings.ToUpper(uuid.NewString())
	}

	return &models.Order{
		ID:            id,
		UserID:        ownerID,
		ServiceType:   serviceType,
		Date:          date,
		Time:          clock,
		Address:       address,
		CleaningTools: in.CleaningTools,
		PremiumScent:  in.PremiumScent,
		SpecialNotes:  notes,
		WorkerGender:  gender,
		Status:        models.StatusWaiting,
		TotalPrice:    CalculatePrice(serviceType, in.CleaningTools, in.PremiumScent),
	}, nil
}

// ListOrders: admin dapat semua order (plus pemilik), user cuma order miliknya. Terbaru dulu.
func (s *OrderService) ListOrders(ctx context.Context, requester *Session, filter models.OrderFilter) ([]models.Order, error) {
	if requester == nil || requester.User == nil {
		return nil, AuthenticationError("Unauthorized")
	}

	query := s.db.WithContext(ctx).Preload("Review").Order("created_at desc, id desc")
	if requester.IsAdmin() {
		query = query.Preload("User")
	} else {
		query = query.Where("user_id = ?", requester.User.ID)
	}

	if filter.Status != "" {
		if !models.IsValidStatus(filter.Status) {
			return nil, ValidationError("Status tidak valid", map[string]string{"status": "Status tidak dikenal"})
		}
		query = query.Where("status = ?", filter.Status)
	}

	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder: order orang lain dianggap tidak ada (404), bukan 403.
func (s *OrderService) GetOrder(ctx context.Context, requester *Session, orderID string) (*models.Order, error) {
	if requester == nil || requester.User == nil {
		return nil, AuthenticationError("Unauthorized")
	}

	query := s.db.WithContext(ctx).Preload("Review").Where("id = ?", orderID)
	if requester.IsAdmin() {
		query = query.Preload("User")
	} else {
		query = query.Where("user_id = ?", requester.User.ID)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		return nil, storeError(err, "get order", "", msgOrderNotFound)
	}
	return &order, nil
}

// UpdateOrderStatus khusus admin.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, requester *Session, orderID, newStatus string) (*models.Order, error) {
	if !requester.IsAdmin() {
		return nil, AuthorizationError("Akses ditolak: khusus admin")
	}

	newStatus = strings.TrimSpace(newStatus)
	if !models.IsValidStatus(newStatus) {
		return nil, ValidationError("Status tidak valid", map[string]string{
			"status": "Status harus salah satu dari " + strings.Join(models.Statuses, ", "),
		})
	}

	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, storeError(err, "get order", "", msgOrderNotFound)
	}

	previous := order.Status
	if previous == newStatus {
		return &order, nil
	}

	if s.opts.StrictTransitions && !models.CanTransition(previous, newStatus) {
		return nil, ValidationError(
			fmt.Sprintf("Status tidak bisa diubah dari %s ke %s", previous, newStatus),
			map[string]string{"status": "Perpindahan status tidak diizinkan"},
		)
	}

	res := db.Model(&order).Update("status", newStatus)
	if res.Error != nil {
		return nil, fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NotFoundError(msgOrderNotFound)
	}
	order.Status = newStatus

	metrics.RecordOrderStatusUpdate(newStatus)
	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"admin_id": requester.User.ID,
		"from":     previous,
		"to":       newStatus,
	}).Info("order status updated")

	return &order, nil
}

// DeleteOrder khusus admin; review order ikut terhapus.
func (s *OrderService) DeleteOrder(ctx context.Context, requester *Session, orderID string) error {
	if !requester.IsAdmin() {
		return AuthorizationError("Akses ditolak: khusus admin")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete review: %w", err)
		}

		res := tx.Where("id = ?", orderID).Delete(&models.Order{})
		if res.Error != nil {
			return fmt.Errorf("delete order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFoundError(msgOrderNotFound)
		}
		return nil
	})
	if err != nil {
		var appErr *Error
		if !errors.As(err, &appErr) {
			utils.ErrorLogger.WithError(err).WithField("order_id", orderID).Error("delete order failed")
		}
		return err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"order_id": orderID, "admin_id": requester.User.ID}).Info("order deleted")
	return nil
}
