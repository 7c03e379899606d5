package models

import "time"

// Status order. Nilainya dipertahankan dalam Bahasa Indonesia karena
// dipakai apa adanya oleh frontend.
const (
	StatusWaiting    = "Menunggu"
	StatusProcessing = "Diproses"
	StatusDone       = "Selesai"
	StatusCancelled  = "Dibatalkan"
)

const (
	ServiceRoom     = "room"
	ServiceBathroom = "bathroom"
	ServiceBoth     = "both"
)

const (
	GenderUnspecified = "unspecified"
	GenderMale        = "male"
	GenderFemale      = "female"
)

var Statuses = []string{StatusWaiting, StatusProcessing, StatusDone, StatusCancelled}

// transisi legal: Menunggu -> Diproses -> Selesai, Menunggu|Diproses -> Dibatalkan.
// Selesai & Dibatalkan terminal.
var statusTransitions = map[string][]string{
	StatusWaiting:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusDone, StatusCancelled},
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition true kalau from -> to ada di graph status.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminalStatus(status string) bool {
	return status == StatusDone || status == StatusCancelled
}

type Order struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	UserID        uint64    `gorm:"not null;index" json:"user_id"`
	ServiceType   string    `gorm:"size:20;not null" json:"service_type"`
	Date          string    `gorm:"size:10;not null" json:"date"` // YYYY-MM-DD
	Time          string    `gorm:"size:5;not null" json:"time"`  // HH:MM
	Address       string    `gorm:"type:text;not null" json:"address"`
	CleaningTools bool      `gorm:"default:false" json:"cleaning_tools"`
	PremiumScent  bool      `gorm:"default:false" json:"premium_scent"`
	SpecialNotes  *string   `gorm:"type:text" json:"special_notes"`
	WorkerGender  string    `gorm:"size:20;not null;default:unspecified" json:"worker_gender"`
	Status        string    `gorm:"size:20;not null;default:Menunggu;index" json:"status"`
	TotalPrice    float64   `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relasi (Preload) biar pas query datanya lengkap
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Review *Review `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"review,omitempty"`
}

// CreateOrderInput payload POST /orders. ID opsional, kalau kosong server yang generate.
// total_price dari client diabaikan, harga selalu dihitung ulang di server.
type CreateOrderInput struct {
	ID            string   `json:"id"`
	ServiceType   string   `json:"service_type"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Address       string   `json:"address"`
	CleaningTools bool     `json:"cleaning_tools"`
	PremiumScent  bool     `json:"premium_scent"`
	SpecialNotes  *string  `json:"special_notes"`
	WorkerGender  string   `json:"worker_gender"`
	TotalPrice    *float64 `json:"total_price"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// OrderFilter dipakai listing (admin & user).
type OrderFilter struct {
	Status string
}
