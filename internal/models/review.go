package models

import "time"

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Review: satu rating per order (unique index di order_id).
type Review struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	OrderID   string    `gorm:"size:64;not null;uniqueIndex" json:"order_id"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Rating    int       `gorm:"not null;index" json:"rating"`
	Comment   *string   `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// CreateReviewInput body POST /reviews. Field teks dikirim frontend sebagai "review",
// "comment" diterima juga.
type CreateReviewInput struct {
	OrderID string  `json:"order_id"`
	Rating  *int    `json:"rating" binding:"required"`
	Review  *string `json:"review"`
	Comment *string `json:"comment"`
}

// Text mengambil isi ulasan dari salah satu field.
func (in CreateReviewInput) Text() string {
	switch {
	case in.Review != nil:
		return *in.Review
	case in.Comment != nil:
		return *in.Comment
	}
	return ""
}

// RecentReview item ulasan publik di halaman depan.
type RecentReview struct {
	ID        uint64    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewStats struct {
	AverageRating float64        `json:"average_rating"`
	TotalReviews  int64          `json:"total_reviews"`
	RecentReviews []RecentReview `json:"recent_reviews"`
}
