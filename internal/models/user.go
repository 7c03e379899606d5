package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User merepresentasikan tabel 'users' di database
type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Username     string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // json:"-" artinya field ini TIDAK AKAN dikirim balik ke frontend (rahasia)
	Phone        string    `gorm:"size:20" json:"phone"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Role         string    `gorm:"size:20;not null;default:user;index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Orders []Order `gorm:"foreignKey:UserID" json:"orders,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PublicProfile data user yang aman dikirim ke client.
type PublicProfile struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Role     string `json:"role"`
}

func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Bio:      u.Bio,
		Role:     u.Role,
	}
}

// Struct untuk menangkap Input Register dari user
type RegisterInput struct {
	FullName string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Struct untuk menangkap Input Login. Username boleh diisi email.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput: semua field opsional (nil = tidak diubah).
type UpdateProfileInput struct {
	Name            *string `json:"name"`
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Bio             *string `json:"bio"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
}
