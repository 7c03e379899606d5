package models

import "time"

// Session = satu bearer token yang pernah diterbitkan. ID sama dengan jti di JWT.
// Token hanya valid selama session-nya belum di-revoke dan belum expired.
type Session struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint64     `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
