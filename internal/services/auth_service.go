package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sairaklin-backend/internal/models"
	"sairaklin-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgBadCredentials = "Username atau password salah"

// Session hasil resolusi bearer token, dibawa lewat context request.
type Session struct {
	User    *models.User
	TokenID string
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User.IsAdmin()
}

type LoginResult struct {
	Token     string               `json:"token"`
	TokenType string               `json:"token_type"`
	ExpiresAt time.Time            `json:"expires_at"`
	User      models.PublicProfile `json:"user"`
}

type AuthOptions struct {
	Secret              []byte
	TokenTTL            time.Duration
	AllowedEmailDomains []string
}

type AuthService struct {
	db   *gorm.DB
	opts AuthOptions
	now  func() time.Time
}

func NewAuthService(db *gorm.DB, opts AuthOptions) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &AuthService{db: db, opts: opts, now: time.Now}
}

// Register membuat akun baru dengan role user.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.FullName)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	fe := fieldErrors{}
	s.validateName(fe, name)
	validateUsername(fe, username)
	s.validateEmail(fe, email)
	validatePasswordPolicy(fe, "password", in.Password)
	if err := fe.err(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureUnique(db, 0, username, email); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	// pre-check di atas bisa kalah balapan; unique index yang jadi penentu akhir
	if err := db.Create(&user).Error; err != nil {
		return nil, storeError(err, "create user", "Username atau email sudah terdaftar", "")
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return &user, nil
}

// Login memverifikasi kredensial lalu membuat session + token.
// Identifier boleh username atau email.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, AuthenticationError(msgBadCredentials)
	}

	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, AuthenticationError(msgBadCredentials)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, AuthenticationError(msgBadCredentials)
	}

	now := s.now()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.opts.TokenTTL),
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := utils.GenerateToken(s.opts.Secret, user.ID, user.Role, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID, "session_id": session.ID}).Info("user logged in")

	return &LoginResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		User:      user.Profile(),
	}, nil
}

// Authenticate: token -> session aktif -> user. Role selalu diambil dari tabel users.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, AuthenticationError("Token tidak ditemukan")
	}

	claims, err := utils.ParseToken(s.opts.Secret, token)
	if err != nil {
		return nil, AuthenticationError("Token tidak valid")
	}

	db := s.db.WithContext(ctx)

	var session models.Session
	if err := db.Where("id = ?", claims.ID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, AuthenticationError("Token tidak valid")
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if !session.Active(s.now()) || session.UserID != claims.UserID {
		return nil, AuthenticationError("Sesi sudah berakhir, silakan login ulang")
	}

	var user models.User
	if err := db.First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, AuthenticationError("Token tidak valid")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &Session{User: &user, TokenID: session.ID}, nil
}

// Logout me-revoke session milik token. Aman dipanggil berulang.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseTokenIgnoringExpiry(s.opts.Secret, token)
	if err != nil {
		return AuthenticationError("Token tidak valid")
	}

	now := s.now()
	err = s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", claims.ID).
		Update("revoked_at", &now).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": claims.UserID, "session_id": claims.ID}).Info("user logged out")
	return nil
}

func (s *AuthService) Me(ctx context.Context, session *Session) (models.PublicProfile, error) {
	if session == nil || session.User == nil {
		return models.PublicProfile{}, AuthenticationError("Unauthorized")
	}
	return session.User.Profile(), nil
}

// UpdateProfile mengubah data diri. Ganti password wajib menyertakan current_password.
func (s *AuthService) UpdateProfile(ctx context.Context, session *Session, in models.UpdateProfileInput) (models.PublicProfile, error) {
	if session == nil || session.User == nil {
		return models.PublicProfile{}, AuthenticationError("Unauthorized")
	}
	user := session.User

	updates := map[string]interface{}{}
	fe := fieldErrors{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		s.validateName(fe, name)
		updates["name"] = name
	}

	username := user.Username
	if in.Username != nil {
		username = strings.ToLower(strings.TrimSpace(*in.Username))
		validateUsername(fe, username)
		updates["username"] = username
	}

	email := user.Email
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
		s.validateEmail(fe, email)
		updates["email"] = email
	}

	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if runeLen(phone) > maxPhoneLength {
			fe.add("phone", "Nomor HP terlalu panjang")
		}
		updates["phone"] = phone
	}

	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if runeLen(bio) > maxBioLength {
			fe.add("bio", "Bio maksimal 1000 karakter")
		}
		updates["bio"] = bio
	}

	changePassword := in.NewPassword != "" || in.CurrentPassword != ""
	if changePassword {
		switch {
		case in.CurrentPassword == "":
			fe.add("current_password", "Password lama wajib diisi")
		case in.NewPassword == "":
			fe.add("new_password", "Password baru wajib diisi")
		case !utils.CheckPassword(in.CurrentPassword, user.PasswordHash):
			fe.add("current_password", "Password lama salah")
		case in.NewPassword == in.CurrentPassword:
			fe.add("new_password", "Password baru tidak boleh sama dengan password lama")
		default:
			validatePasswordPolicy(fe, "new_password", in.NewPassword)
		}
	}

	if err := fe.err(); err != nil {
		return models.PublicProfile{}, err
	}

	db := s.db.WithContext(ctx)
	if err := s.ensureUnique(db, user.ID, username, email); err != nil {
		return models.PublicProfile{}, err
	}

	if changePassword {
		hash, err := utils.HashPassword(in.NewPassword)
		if err != nil {
			return models.PublicProfile{}, fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(user).Updates(updates).Error; err != nil {
				return storeError(err, "update user", "Username atau email sudah terdaftar", "")
			}
			if !changePassword {
				return nil
			}
			// session lain milik user ini ikut dicabut
			now := s.now()
			return tx.Model(&models.Session{}).
				Where("user_id = ? AND id <> ? AND revoked_at IS NULL", user.ID, session.TokenID).
				Update("revoked_at", &now).Error
		})
		if err != nil {
			return models.PublicProfile{}, err
		}
	}

	var fresh models.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		return models.PublicProfile{}, fmt.Errorf("reload user: %w", err)
	}
	*user = fresh

	utils.InfoLogger.WithFields(logrus.Fields{"user_id": user.ID, "password_changed": changePassword}).Info("profile updated")
	return fresh.Profile(), nil
}

// ensureUnique cek username/email belum dipakai user lain (selfID dikecualikan).
func (s *AuthService) ensureUnique(db *gorm.DB, selfID uint64, username, email string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ? AND id <> ?", username, selfID).Count(&count).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return ConflictError("Username sudah digunakan")
	}

	if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, selfID).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ConflictError("Email sudah terdaftar")
	}
	return nil
}

func (s *AuthService) validateName(fe fieldErrors, name string) {
	switch {
	case name == "":
		fe.add("name", "Nama wajib diisi")
	case runeLen(name) > maxNameLength:
		fe.add("name", "Nama maksimal 100 karakter")
	}
}

func (s *AuthService) validateEmail(fe fieldErrors, email string) {
	switch {
	case !isValidEmail(email):
		fe.add("email", "Format email tidak valid")
	case !emailDomainAllowed(email, s.opts.AllowedEmailDomains):
		fe.add("email", "Email harus menggunakan domain @"+strings.Join(s.opts.AllowedEmailDomains, ", @"))
	}
}

func validateUsername(fe fieldErrors, username string) {
	if !usernamePattern.MatchString(username) {
		fe.add("username", "Username 3-30 karakter, hanya huruf, angka, titik dan underscore")
	}
}

func validatePasswordPolicy(fe fieldErrors, field, password string) {
	if len(password) > utils.MaxPasswordBytes {
		fe.add(field, "Password maksimal 72 byte")
		return
	}
	if !utils.IsStrongPassword(password) {
		fe.add(field, "Password minimal 6 karakter dan harus mengandung huruf serta simbol")
	}
}
