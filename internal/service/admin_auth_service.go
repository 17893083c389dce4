package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/medingen/catalog_api/internal/models"
	"github.com/medingen/catalog_api/internal/utils"
)

// AdminStore is the store adapter for operator accounts.
type AdminStore interface {
	GetByEmail(email string) (*models.AdminUser, error)
	Create(user *models.AdminUser) error
	TouchLastLogin(id int) error
}

type AdminAuthService struct {
	adminStore AdminStore
}

func NewAdminAuthService(adminStore AdminStore) *AdminAuthService {
	return &AdminAuthService{adminStore: adminStore}
}

func (s *AdminAuthService) Login(email, password string) (string, error) {
	user, err := s.adminStore.GetByEmail(email)
	if err != nil {
		log.Warn().Str("email", email).Msg("login attempt for unknown user")
		return "", errors.New("invalid credentials")
	}

	if !user.IsActive {
		log.Warn().Str("email", email).Msg("login attempt for inactive account")
		return "", errors.New("account is inactive")
	}

	// Verify password using bcrypt
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("password verification failed")
		return "", errors.New("invalid credentials")
	}

	if err := s.adminStore.TouchLastLogin(user.ID); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("failed to record last login")
	}

	log.Info().Str("email", email).Msg("login successful")
	return utils.GenerateJWT(user.ID, user.Email)
}

func (s *AdminAuthService) CreateAdmin(email, password, name string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.AdminUser{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		IsActive:     true,
	}

	return s.adminStore.Create(user)
}

// EnsureAdmin creates the operator account when it does not exist yet.
// Called once at startup with ADMIN_EMAIL/ADMIN_PASSWORD so a fresh
// deployment can log in without manual SQL. An existing account is left
// untouched, so a stale ADMIN_PASSWORD never overwrites a rotated one.
func (s *AdminAuthService) EnsureAdmin(email, password, name string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: admin email and password required", utils.ErrInvalidInput)
	}

	_, err := s.adminStore.GetByEmail(email)
	if err == nil {
		log.Debug().Str("email", email).Msg("admin account already exists")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}

	if err := s.CreateAdmin(email, password, name); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStoreUnavailable, err)
	}
	log.Info().Str("email", email).Msg("admin account created")
	return nil
}
