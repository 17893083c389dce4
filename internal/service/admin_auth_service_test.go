package service

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medingen/catalog_api/internal/models"
	"github.com/medingen/catalog_api/internal/utils"
)

type fakeAdminStore struct {
	byEmail   map[string]*models.AdminUser
	lookupErr error
	touched   []int
	nextID    int
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{byEmail: map[string]*models.AdminUser{}, nextID: 1}
}

func (f *fakeAdminStore) GetByEmail(email string) (*models.AdminUser, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminStore) Create(user *models.AdminUser) error {
	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeAdminStore) TouchLastLogin(id int) error {
	f.touched = append(f.touched, id)
	return nil
}

func seedAdmin(t *testing.T, store *fakeAdminStore, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	store.byEmail[email] = &models.AdminUser{
		ID:           store.nextID,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     active,
	}
	store.nextID++
}

func TestLogin(t *testing.T) {
	utils.SetJWTSecret("test-secret")

	t.Run("valid credentials return a token and record the login", func(t *testing.T) {
		store := newFakeAdminStore()
		seedAdmin(t, store, "ops@medingen.in", "s3cret", true)
		svc := NewAdminAuthService(store)

		token, err := svc.Login("ops@medingen.in", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Len(t, store.touched, 1)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		store := newFakeAdminStore()
		seedAdmin(t, store, "ops@medingen.in", "s3cret", true)
		svc := NewAdminAuthService(store)

		_, err := svc.Login("ops@medingen.in", "wrong")
		assert.Error(t, err)
		assert.Empty(t, store.touched)
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		store := newFakeAdminStore()
		seedAdmin(t, store, "ops@medingen.in", "s3cret", false)
		svc := NewAdminAuthService(store)

		_, err := svc.Login("ops@medingen.in", "s3cret")
		assert.Error(t, err)
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		svc := NewAdminAuthService(newFakeAdminStore())
		_, err := svc.Login("nobody@medingen.in", "s3cret")
		assert.Error(t, err)
	})
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("creates the account when it does not exist", func(t *testing.T) {
		store := newFakeAdminStore()
		svc := NewAdminAuthService(store)

		require.NoError(t, svc.EnsureAdmin("ops@medingen.in", "s3cret", "Ops"))

		user, err := store.GetByEmail("ops@medingen.in")
		require.NoError(t, err)
		assert.True(t, user.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
	})

	t.Run("existing account is left untouched", func(t *testing.T) {
		store := newFakeAdminStore()
		seedAdmin(t, store, "ops@medingen.in", "original", true)
		svc := NewAdminAuthService(store)

		require.NoError(t, svc.EnsureAdmin("ops@medingen.in", "rotated", "Ops"))

		user, err := store.GetByEmail("ops@medingen.in")
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("original")))
	})

	t.Run("blank credentials are rejected", func(t *testing.T) {
		svc := NewAdminAuthService(newFakeAdminStore())
		assert.ErrorIs(t, svc.EnsureAdmin("", "", "Ops"), utils.ErrInvalidInput)
	})

	t.Run("store failure surfaces as unavailable", func(t *testing.T) {
		store := newFakeAdminStore()
		store.lookupErr = errors.New("connection refused")
		svc := NewAdminAuthService(store)

		assert.ErrorIs(t, svc.EnsureAdmin("ops@medingen.in", "s3cret", "Ops"), utils.ErrStoreUnavailable)
	})
}
