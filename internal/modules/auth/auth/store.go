package auth

import (
	"context"
	"errors"
	"time"

	"github.com/aben/console/internal/database"
	"github.com/aben/console/internal/models"
	"github.com/aben/console/internal/pkg/apperr"
	"gorm.io/gorm"
)

// NewAccount describes the user, tenant and owner membership created by register.
type NewAccount struct {
	Email        string
	PasswordHash string
	DisplayName  *string
	TenantName   string
	Slugs        []string
}

type Account struct {
	User   models.User
	Tenant models.Tenant
}

// Store is the account persistence used by Service. Lookups return nil, nil
// when the user does not exist.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	CreateAccount(ctx context.Context, in NewAccount) (*Account, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *GormStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

func (s *GormStore) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateAccount inserts the user, the first free tenant slug of in.Slugs and
// the owner membership in one transaction. Each slug attempt runs in its own
// savepoint so a duplicate does not abort the outer transaction.
func (s *GormStore) CreateAccount(ctx context.Context, in NewAccount) (*Account, error) {
	var out Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := models.User{Email: in.Email, PasswordHash: in.PasswordHash, DisplayName: in.DisplayName}
		if err := tx.Create(&user).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return apperr.ErrEmailInUse
			}
			return err
		}

		var tenant *models.Tenant
		for _, slug := range in.Slugs {
			t := models.Tenant{Slug: slug, Name: in.TenantName, IsActive: true}
			err := tx.Transaction(func(sp *gorm.DB) error { return sp.Create(&t).Error })
			if err == nil {
				tenant = &t
				break
			}
			if !database.IsUniqueViolation(err) {
				return err
			}
		}
		if tenant == nil {
			return apperr.ErrTenantSlugInUse
		}

		tu := models.TenantUser{
			TenantID: tenant.ID,
			UserID:   user.ID,
			Role:     models.RoleOwner,
			Status:   models.MembershipActive,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(&tu).Error; err != nil {
			return err
		}
		out = Account{User: user, Tenant: *tenant}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
}
