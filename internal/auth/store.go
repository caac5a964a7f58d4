package auth

import (
	"context"
	"errors"

	"gamecatalog/backend/internal/apperr"
	"gamecatalog/backend/internal/database"
	"gamecatalog/backend/internal/models"

	"github.com/samber/oops"
	"gorm.io/gorm"
)

// UserStore abstracts user persistence.
type UserStore interface {
	// FindByEmail returns the user with exactly this email, or apperr.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateUser persists a new user, or returns apperr.ErrDuplicateIdentity.
	CreateUser(ctx context.Context, u *models.User) error
}

// GormUserStore implements UserStore using GORM.
type GormUserStore struct{ DB *gorm.DB }

// NewGormUserStore creates a GormUserStore.
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, oops.Code("USER_LOOKUP_FAILED").Wrap(err)
	}
	return &u, nil
}

func (s *GormUserStore) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return oops.Code("DUPLICATE_IDENTITY").With("email", u.Email).Wrap(apperr.ErrDuplicateIdentity)
		}
		return oops.Code("USER_CREATE_FAILED").Wrap(err)
	}
	return nil
}
