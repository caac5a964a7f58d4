package mocks

import (
	"context"

	"gamecatalog/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type UserStore struct{ mock.Mock }

func (m *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

// Lookup lets the mock stand in for the gate's UserLookup as well.
func (m *UserStore) Lookup(ctx context.Context, email string) (*models.User, error) {
	return m.FindByEmail(ctx, email)
}
