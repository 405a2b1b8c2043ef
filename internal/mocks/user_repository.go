package mocks

import (
	"context"

	"github.com/lmarques/graphql-user-api/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository é um mock do user.Repository para testes
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.UserEntity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserEntity), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.UserEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserEntity), args.Error(1)
}

func (m *MockUserRepository) FindPage(ctx context.Context, count, skip int) ([]model.UserEntity, int64, error) {
	args := m.Called(ctx, count, skip)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.UserEntity), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Insert(ctx context.Context, entity *model.UserEntity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}
