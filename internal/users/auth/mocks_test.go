// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/taibuivan/daybook/internal/users/auth"
)

// mockUserRepository implements auth.UserRepository.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) List(ctx context.Context, filter auth.UserFilter, limit, offset int) ([]*auth.User, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	users, _ := args.Get(0).([]*auth.User)
	return users, args.Int(1), args.Error(2)
}

// mockThrottle implements auth.LoginThrottle.
type mockThrottle struct {
	mock.Mock
}

func (m *mockThrottle) Locked(ctx context.Context, key string) (bool, time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func (m *mockThrottle) RecordFailure(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockThrottle) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
