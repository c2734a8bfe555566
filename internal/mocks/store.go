// Package mocks provides hand-rolled test doubles for the store and service
// interfaces. Each mock exposes function fields so tests can inject behavior
// per call; unset fields fall back to a benign default.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskward/internal/domain"
	"taskward/internal/store"
)

// MockUserStore is a configurable mock implementation of store.UserStore.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

// MockTaskStore is a configurable mock implementation of store.TaskStore.
type MockTaskStore struct {
	CreateFn           func(ctx context.Context, task *domain.Task) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	GetOwnedByIDsFn    func(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*domain.Task, error)
	ListFn             func(ctx context.Context, ownerID uuid.UUID, filter store.TaskListFilter) ([]*domain.Task, int, error)
	UpdateFn           func(ctx context.Context, task *domain.Task) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	ExpireOverdueFn    func(ctx context.Context, ownerID uuid.UUID, boundary time.Time) (int64, error)
	ExpireAllOverdueFn func(ctx context.Context, boundary time.Time) (int64, error)
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return nil
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskStore) GetOwnedByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*domain.Task, error) {
	if m.GetOwnedByIDsFn != nil {
		return m.GetOwnedByIDsFn(ctx, ownerID, ids)
	}
	return nil, nil
}

func (m *MockTaskStore) List(ctx context.Context, ownerID uuid.UUID, filter store.TaskListFilter) ([]*domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, ownerID, filter)
	}
	return nil, 0, nil
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	return nil
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockTaskStore) ExpireOverdue(ctx context.Context, ownerID uuid.UUID, boundary time.Time) (int64, error) {
	if m.ExpireOverdueFn != nil {
		return m.ExpireOverdueFn(ctx, ownerID, boundary)
	}
	return 0, nil
}

func (m *MockTaskStore) ExpireAllOverdue(ctx context.Context, boundary time.Time) (int64, error) {
	if m.ExpireAllOverdueFn != nil {
		return m.ExpireAllOverdueFn(ctx, boundary)
	}
	return 0, nil
}

// MockCounterStore is a configurable mock implementation of
// store.CounterStore. With no NextFn set it behaves as an in-memory counter,
// which is what most tests want.
type MockCounterStore struct {
	NextFn func(ctx context.Context, name string) (int64, error)

	mu     sync.Mutex
	values map[string]int64
}

var _ store.CounterStore = (*MockCounterStore)(nil)

func (m *MockCounterStore) Next(ctx context.Context, name string) (int64, error) {
	if m.NextFn != nil {
		return m.NextFn(ctx, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]int64)
	}
	m.values[name]++
	return m.values[name], nil
}
