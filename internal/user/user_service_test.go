package user_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Santatra-A/leave-management/internal/user"
	usererrors "github.com/Santatra-A/leave-management/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	withTxFn                 func(tx *sql.Tx) user.Repository
	createFn                 func(ctx context.Context, u *user.User) error
	findByIDFn               func(ctx context.Context, id string) (*user.User, error)
	findByEmailFn            func(ctx context.Context, email string) (*user.User, error)
	findAllFn                func(ctx context.Context, nameFilter string) ([]user.User, error)
	updateFn                 func(ctx context.Context, u *user.User) error
	decrementRemainingDaysFn func(ctx context.Context, id string, days int) (bool, error)
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindAll(ctx context.Context, nameFilter string) ([]user.User, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, nameFilter)
	}
	return nil, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) DecrementRemainingDays(ctx context.Context, id string, days int) (bool, error) {
	if f.decrementRemainingDaysFn != nil {
		return f.decrementRemainingDaysFn(ctx, id, days)
	}
	return true, nil
}

func storedUser(id uuid.UUID) *user.User {
	return &user.User{
		ID:                 id,
		Name:               "Jane Roe",
		Email:              "jane@example.com",
		Role:               user.RoleEmployee,
		TotalLeaveDays:     25,
		RemainingLeaveDays: 20,
	}
}

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success with name filter", func(t *testing.T) {
		repo := &fakeUserRepository{
			findAllFn: func(ctx context.Context, nameFilter string) ([]user.User, error) {
				assert.Equal(t, "jane", nameFilter)
				return []user.User{*storedUser(uuid.New())}, nil
			},
		}
		svc := user.NewService(repo)

		resp, err := svc.GetAll(ctx, "jane")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Jane Roe", resp[0].Name)
		assert.Equal(t, 20, resp[0].RemainingLeaveDays)
	})

	t.Run("negative repo error", func(t *testing.T) {
		repo := &fakeUserRepository{
			findAllFn: func(ctx context.Context, nameFilter string) ([]user.User, error) {
				return nil, errors.New("db error")
			},
		}
		svc := user.NewService(repo)

		resp, err := svc.GetAll(ctx, "")

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, targetID string) (*user.User, error) {
				assert.Equal(t, id.String(), targetID)
				return storedUser(id), nil
			},
		}
		svc := user.NewService(repo)

		resp, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, 25, resp.TotalLeaveDays)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.GetByID(ctx, id.String())

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.GetByID(ctx, "17")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}

func TestUserService_AdjustAllowance(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		var saved *user.User
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, targetID string) (*user.User, error) {
				return storedUser(id), nil
			},
			updateFn: func(ctx context.Context, u *user.User) error {
				saved = u
				return nil
			},
		}
		svc := user.NewService(repo)

		resp, err := svc.AdjustAllowance(ctx, id.String(), user.AdjustAllowanceRequest{
			TotalLeaveDays:     30,
			RemainingLeaveDays: 12,
			Role:               user.RoleAdmin,
		})

		assert.NoError(t, err)
		assert.Equal(t, 30, resp.TotalLeaveDays)
		assert.Equal(t, 12, resp.RemainingLeaveDays)
		assert.Equal(t, user.RoleAdmin, resp.Role)
		assert.NotNil(t, saved)
		assert.Equal(t, 30, saved.TotalLeaveDays)
	})

	t.Run("remaining may equal total", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, targetID string) (*user.User, error) {
				return storedUser(id), nil
			},
		}
		svc := user.NewService(repo)

		resp, err := svc.AdjustAllowance(ctx, id.String(), user.AdjustAllowanceRequest{
			TotalLeaveDays:     18,
			RemainingLeaveDays: 18,
			Role:               user.RoleEmployee,
		})

		assert.NoError(t, err)
		assert.Equal(t, 18, resp.RemainingLeaveDays)
	})

	t.Run("negative total below zero leaves record untouched", func(t *testing.T) {
		repo := &fakeUserRepository{
			updateFn: func(ctx context.Context, u *user.User) error {
				t.Fatal("update must not run on validation failure")
				return nil
			},
		}
		svc := user.NewService(repo)

		_, err := svc.AdjustAllowance(ctx, id.String(), user.AdjustAllowanceRequest{
			TotalLeaveDays:     -1,
			RemainingLeaveDays: 0,
			Role:               user.RoleEmployee,
		})

		assert.ErrorIs(t, err, usererrors.ErrNegativeTotalDays)
	})

	t.Run("negative remaining below zero", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.AdjustAllowance(ctx, id.String(), user.AdjustAllowanceRequest{
			TotalLeaveDays:     10,
			RemainingLeaveDays: -2,
			Role:               user.RoleEmployee,
		})

		assert.ErrorIs(t, err, usererrors.ErrNegativeRemainingDays)
	})

	t.Run("negative remaining above total", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.AdjustAllowance(ctx, id.String(), user.AdjustAllowanceRequest{
			TotalLeaveDays:     10,
			RemainingLeaveDays: 11,
			Role:               user.RoleEmployee,
		})

		assert.ErrorIs(t, err, usererrors.ErrRemainingExceedsTotal)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.AdjustAllowance(ctx, id.String(), user.AdjustAllowanceRequest{
			TotalLeaveDays:     10,
			RemainingLeaveDays: 5,
			Role:               user.RoleEmployee,
		})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.AdjustAllowance(ctx, "not-a-uuid", user.AdjustAllowanceRequest{
			TotalLeaveDays:     10,
			RemainingLeaveDays: 5,
			Role:               user.RoleEmployee,
		})

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}
