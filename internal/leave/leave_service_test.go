package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Santatra-A/leave-management/internal/leave"
	leaveerrors "github.com/Santatra-A/leave-management/internal/leave/errors"
	"github.com/Santatra-A/leave-management/internal/messaging/kafka"
	"github.com/Santatra-A/leave-management/internal/user"
	usererrors "github.com/Santatra-A/leave-management/internal/user/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn             func(tx *sql.Tx) leave.Repository
	createFn             func(ctx context.Context, l *leave.Leave) error
	findAllFn            func(ctx context.Context) ([]leave.Leave, error)
	findByIDFn           func(ctx context.Context, id string) (*leave.Leave, error)
	hasApprovedOverlapFn func(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error)
	markDecidedFn        func(ctx context.Context, id, status string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) HasApprovedOverlap(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error) {
	if f.hasApprovedOverlapFn != nil {
		return f.hasApprovedOverlapFn(ctx, userID, startDate, endDate)
	}
	return false, nil
}

func (f *fakeLeaveRepository) MarkDecided(ctx context.Context, id, status string) (bool, error) {
	if f.markDecidedFn != nil {
		return f.markDecidedFn(ctx, id, status)
	}
	return true, nil
}

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

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	users   *fakeUserRepository
	outbox  *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	users := &fakeUserRepository{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewServiceWithOutbox(db, repo, users, outbox)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		users:   users,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

// dateFromNow returns the date offset days from today as YYYY-MM-DD.
func dateFromNow(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func ownerWithBalance(id uuid.UUID, remaining int) *user.User {
	return &user.User{
		ID:                 id,
		Name:               "Jane Roe",
		Email:              "jane@example.com",
		Role:               user.RoleEmployee,
		TotalLeaveDays:     25,
		RemainingLeaveDays: remaining,
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success single day counts as one", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		day := dateFromNow(7)
		req := leave.CreateLeaveRequest{
			UserID:    userID.String(),
			StartDate: day,
			EndDate:   day,
			Reason:    "Medical appointment",
		}

		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			assert.Equal(t, userID.String(), id)
			return ownerWithBalance(userID, 10), nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, userID, l.UserID)
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, day, l.StartDate.Format("2006-01-02"))
			assert.Equal(t, day, l.EndDate.Format("2006-01-02"))
			return nil
		}

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, "Jane Roe", resp.UserName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success five day range counts endpoints", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			UserID:    userID.String(),
			StartDate: dateFromNow(10),
			EndDate:   dateFromNow(14),
			Reason:    "Vacation",
		}

		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 5), nil
		}

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.CreateLeaveRequest{
			UserID:    uuid.New().String(),
			StartDate: dateFromNow(7),
			EndDate:   dateFromNow(8),
			Reason:    "Vacation",
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative period already passed", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.CreateLeaveRequest{
			UserID:    userID.String(),
			StartDate: dateFromNow(-5),
			EndDate:   dateFromNow(-3),
			Reason:    "Late filing",
		}

		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 10), nil
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, leaveerrors.ErrPastPeriod)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("period ending today is not past", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		today := dateFromNow(0)
		req := leave.CreateLeaveRequest{
			UserID:    userID.String(),
			StartDate: today,
			EndDate:   today,
			Reason:    "Sick today",
		}

		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 10), nil
		}

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.CreateLeaveRequest{
			UserID:    userID.String(),
			StartDate: dateFromNow(14),
			EndDate:   dateFromNow(10),
			Reason:    "Backwards range",
		}

		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 10), nil
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative overlapping approved leave", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.CreateLeaveRequest{
			UserID:    userID.String(),
			StartDate: dateFromNow(10),
			EndDate:   dateFromNow(12),
			Reason:    "Vacation",
		}

		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 10), nil
		}
		deps.repo.hasApprovedOverlapFn = func(ctx context.Context, uid string, startDate, endDate time.Time) (bool, error) {
			assert.Equal(t, userID.String(), uid)
			return true, nil
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative exceeds remaining balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.CreateLeaveRequest{
			UserID:    userID.String(),
			StartDate: dateFromNow(10),
			EndDate:   dateFromNow(14),
			Reason:    "Long vacation",
		}

		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 4), nil
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, leaveerrors.ErrExceedsRemainingDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative malformed date", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			UserID:    userID.String(),
			StartDate: "March 1st",
			EndDate:   dateFromNow(10),
			Reason:    "Vacation",
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	leaveID := uuid.New()

	pendingLeave := func(days int) *leave.Leave {
		start := time.Now().UTC().AddDate(0, 0, 10).Truncate(24 * time.Hour)
		return &leave.Leave{
			ID:        leaveID,
			UserID:    userID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, days-1),
			Reason:    "Vacation",
			Status:    leave.StatusPending,
		}
	}

	t.Run("approval decrements balance and queues events", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return pendingLeave(3), nil
		}
		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 10), nil
		}

		var decrementedDays int
		deps.users.decrementRemainingDaysFn = func(ctx context.Context, id string, days int) (bool, error) {
			assert.Equal(t, userID.String(), id)
			decrementedDays = days
			return true, nil
		}
		deps.repo.markDecidedFn = func(ctx context.Context, id, status string) (bool, error) {
			assert.Equal(t, leaveID.String(), id)
			assert.Equal(t, leave.StatusApproved, status)
			return true, nil
		}

		resp, err := deps.service.Decide(ctx, leaveID.String(), leave.DecideLeaveRequest{Status: leave.StatusApproved})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Equal(t, 3, decrementedDays)
		assert.Len(t, deps.outbox.created, 2)
		assert.Equal(t, "leave.decided", deps.outbox.created[0].EventType)
		assert.Equal(t, "email.requested", deps.outbox.created[1].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejection does not touch balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return pendingLeave(3), nil
		}
		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 10), nil
		}
		deps.users.decrementRemainingDaysFn = func(ctx context.Context, id string, days int) (bool, error) {
			t.Fatal("balance must not change on rejection")
			return false, nil
		}

		resp, err := deps.service.Decide(ctx, leaveID.String(), leave.DecideLeaveRequest{Status: leave.StatusRejected})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown leave", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Decide(ctx, uuid.New().String(), leave.DecideLeaveRequest{Status: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			l := pendingLeave(3)
			l.Status = leave.StatusApproved
			return l, nil
		}

		_, err := deps.service.Decide(ctx, leaveID.String(), leave.DecideLeaveRequest{Status: leave.StatusRejected})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyDecided)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative balance drained before approval", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return pendingLeave(5), nil
		}
		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 10), nil
		}
		deps.users.decrementRemainingDaysFn = func(ctx context.Context, id string, days int) (bool, error) {
			// Guarded UPDATE matched no rows: a concurrent approval won.
			return false, nil
		}

		_, err := deps.service.Decide(ctx, leaveID.String(), leave.DecideLeaveRequest{Status: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrExceedsRemainingDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return pendingLeave(8), nil
		}
		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 2), nil
		}

		_, err := deps.service.Decide(ctx, leaveID.String(), leave.DecideLeaveRequest{Status: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrExceedsRemainingDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative concurrent decision on status", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.Leave, error) {
			return pendingLeave(2), nil
		}
		deps.users.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return ownerWithBalance(userID, 10), nil
		}
		deps.repo.markDecidedFn = func(ctx context.Context, id, status string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Decide(ctx, leaveID.String(), leave.DecideLeaveRequest{Status: leave.StatusRejected})

		assert.ErrorIs(t, err, leaveerrors.ErrAlreadyDecided)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Decide(ctx, "not-a-uuid", leave.DecideLeaveRequest{Status: leave.StatusApproved})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		userID := uuid.New()
		start := time.Date(2030, 4, 1, 0, 0, 0, 0, time.UTC)
		deps.repo.findAllFn = func(ctx context.Context) ([]leave.Leave, error) {
			return []leave.Leave{
				{
					ID:        uuid.New(),
					UserID:    userID,
					StartDate: start,
					EndDate:   start.AddDate(0, 0, 1),
					Reason:    "Travel",
					Status:    leave.StatusPending,
					User:      &leave.LeaveUser{ID: userID, Name: "Jane Roe", Email: "jane@example.com"},
				},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, 2, resp[0].TotalDays)
		assert.Equal(t, "Jane Roe", resp[0].UserName)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]leave.Leave, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		start := time.Date(2030, 5, 10, 0, 0, 0, 0, time.UTC)
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{
				ID:        uuid.MustParse(targetID),
				UserID:    uuid.New(),
				StartDate: start,
				EndDate:   start,
				Reason:    "Errand",
				Status:    leave.StatusPending,
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, 1, resp.TotalDays)
	})

	t.Run("negative unknown id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, id.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "42")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})
}
