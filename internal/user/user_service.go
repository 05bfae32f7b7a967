package user

import (
	"context"
	"errors"

	usererrors "github.com/Santatra-A/leave-management/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, nameFilter string) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	AdjustAllowance(ctx context.Context, id string, req AdjustAllowanceRequest) (UserResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context, nameFilter string) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx, nameFilter)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	return mapToResponse(*u), nil
}

// AdjustAllowance overwrites the user's leave allowance and role. All
// validation happens before any write; a failure leaves the record untouched.
// Existing leave requests are not affected.
func (s *service) AdjustAllowance(ctx context.Context, id string, req AdjustAllowanceRequest) (UserResponse, error) {
	s.logger.Debug("adjust allowance requested",
		zap.String("user_id", id),
		zap.Int("total_leave_days", req.TotalLeaveDays),
		zap.Int("remaining_leave_days", req.RemainingLeaveDays),
		zap.String("role", req.Role),
	)

	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	if req.TotalLeaveDays < 0 {
		return UserResponse{}, usererrors.ErrNegativeTotalDays
	}
	if req.RemainingLeaveDays < 0 {
		return UserResponse{}, usererrors.ErrNegativeRemainingDays
	}
	if req.RemainingLeaveDays > req.TotalLeaveDays {
		return UserResponse{}, usererrors.ErrRemainingExceedsTotal
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	u.TotalLeaveDays = req.TotalLeaveDays
	u.RemainingLeaveDays = req.RemainingLeaveDays
	u.Role = req.Role

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("adjust allowance persist failed",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return UserResponse{}, err
	}

	s.logger.Info("adjust allowance success",
		zap.String("user_id", id),
		zap.Int("total_leave_days", u.TotalLeaveDays),
		zap.Int("remaining_leave_days", u.RemainingLeaveDays),
	)

	return mapToResponse(*u), nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:                 u.ID.String(),
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role,
		TotalLeaveDays:     u.TotalLeaveDays,
		RemainingLeaveDays: u.RemainingLeaveDays,
		IsVerified:         u.IsVerified,
		CreatedAt:          u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
