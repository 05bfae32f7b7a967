package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Santatra-A/leave-management/internal/events"
	leaveerrors "github.com/Santatra-A/leave-management/internal/leave/errors"
	"github.com/Santatra-A/leave-management/internal/messaging/kafka"
	"github.com/Santatra-A/leave-management/internal/user"
	usererrors "github.com/Santatra-A/leave-management/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Decide(ctx context.Context, id string, req DecideLeaveRequest) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, users: users, logger: l}
}

// NewServiceWithOutbox additionally queues decision notification events in
// the same transaction as the decision itself.
func NewServiceWithOutbox(db *sql.DB, repo Repository, users user.Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	s := NewService(db, repo, users, logger...).(*service)
	s.outbox = outbox
	return s
}

// Create validates and inserts a new PENDING leave request. Checks run in a
// fixed order, first failure wins; the user's balance is untouched until an
// approval.
func (s *service) Create(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("user_id", req.UserID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userID, startDate, endDate, err := validateCreateRequest(req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	owner, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, usererrors.ErrUserNotFound
		}
		s.logger.Error("create leave user lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if endDate.Before(today()) {
		return LeaveResponse{}, leaveerrors.ErrPastPeriod
	}

	daysRequested := inclusiveDays(startDate, endDate)
	if daysRequested < 1 {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	overlap, err := qtx.HasApprovedOverlap(ctx, req.UserID, startDate, endDate)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("user_id", req.UserID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	if daysRequested > owner.RemainingLeaveDays {
		return LeaveResponse{}, leaveerrors.ErrExceedsRemainingDays
	}

	l := &Leave{
		ID:        uuid.New(),
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", req.UserID),
		zap.Int("days_requested", daysRequested),
	)

	l.User = &LeaveUser{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// Decide applies an admin decision to a PENDING request. An approval
// decrements the owner's remaining balance by the request's inclusive day
// count; balance update and status change commit together or not at all.
// Overlap is not re-validated here, only at creation time.
func (s *service) Decide(ctx context.Context, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("target_status", req.Status),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	uqtx := s.users.WithTx(tx)

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("decide leave lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("decide leave invalid state",
			zap.String("leave_id", id),
			zap.String("current_status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	owner, err := s.users.FindByID(ctx, l.UserID.String())
	if err != nil {
		s.logger.Error("decide leave owner lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	daysTaken := inclusiveDays(l.StartDate, l.EndDate)

	if req.Status == StatusApproved {
		if daysTaken > owner.RemainingLeaveDays {
			return LeaveResponse{}, leaveerrors.ErrExceedsRemainingDays
		}

		// The WHERE guard re-checks the balance inside the transaction;
		// a concurrent approval that drained it loses here.
		decremented, err := uqtx.DecrementRemainingDays(ctx, l.UserID.String(), daysTaken)
		if err != nil {
			s.logger.Error("decide leave balance decrement failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if !decremented {
			return LeaveResponse{}, leaveerrors.ErrExceedsRemainingDays
		}
	}

	decided, err := qtx.MarkDecided(ctx, id, req.Status)
	if err != nil {
		s.logger.Error("decide leave status update failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !decided {
		// Another decision won the race after our read.
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	if s.outbox != nil {
		if err := s.queueDecisionEvents(ctx, tx, l, owner, req.Status, daysTaken); err != nil {
			s.logger.Error("decide leave queue events failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", req.Status),
		zap.Int("days_taken", daysTaken),
	)

	l.Status = req.Status
	l.UpdatedAt = time.Now().UTC()
	return mapToResponse(*l), nil
}

func (s *service) queueDecisionEvents(ctx context.Context, tx *sql.Tx, l *Leave, owner *user.User, status string, daysTaken int) error {
	oqtx := s.outbox.WithTx(tx)
	now := time.Now().UTC()

	decided := events.LeaveDecidedEvent{
		EventType:  "leave.decided",
		LeaveID:    l.ID.String(),
		UserID:     l.UserID.String(),
		Status:     status,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		DaysTaken:  daysTaken,
		OccurredAt: now,
	}
	payload, err := json.Marshal(decided)
	if err != nil {
		return err
	}
	if err := oqtx.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     decided.EventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return err
	}

	email := events.EmailRequestedEvent{
		EventType: "email.requested",
		Kind:      events.EmailKindLeaveDecided,
		Recipient: owner.Email,
		Name:      owner.Name,
		Data: map[string]string{
			"status":     status,
			"start_date": decided.StartDate,
			"end_date":   decided.EndDate,
		},
		OccurredAt: now,
	}
	payload, err = json.Marshal(email)
	if err != nil {
		return err
	}
	return oqtx.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave",
		AggregateID:   l.ID.String(),
		EventType:     email.EventType,
		Topic:         events.EmailRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func validateCreateRequest(req CreateLeaveRequest) (uuid.UUID, time.Time, time.Time, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, usererrors.ErrInvalidUserID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	return userID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// inclusiveDays counts calendar days in [start, end], both endpoints
// included: a single-day leave is 1 day.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// today is the current UTC date at midnight. Comparison against it is
// date-precision: a leave ending today is not in the past.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		TotalDays: inclusiveDays(l.StartDate, l.EndDate),
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.Format(time.RFC3339),
	}
	if l.User != nil {
		resp.UserName = l.User.Name
		resp.UserEmail = l.User.Email
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
