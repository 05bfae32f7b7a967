package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	HasApprovedOverlap(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error)
	MarkDecided(ctx context.Context, id, status string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&l, "id = ?", id).Error
	return &l, err
}

// HasApprovedOverlap reports whether the user already has an APPROVED leave
// whose inclusive interval intersects [startDate, endDate]. Pending and
// rejected requests never block a new one.
func (r *repository) HasApprovedOverlap(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("user_id = ?", userID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Count(&count).Error
	return count > 0, err
}

// MarkDecided flips a PENDING request to its terminal status. The status
// guard in the WHERE clause makes concurrent decisions on the same record
// lose cleanly: the second one affects zero rows. Runs on the bound
// transaction when one is set.
func (r *repository) MarkDecided(ctx context.Context, id, status string) (bool, error) {
	query := `
UPDATE leaves
SET
	status = $2,
	updated_at = NOW()
WHERE id = $1
	AND status = 'PENDING'
	AND deleted_at IS NULL
`

	res, err := r.execer().ExecContext(ctx, query, id, status)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}

	sqlDB, err := r.db.DB()
	if err != nil {
		return failingExecer{err: err}
	}
	return sqlDB
}

type failingExecer struct{ err error }

func (f failingExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, f.err
}
