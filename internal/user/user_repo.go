package user

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	FindAll(ctx context.Context, nameFilter string) ([]User, error)
	Update(ctx context.Context, u *User) error
	DecrementRemainingDays(ctx context.Context, id string, days int) (bool, error)
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

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "verification_token = ?", token).Error
	return &u, err
}

func (r *repository) FindAll(ctx context.Context, nameFilter string) ([]User, error) {
	var users []User

	db := r.db.WithContext(ctx)
	if nameFilter != "" {
		db = db.Where("name ILIKE ?", "%"+nameFilter+"%")
	}

	err := db.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// DecrementRemainingDays subtracts days from the user's remaining balance.
// The balance guard in the WHERE clause keeps the ledger from going negative
// under concurrent approvals; callers must treat a false return as
// insufficient balance. Runs on the bound transaction when one is set.
func (r *repository) DecrementRemainingDays(ctx context.Context, id string, days int) (bool, error) {
	query := `
UPDATE users
SET
	remaining_leave_days = remaining_leave_days - $2,
	updated_at = NOW()
WHERE id = $1
	AND remaining_leave_days >= $2
	AND deleted_at IS NULL
`

	res, err := r.execer().ExecContext(ctx, query, id, days)
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
