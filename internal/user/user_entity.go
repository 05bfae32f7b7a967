package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"column:name;type:varchar(255);not null;index:idx_users_name"`
	Email    string    `gorm:"column:email;type:text;not null;uniqueIndex:uq_users_email"`
	Password string    `gorm:"column:password;type:text;not null"`
	Role     string    `gorm:"column:role;type:varchar(20);not null;default:EMPLOYEE"`

	// Leave-day ledger. RemainingLeaveDays is only decremented by an
	// approval and must never exceed TotalLeaveDays after an admin edit.
	TotalLeaveDays     int `gorm:"column:total_leave_days;type:int;not null;default:25"`
	RemainingLeaveDays int `gorm:"column:remaining_leave_days;type:int;not null;default:25"`

	IsVerified        bool    `gorm:"column:is_verified;default:false"`
	VerificationToken *string `gorm:"column:verification_token;type:text"`
	TokenVersion      int     `gorm:"column:token_version;type:int;not null;default:0"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_users_deleted_at"`
}
