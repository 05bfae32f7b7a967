package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Leave struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_leaves_user_dates"`

	// Inclusive date range; both endpoints count as leave days.
	StartDate time.Time `gorm:"column:start_date;type:date;not null;index:idx_leaves_user_dates"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null;index:idx_leaves_user_dates"`

	Reason string `gorm:"column:reason;type:text;not null"`
	Status string `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index:idx_leaves_user_status"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_leaves_deleted_at"`

	User *LeaveUser `gorm:"foreignKey:UserID;references:ID"`
}

// LeaveUser carries the owner identity fields joined onto list responses.
type LeaveUser struct {
	ID    uuid.UUID `gorm:"primaryKey"`
	Name  string    `gorm:"column:name"`
	Email string    `gorm:"column:email"`
}

func (LeaveUser) TableName() string {
	return "users"
}
