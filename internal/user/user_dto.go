package user

type AdjustAllowanceRequest struct {
	TotalLeaveDays     int    `json:"total_leave_days"`
	RemainingLeaveDays int    `json:"remaining_leave_days"`
	Role               string `json:"role" binding:"required,oneof=EMPLOYEE ADMIN"`
}

type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	TotalLeaveDays     int    `json:"total_leave_days"`
	RemainingLeaveDays int    `json:"remaining_leave_days"`
	IsVerified         bool   `json:"is_verified"`
	CreatedAt          string `json:"created_at"`
}
