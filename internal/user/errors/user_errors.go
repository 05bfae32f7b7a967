package usererrors

import (
	"net/http"

	"github.com/Santatra-A/leave-management/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrNegativeTotalDays = apperror.New(
		apperror.CodeInvalidInput,
		"total_leave_days must be a non-negative number",
		http.StatusBadRequest,
	)
	ErrNegativeRemainingDays = apperror.New(
		apperror.CodeInvalidInput,
		"remaining_leave_days must be a non-negative number",
		http.StatusBadRequest,
	)
	ErrRemainingExceedsTotal = apperror.New(
		apperror.CodeInvalidInput,
		"remaining_leave_days must not exceed total_leave_days",
		http.StatusBadRequest,
	)
)
