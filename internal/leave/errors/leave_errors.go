package leaveerrors

import (
	"net/http"

	"github.com/Santatra-A/leave-management/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrPastPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"the requested period has already passed",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an approved leave already covers part of this period",
		http.StatusBadRequest,
	)
	ErrExceedsRemainingDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested days exceed the remaining leave balance",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"only pending requests can be decided",
		http.StatusBadRequest,
	)
)
