package reporterrors

import (
	"net/http"

	"github.com/Santatra-A/leave-management/internal/shared/apperror"
)

var (
	ErrInvalidReportPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid report period, expected YYYY-MM-DD with end_date on or after start_date",
		http.StatusBadRequest,
	)
	ErrReportingNotConfigured = apperror.New(
		apperror.CodeServiceUnavailable,
		"reporting service is not configured",
		http.StatusServiceUnavailable,
	)
	ErrReportingUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"reporting service did not accept the request",
		http.StatusBadGateway,
	)
)
