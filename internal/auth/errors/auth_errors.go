package autherrors

import (
	"net/http"

	"github.com/Santatra-A/leave-management/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"invalid email or password",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"token has expired",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid refresh token",
		http.StatusUnauthorized,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"email is already registered",
		http.StatusConflict,
	)
	ErrAccountNotVerified = apperror.New(
		apperror.CodeForbidden,
		"account is not verified, check your email",
		http.StatusForbidden,
	)
	ErrInvalidVerificationToken = apperror.New(
		apperror.CodeInvalidInput,
		"invalid or already used verification token",
		http.StatusBadRequest,
	)
	ErrInvalidOTP = apperror.New(
		apperror.CodeInvalidInput,
		"invalid or expired recovery code",
		http.StatusBadRequest,
	)
	ErrInvalidResetToken = apperror.New(
		apperror.CodeInvalidInput,
		"invalid or expired reset token",
		http.StatusBadRequest,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"could not generate token",
		http.StatusInternalServerError,
	)
)
