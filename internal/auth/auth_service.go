package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	autherrors "github.com/Santatra-A/leave-management/internal/auth/errors"
	"github.com/Santatra-A/leave-management/internal/events"
	"github.com/Santatra-A/leave-management/internal/messaging/kafka"
	"github.com/Santatra-A/leave-management/internal/user"
	usererrors "github.com/Santatra-A/leave-management/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	otpTTL          = 10 * time.Minute
	resetTokenTTL   = 15 * time.Minute
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (AuthResponse, error)
	Verify(ctx context.Context, token string) error

	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Logout(ctx context.Context, userID string) error

	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (resetToken string, err error)
	ResetPassword(ctx context.Context, req PasswordRecoveryRequest) error
}

type service struct {
	users     user.Repository
	otpStore  OTPStore
	outbox    kafka.OutboxRepository
	jwtSecret []byte
	logger    *zap.Logger
}

func NewService(
	users user.Repository,
	otpStore OTPStore,
	outbox kafka.OutboxRepository,
	jwtSecret string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		users:     users,
		otpStore:  otpStore,
		outbox:    outbox,
		jwtSecret: []byte(jwtSecret),
		logger:    l,
	}
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	verificationToken, err := randomHex(32)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	u := &user.User{
		ID:                 uuid.New(),
		Name:               req.Name,
		Email:              req.Email,
		Password:           string(hashed),
		Role:               user.RoleEmployee,
		TotalLeaveDays:     25,
		RemainingLeaveDays: 25,
		VerificationToken:  &verificationToken,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("signup create user failed", zap.Error(err))
		return AuthResponse{}, err
	}

	if err := s.queueEmail(ctx, u, events.EmailKindAccountVerification, map[string]string{
		"token": verificationToken,
	}); err != nil {
		// The account exists; the user can still be verified manually or
		// re-triggered later, so only log the delivery failure.
		s.logger.Error("queue verification email failed",
			zap.String("user_id", u.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("signup success", zap.String("user_id", u.ID.String()))
	return mapToAuthResponse(u), nil
}

func (s *service) Verify(ctx context.Context, token string) error {
	if token == "" {
		return autherrors.ErrInvalidVerificationToken
	}

	u, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		return autherrors.ErrInvalidVerificationToken
	}

	u.IsVerified = true
	u.VerificationToken = nil
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Error("verify update user failed", zap.Error(err))
		return err
	}

	s.logger.Info("account verified", zap.String("user_id", u.ID.String()))
	return nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsVerified {
		return "", "", AuthResponse{}, autherrors.ErrAccountNotVerified
	}

	accessToken, err := s.generateToken(u, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(u, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("user_id", u.ID.String()))
	return accessToken, refreshToken, mapToAuthResponse(u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, usererrors.ErrUserNotFound
	}

	// A logout bumps token_version, which retires every refresh token
	// issued before it.
	tokenVersion, _ := claims["token_version"].(float64)
	if int(tokenVersion) != u.TokenVersion {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	newAccessToken, err := s.generateToken(u, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := s.generateToken(u, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, mapToAuthResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, usererrors.ErrUserNotFound
	}

	resp := mapToAuthResponse(u)
	return &resp, nil
}

func (s *service) Logout(ctx context.Context, userID string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return usererrors.ErrUserNotFound
	}

	u.TokenVersion++
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Error("logout bump token version failed", zap.Error(err))
		return err
	}

	return nil
}

func (s *service) RequestOTP(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return usererrors.ErrUserNotFound
	}

	otp, err := randomOTP()
	if err != nil {
		return autherrors.ErrTokenGenerationFailed
	}

	if err := s.otpStore.SaveOTP(ctx, u.Email, otp, otpTTL); err != nil {
		s.logger.Error("save otp failed", zap.Error(err))
		return err
	}

	if err := s.queueEmail(ctx, u, events.EmailKindPasswordOTP, map[string]string{
		"otp":         otp,
		"ttl_minutes": fmt.Sprintf("%d", int(otpTTL.Minutes())),
	}); err != nil {
		s.logger.Error("queue otp email failed", zap.Error(err))
		return err
	}

	s.logger.Info("otp requested", zap.String("user_id", u.ID.String()))
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	stored, err := s.otpStore.GetOTP(ctx, email)
	if err != nil {
		s.logger.Error("read otp failed", zap.Error(err))
		return "", err
	}
	if stored == "" || stored != otp {
		return "", autherrors.ErrInvalidOTP
	}

	if err := s.otpStore.DeleteOTP(ctx, email); err != nil {
		s.logger.Error("delete otp failed", zap.Error(err))
		return "", err
	}

	resetToken, err := randomHex(32)
	if err != nil {
		return "", autherrors.ErrTokenGenerationFailed
	}

	if err := s.otpStore.SaveResetToken(ctx, email, resetToken, resetTokenTTL); err != nil {
		s.logger.Error("save reset token failed", zap.Error(err))
		return "", err
	}

	return resetToken, nil
}

func (s *service) ResetPassword(ctx context.Context, req PasswordRecoveryRequest) error {
	stored, err := s.otpStore.GetResetToken(ctx, req.Email)
	if err != nil {
		s.logger.Error("read reset token failed", zap.Error(err))
		return err
	}
	if stored == "" || stored != req.ResetToken {
		return autherrors.ErrInvalidResetToken
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return usererrors.ErrUserNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Password = string(hashed)
	u.TokenVersion++
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.Error("reset password update failed", zap.Error(err))
		return err
	}

	if err := s.otpStore.DeleteResetToken(ctx, req.Email); err != nil {
		s.logger.Warn("delete reset token failed", zap.Error(err))
	}

	s.logger.Info("password reset", zap.String("user_id", u.ID.String()))
	return nil
}

func (s *service) queueEmail(ctx context.Context, u *user.User, kind string, data map[string]string) error {
	event := events.EmailRequestedEvent{
		EventType:  "email.requested",
		Kind:       kind,
		Recipient:  u.Email,
		Name:       u.Name,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "user",
		AggregateID:   u.ID.String(),
		EventType:     event.EventType,
		Topic:         events.EmailRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) generateToken(u *user.User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":       u.ID.String(),
		"role":          u.Role,
		"token_version": u.TokenVersion,
		"exp":           time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func mapToAuthResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
