package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/pkg/mailer"
	"spark-journal-be/internal/pkg/serverutils"
	"spark-journal-be/internal/repository/specification"
	"spark-journal-be/internal/repository/unitofwork"

	"spark-journal-be/pkg/events"
	pktNats "spark-journal-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, eventPublisher *pktNats.Publisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func signAccessToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(serverutils.JwtSecret())
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:            uuid.New(),
		Email:         req.Email,
		FullName:      req.FullName,
		PasswordHash:  &hashStr,
		Role:          entity.UserRoleUser,
		Status:        entity.UserStatusPending,
		EmailVerified: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// User and OTP land in one transaction so an email is never sent for a
	// half-created account.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	otpCode, err := generateOTP()
	if err != nil {
		return nil, err
	}

	verificationToken := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     otpCode,
		ExpiresAt: time.Now().Add(15 * time.Minute),
		CreatedAt: time.Now(),
	}

	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, verificationToken); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendOTP(user.Email, otpCode); emailErr != nil {
			fmt.Printf("Error sending registration email: %v\n", emailErr)
		}
	}()

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return errors.New("user not found")
	}

	if user.Status == entity.UserStatusActive {
		return nil
	}

	tokenEntity, err := uow.UserRepository().FindEmailVerificationToken(ctx,
		specification.UserOwnedBy{UserID: user.Id},
		specification.ByToken{Token: req.Token},
	)
	if err != nil || tokenEntity == nil {
		return errors.New("invalid otp code")
	}

	if time.Now().After(tokenEntity.ExpiresAt) {
		return errors.New("otp code expired")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().ActivateUser(ctx, user.Id); err != nil {
		return err
	}

	_ = uow.UserRepository().DeleteEmailVerificationToken(ctx, tokenEntity.Id)

	return uow.Commit()
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return nil, errors.New("invalid credentials")
	}

	if user.PasswordHash == nil {
		return nil, errors.New("user registered via OAuth")
	}

	if user.Status == entity.UserStatusPending || !user.EmailVerified {
		return nil, errors.New("email not verified. please check your inbox for the otp code")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	signedToken, err := signAccessToken(user)
	if err != nil {
		return nil, err
	}

	var rawRefreshToken string

	if req.RememberMe {
		rawRefreshToken = uuid.New().String()

		hasher := sha256.New()
		hasher.Write([]byte(rawRefreshToken))
		tokenHash := hex.EncodeToString(hasher.Sum(nil))

		refreshTokenEntity := &entity.UserRefreshToken{
			Id:        uuid.New(),
			UserId:    user.Id,
			TokenHash: tokenHash,
			ExpiresAt: time.Now().Add(time.Hour * 24 * 30),
			Revoked:   false,
			CreatedAt: time.Now(),
			IpAddress: ipAddress,
			UserAgent: userAgent,
		}

		if err := uow.UserRepository().CreateRefreshToken(ctx, refreshTokenEntity); err != nil {
			return nil, fmt.Errorf("failed to create session: %v", err)
		}
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "USER_LOGIN",
			Data: map[string]interface{}{
				"user_id": user.Id,
				"device":  userAgent,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return &dto.LoginResponse{
		AccessToken:  signedToken,
		RefreshToken: rawRefreshToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	hasher := sha256.New()
	hasher.Write([]byte(req.RefreshToken))
	tokenHash := hex.EncodeToString(hasher.Sum(nil))

	tokenEntity, err := uow.UserRepository().FindRefreshToken(ctx, specification.ByTokenHash{Hash: tokenHash})
	if err != nil {
		return nil, err
	}
	if tokenEntity == nil || tokenEntity.Revoked {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(tokenEntity.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: tokenEntity.UserId})
	if err != nil || user == nil {
		return nil, errors.New("invalid refresh token")
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	signedToken, err := signAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshTokenResponse{AccessToken: signedToken}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	hasher := sha256.New()
	hasher.Write([]byte(refreshToken))
	tokenHash := hex.EncodeToString(hasher.Sum(nil))

	return uow.UserRepository().RevokeRefreshToken(ctx, tokenHash)
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		// Don't leak whether the address exists
		return nil
	}

	token := uuid.New().String()
	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
		CreatedAt: time.Now(),
		Used:      false,
	}

	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return err
	}

	go func() {
		if emailErr := s.emailService.SendResetToken(user.Email, token); emailErr != nil {
			fmt.Printf("Error sending reset password email: %v\n", emailErr)
		}
	}()

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	tokenEntity, err := uow.UserRepository().FindPasswordResetToken(ctx, specification.ByToken{Token: req.Token})
	if err != nil || tokenEntity == nil {
		return errors.New("invalid or expired token")
	}

	if tokenEntity.Used {
		return errors.New("this password reset link has already been used")
	}

	if time.Now().After(tokenEntity.ExpiresAt) {
		return errors.New("this password reset link has expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, tokenEntity.UserId, string(hash)); err != nil {
		return err
	}

	if err := uow.UserRepository().MarkTokenUsed(ctx, tokenEntity.Id); err != nil {
		return err
	}

	return uow.Commit()
}
