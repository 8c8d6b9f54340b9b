package contract

import (
	"context"

	"github.com/google/uuid"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Token management
	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error)
	MarkTokenUsed(ctx context.Context, id uuid.UUID) error

	CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error
	FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error)
	DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error

	CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error
	FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error

	// Business specific
	ActivateUser(ctx context.Context, userId uuid.UUID) error
	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error
	UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error

	// Provider
	SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error
	FindUserProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error)
}
