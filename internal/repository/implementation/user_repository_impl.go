package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"spark-journal-be/internal/entity"
	"spark-journal-be/internal/mapper"
	"spark-journal-be/internal/model"
	"spark-journal-be/internal/repository/contract"
	"spark-journal-be/internal/repository/specification"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var models []*model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Token management

func (r *UserRepositoryImpl) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	m := r.mapper.PasswordResetTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.PasswordResetTokenToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	var m model.PasswordResetToken
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PasswordResetTokenToEntity(&m), nil
}

func (r *UserRepositoryImpl) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}

func (r *UserRepositoryImpl) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	m := r.mapper.EmailVerificationTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.EmailVerificationTokenToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	var m model.EmailVerificationToken
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EmailVerificationTokenToEntity(&m), nil
}

func (r *UserRepositoryImpl) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.EmailVerificationToken{}).Error
}

func (r *UserRepositoryImpl) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	m := r.mapper.RefreshTokenToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.RefreshTokenToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindRefreshToken(ctx context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error) {
	var m model.UserRefreshToken
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RefreshTokenToEntity(&m), nil
}

func (r *UserRepositoryImpl) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Model(&model.UserRefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// Business specific

func (r *UserRepositoryImpl) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userId).
		Updates(map[string]interface{}{
			"status":            string(entity.UserStatusActive),
			"email_verified":    true,
			"email_verified_at": now,
		}).Error
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userId).
		Update("password_hash", hash).Error
}

func (r *UserRepositoryImpl) UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userId).
		Update("avatar_url", avatarURL).Error
}

// Provider

func (r *UserRepositoryImpl) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	m := r.mapper.UserProviderToModel(provider)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*provider = *r.mapper.UserProviderToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindUserProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error) {
	var m model.UserProvider
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserProviderToEntity(&m), nil
}
