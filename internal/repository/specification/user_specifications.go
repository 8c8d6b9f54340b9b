package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// UserOwnedBy scopes any user-owned table (entries, memories, nudges, runs)
// to one account. Every read on those tables must carry it.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// Token specs

// ByToken matches plaintext short-lived tokens (OTP, password reset).
type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

// ByTokenHash matches refresh tokens, which are stored hashed.
type ByTokenHash struct {
	Hash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.Hash)
}
