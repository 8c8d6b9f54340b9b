package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalEntry struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Content   string         `gorm:"type:text"`
	EntryDate time.Time      `gorm:"type:date;not null;index"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}
