package entity

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is one dated journal document. Paragraph indexes used by the
// spark pipeline refer to double-newline splits of Content.
type JournalEntry struct {
	Id        uuid.UUID
	Title     string
	Content   string
	EntryDate time.Time
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
