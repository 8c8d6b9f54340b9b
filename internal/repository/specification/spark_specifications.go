package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEntryID scopes memories, nudges and runs to one journal entry.
type ByEntryID struct {
	EntryID uuid.UUID
}

func (s ByEntryID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("entry_id = ?", s.EntryID)
}
