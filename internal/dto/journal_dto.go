package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateJournalEntryRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=255"`
	Content   string `json:"content"`
	EntryDate string `json:"entry_date" validate:"required,datetime=2006-01-02"`
}

type UpdateJournalEntryRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content"`
}

type JournalEntryResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	EntryDate string    `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type JournalEntryListItem struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	EntryDate string    `json:"entry_date"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
}

type ListJournalEntriesResponse struct {
	Entries []JournalEntryListItem `json:"entries"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	Limit   int                    `json:"limit"`
}
