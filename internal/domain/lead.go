package domain

import "time"

// LeadStatus статус лида в воронке
type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "NEW"
	LeadStatusConversation LeadStatus = "CONVERSATION"
	LeadStatusClosing      LeadStatus = "CLOSING"
	LeadStatusGhosting     LeadStatus = "GHOSTING"
)

// Lead представляет собой лида (потенциального клиента)
type Lead struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Status      LeadStatus `json:"status" db:"status"`
	LastMessage string     `json:"last_message,omitempty" db:"last_message"`
	Temperature int        `json:"temperature" db:"temperature"`
	Unread      bool       `json:"unread" db:"unread"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// LeadRequest запрос на создание или обновление лида
type LeadRequest struct {
	Name        string `json:"name" binding:"required"`
	Status      string `json:"status,omitempty"`
	LastMessage string `json:"last_message,omitempty"`
	Temperature int    `json:"temperature,omitempty"`
}

// ValidStatus проверяет, что переданный статус известен.
func ValidStatus(s string) bool {
	switch LeadStatus(s) {
	case LeadStatusNew, LeadStatusConversation, LeadStatusClosing, LeadStatusGhosting:
		return true
	}
	return false
}
