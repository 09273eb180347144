package domain

import "time"

// Script продающий скрипт из библиотеки скриптов.
// Удаленное хранилище исторически имеет две таблицы с разными схемами
// (scripts и mlm_scripts), репозиторий нормализует обе к этой модели.
type Script struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Company     string    `json:"company"`
	Tags        []string  `json:"tags,omitempty"`
	Tone        string    `json:"tone,omitempty"`
	CopiedCount int       `json:"copied_count"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// CopyEvent факт копирования скрипта пользователем.
type CopyEvent struct {
	ID        string    `json:"id" db:"id"`
	ScriptID  string    `json:"script_id" db:"script_id"`
	UserID    string    `json:"user_id,omitempty" db:"user_id"`
	FinalText string    `json:"final_text,omitempty" db:"final_text"`
	CopiedAt  time.Time `json:"copied_at" db:"copied_at"`
}
